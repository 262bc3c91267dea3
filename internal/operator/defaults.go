package operator

import (
	"fmt"
	"math"

	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// Names of the default operators.
const (
	Translate       = "translate"
	Scale           = "scale"
	NonuniformScale = "nonuniform_scale"
	Paint           = "paint"
	Move            = "move"
)

// DefaultSpecs returns the built-in operator set.
func DefaultSpecs() []*Spec {
	return []*Spec{
		{
			Name:   Translate,
			Schema: map[string]ParamType{"dx": IntType, "dy": IntType},
			Apply:  applyTranslate,
		},
		{
			Name:   Scale,
			Schema: map[string]ParamType{"scale": FloatType},
			Apply:  applyScale,
		},
		{
			Name:   NonuniformScale,
			Schema: map[string]ParamType{"scale_x": FloatType, "scale_y": FloatType},
			Apply:  applyNonuniformScale,
		},
		{
			Name:   Paint,
			Schema: map[string]ParamType{"color": ColorType},
			Apply:  applyPaint,
		},
		{
			Name:   Move,
			Schema: map[string]ParamType{"axis": StringType, "distance": IntType},
			Apply:  applyMove,
		},
	}
}

func applyTranslate(p Params, r region.Region) (region.Region, error) {
	dx, err := p.Int("dx")
	if err != nil {
		return r, err
	}
	dy, err := p.Int("dy")
	if err != nil {
		return r, err
	}
	return r.Translate(int(dx), int(dy)), nil
}

// applyScale resizes about the centre; corners are floored after scaling.
func applyScale(p Params, r region.Region) (region.Region, error) {
	s, err := p.Float("scale")
	if err != nil {
		return r, err
	}
	cx, cy := r.Center()
	halfW := float64(r.Width()) * s / 2
	halfH := float64(r.Height()) * s / 2

	r.X1 = int(math.Floor(cx - halfW))
	r.X2 = int(math.Floor(cx + halfW))
	r.Y1 = int(math.Floor(cy - halfH))
	r.Y2 = int(math.Floor(cy + halfH))
	return r, nil
}

// applyNonuniformScale resizes each axis independently, anchored at (X1, Y1).
func applyNonuniformScale(p Params, r region.Region) (region.Region, error) {
	sx, err := p.Float("scale_x")
	if err != nil {
		return r, err
	}
	sy, err := p.Float("scale_y")
	if err != nil {
		return r, err
	}
	r.X2 = r.X1 + int(math.Floor(float64(r.Width())*sx))
	r.Y2 = r.Y1 + int(math.Floor(float64(r.Height())*sy))
	return r, nil
}

func applyPaint(p Params, r region.Region) (region.Region, error) {
	t, err := p.Tuple("color")
	if err != nil {
		return r, err
	}
	c, err := ColorFromTuple(t)
	if err != nil {
		return r, err
	}
	r.Color = c
	return r, nil
}

func applyMove(p Params, r region.Region) (region.Region, error) {
	axis, err := p.Str("axis")
	if err != nil {
		return r, err
	}
	d, err := p.Int("distance")
	if err != nil {
		return r, err
	}
	switch axis {
	case "x":
		return r.Translate(int(d), 0), nil
	case "y":
		return r.Translate(0, int(d)), nil
	}
	return r, fmt.Errorf("move: axis must be \"x\" or \"y\", got %q", axis)
}

// ColorFromTuple converts an (int, int, int) tuple to a color.
func ColorFromTuple(t Tuple) (region.RGB, error) {
	if len(t) != 3 {
		return region.RGB{}, fmt.Errorf("color tuple must have 3 components, got %d", len(t))
	}
	var parts [3]int64
	for i, v := range t {
		n, ok := v.(Int)
		if !ok {
			return region.RGB{}, fmt.Errorf("color component %d is %s, not int", i, v.TypeName())
		}
		parts[i] = int64(n)
	}
	return region.FromInts(parts[0], parts[1], parts[2])
}

// ColorTuple converts a color to an (int, int, int) tuple.
func ColorTuple(c region.RGB) Tuple {
	return IntTuple(int(c.R), int(c.G), int(c.B))
}
