package search

import (
	"math"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// colorPenalty is the heuristic charge for a color mismatch.
const colorPenalty = 3.0

// Heuristic estimates the remaining cost from current to goal: relative size
// difference per axis, a flat penalty when colors differ, and the top-left
// corner distance scaled down by 100.
func Heuristic(current, goal region.Region) float64 {
	cw, ch := current.Width(), current.Height()
	gw, gh := goal.Width(), goal.Height()

	size := math.Abs(float64(cw-gw))/float64(max(cw, 1)) +
		math.Abs(float64(ch-gh))/float64(max(ch, 1))

	color := 0.0
	if current.Color != goal.Color {
		color = colorPenalty
	}

	position := (math.Abs(float64(current.X1-goal.X1)) + math.Abs(float64(current.Y1-goal.Y1))) / 100
	return size + color + position
}

// CostParams builds the variables a cost formula sees for one transition from
// before to after. Defaults come first, then the transition context, then the
// operator's own parameters; scale_x and scale_y are also exposed as sx and sy.
func CostParams(inst *operator.Instantiated, before, after region.Region) operator.Params {
	p := operator.Params{
		"dx":     operator.Int(0),
		"dy":     operator.Int(0),
		"scale":  operator.Float(1.0),
		"sx":     operator.Float(1.0),
		"sy":     operator.Float(1.0),
		"angle":  operator.Int(0),
		"a":      operator.Int(0),
		"b":      operator.Int(0),
		"color1": operator.ColorTuple(before.Color),
		"color2": operator.ColorTuple(after.Color),
		"val1":   operator.Float(before.Color.Luma()),
		"val2":   operator.Float(after.Color.Luma()),
		"area":   operator.Int(before.Area()),
		"area2":  operator.Int(after.Area()),
	}
	for name, v := range inst.Params {
		p[name] = v
	}
	if v, ok := inst.Params["scale_x"]; ok {
		p["sx"] = v
	}
	if v, ok := inst.Params["scale_y"]; ok {
		p["sy"] = v
	}
	return p
}
