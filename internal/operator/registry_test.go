package operator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

func TestRegistry_Insert(t *testing.T) {
	r := NewRegistry()
	for _, spec := range DefaultSpecs() {
		require.NoError(t, r.Insert(spec))
	}
	assert.Equal(t, 5, r.Len())

	err := r.Insert(DefaultSpecs()[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateOperator))

	assert.Error(t, r.Insert(&Spec{Name: "broken"}))
}

func TestRegistry_SpecsKeepInsertionOrder(t *testing.T) {
	r := NewDefaultRegistry()
	var names []string
	for _, s := range r.Specs() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{Translate, Scale, NonuniformScale, Paint, Move}, names)
}

func TestRegistry_Instantiate(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name      string
		operator  string
		params    Params
		wantErr   error
		wantField string
	}{
		{"valid translate", Translate, Params{"dx": Int(1), "dy": Int(-2)}, nil, ""},
		{"string for int", Translate, Params{"dx": String("abc"), "dy": Int(1)}, ErrParameterTypeMismatch, "dx"},
		{"float for int", Translate, Params{"dx": Float(1.5), "dy": Int(1)}, ErrParameterTypeMismatch, "dx"},
		{"int widens to float", Scale, Params{"scale": Int(2)}, nil, ""},
		{"valid color", Paint, Params{"color": IntTuple(1, 2, 3)}, nil, ""},
		{"short tuple", Paint, Params{"color": IntTuple(1, 2)}, ErrParameterTypeMismatch, "color"},
		{"tuple element type", Paint, Params{"color": Tuple{Int(1), String("g"), Int(3)}}, ErrParameterTypeMismatch, "color"},
		{"scalar for tuple", Paint, Params{"color": Int(7)}, ErrParameterTypeMismatch, "color"},
		{"undeclared param", Move, Params{"axis": String("x"), "speed": Int(3)}, ErrParameterTypeMismatch, "speed"},
		{"unknown operator", "rotate", Params{"angle": Int(90)}, ErrUnknownOperator, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := r.Instantiate(tt.operator, tt.params)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.operator, inst.Name())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantField != "" {
				var pte *ParamTypeError
				require.True(t, errors.As(err, &pte))
				assert.Equal(t, tt.wantField, pte.Field)
				assert.Contains(t, err.Error(), tt.wantField)
			}
		})
	}
}

func TestRegistry_InstantiateCopiesParams(t *testing.T) {
	r := NewDefaultRegistry()
	params := Params{"dx": Int(1), "dy": Int(1)}
	inst, err := r.Instantiate(Translate, params)
	require.NoError(t, err)

	params["dx"] = Int(100)
	assert.Equal(t, Int(1), inst.Params["dx"])
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewDefaultRegistry()
	spec, err := r.Lookup(Paint)
	require.NoError(t, err)
	assert.Equal(t, []string{"color"}, spec.ParamNames())
	assert.Equal(t, "tuple[int,int,int]", spec.Schema["color"].String())

	_, err = r.Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownOperator))
}

func TestDefaultOperators_Apply(t *testing.T) {
	r := NewDefaultRegistry()
	src := region.New(10, 10, 20, 20, region.Blue)

	tests := []struct {
		name     string
		operator string
		params   Params
		want     region.Region
	}{
		{"translate", Translate, Params{"dx": Int(5), "dy": Int(-3)}, region.New(15, 7, 25, 17, region.Blue)},
		{"scale up", Scale, Params{"scale": Float(2)}, region.New(5, 5, 25, 25, region.Blue)},
		{"scale down", Scale, Params{"scale": Float(0.5)}, region.New(12, 12, 17, 17, region.Blue)},
		{"scale floors", Scale, Params{"scale": Float(1.5)}, region.New(7, 7, 22, 22, region.Blue)},
		{"nonuniform", NonuniformScale, Params{"scale_x": Float(1), "scale_y": Float(2)}, region.New(10, 10, 20, 30, region.Blue)},
		{"nonuniform shrink", NonuniformScale, Params{"scale_x": Float(0.5), "scale_y": Float(1.5)}, region.New(10, 10, 15, 25, region.Blue)},
		{"paint", Paint, Params{"color": IntTuple(255, 0, 0)}, region.New(10, 10, 20, 20, region.Red)},
		{"move x", Move, Params{"axis": String("x"), "distance": Int(-10)}, region.New(0, 10, 10, 20, region.Blue)},
		{"move y", Move, Params{"axis": String("y"), "distance": Int(10)}, region.New(10, 20, 20, 30, region.Blue)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := r.Instantiate(tt.operator, tt.params)
			require.NoError(t, err)

			got, err := r.Apply(inst, src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := r.Apply(inst, src)
			require.NoError(t, err)
			assert.Equal(t, got, again, "apply must be deterministic")

			assert.Equal(t, region.New(10, 10, 20, 20, region.Blue), src, "input must not change")
		})
	}
}

func TestDefaultOperators_ApplyErrors(t *testing.T) {
	r := NewDefaultRegistry()
	src := region.New(0, 0, 1, 1, region.Black)

	tests := []struct {
		name     string
		operator string
		params   Params
	}{
		{"bad axis", Move, Params{"axis": String("z"), "distance": Int(1)}},
		{"color out of range", Paint, Params{"color": IntTuple(300, 0, 0)}},
		{"missing param", Translate, Params{"dx": Int(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := r.Instantiate(tt.operator, tt.params)
			require.NoError(t, err)
			_, err = inst.Apply(src)
			assert.Error(t, err)
		})
	}
}

func TestInstantiated_Format(t *testing.T) {
	r := NewDefaultRegistry()
	inst, err := r.Instantiate(Paint, Params{"color": IntTuple(255, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, "paint(color=(255,0,0))", inst.String())

	out, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operator":"paint","params":{"color":[255,0,0]}}`, string(out))

	move, err := r.Instantiate(Move, Params{"axis": String("x"), "distance": Int(10)})
	require.NoError(t, err)
	assert.Equal(t, `move(axis="x", distance=10)`, move.String())
}

func TestValueFromJSON(t *testing.T) {
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"dx": 3, "scale": 1.5, "axis": "x", "color": [1, 2, 3]}`), &decoded))

	p, err := ParamsFromJSON(decoded)
	require.NoError(t, err)
	assert.Equal(t, Int(3), p["dx"])
	assert.Equal(t, Float(1.5), p["scale"])
	assert.Equal(t, String("x"), p["axis"])
	assert.Equal(t, IntTuple(1, 2, 3), p["color"])

	_, err = ValueFromJSON(true)
	assert.Error(t, err)
	_, err = ValueFromJSON(nil)
	assert.Error(t, err)
}

func TestCandidates(t *testing.T) {
	r := NewDefaultRegistry()
	counts := map[string]int{}
	for _, spec := range r.Specs() {
		for _, p := range DefaultCandidates.Candidates(spec) {
			_, err := r.Instantiate(spec.Name, p)
			require.NoError(t, err, "%s %s", spec.Name, p)
			counts[spec.Name]++
		}
	}
	assert.Equal(t, map[string]int{
		Translate:       49,
		Scale:           4,
		NonuniformScale: 12,
		Paint:           3,
		Move:            6,
	}, counts)

	static := StaticCandidates{}
	static.Add(Paint, Params{"color": IntTuple(255, 0, 0)})
	static.Add(Paint, Params{"color": IntTuple(9, 9, 9)})

	paint, err := r.Lookup(Paint)
	require.NoError(t, err)
	merged := MultiCandidates{DefaultCandidates, static, nil}.Candidates(paint)
	assert.Len(t, merged, 4, "duplicate red preset is dropped")
}

func TestSpec_Coerce(t *testing.T) {
	r := NewDefaultRegistry()

	scale, err := r.Lookup(NonuniformScale)
	require.NoError(t, err)
	got := scale.Coerce(Params{"scale_x": Int(2), "scale_y": Float(0.5)})
	assert.Equal(t, Params{"scale_x": Float(2), "scale_y": Float(0.5)}, got)

	paint, err := r.Lookup(Paint)
	require.NoError(t, err)
	got = paint.Coerce(Params{"color": IntTuple(1, 2, 3)})
	assert.Equal(t, IntTuple(1, 2, 3), got["color"])

	translate, err := r.Lookup(Translate)
	require.NoError(t, err)
	got = translate.Coerce(Params{"dx": Float(1.5)})
	assert.Equal(t, Float(1.5), got["dx"])
}
