package region

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRegion_Equality(t *testing.T) {
	a := New(10, 10, 20, 20, Blue)
	b := New(10, 10, 20, 20, Blue)
	c := New(10, 10, 20, 20, Red)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))

	seen := map[Key]bool{a.Key(): true}
	assert.True(t, seen[b.Key()])
	assert.False(t, seen[c.Key()])
}

func TestRegion_Geometry(t *testing.T) {
	tests := []struct {
		name       string
		r          Region
		wantWidth  int
		wantHeight int
		wantArea   int
	}{
		{"ordered", New(0, 0, 10, 5, Black), 10, 5, 50},
		{"reversed x", New(10, 0, 0, 5, Black), -10, 5, -50},
		{"degenerate", New(3, 3, 3, 9, Black), 0, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantWidth, tt.r.Width())
			assert.Equal(t, tt.wantHeight, tt.r.Height())
			assert.Equal(t, tt.wantArea, tt.r.Area())
		})
	}

	cx, cy := New(0, 0, 10, 5, Black).Center()
	assert.Equal(t, 5.0, cx)
	assert.Equal(t, 2.5, cy)
}

func TestRegion_TranslateDoesNotMutate(t *testing.T) {
	r := New(1, 2, 3, 4, Red)
	moved := r.Translate(10, -1)

	assert.Equal(t, New(11, 1, 13, 3, Red), moved)
	assert.Equal(t, New(1, 2, 3, 4, Red), r)
}

func TestRegion_WithinBounds(t *testing.T) {
	assert.True(t, New(0, 0, 100, 100, Red).WithinBounds(100))
	assert.False(t, New(0, 0, 101, 100, Red).WithinBounds(100))
	assert.False(t, New(-1, 0, 10, 10, Red).WithinBounds(100))
}

func TestRGB_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{"array", `[255, 0, 128]`, RGB{255, 0, 128}, false},
		{"hex", `"#00ff00"`, Green, false},
		{"short hex", `"#00f"`, Blue, false},
		{"out of range", `[256, 0, 0]`, RGB{}, true},
		{"wrong arity", `[1, 2]`, RGB{}, true},
		{"bad hex", `"#zzzzzz"`, RGB{}, true},
		{"object", `{"r": 1}`, RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c RGB
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}

	out, err := json.Marshal(RGB{1, 2, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(out))
}

func TestRegion_YAML(t *testing.T) {
	src := `
x1: 1
y1: 2
x2: 30
y2: 40
color: "#ff0000"
`
	var r Region
	require.NoError(t, yaml.Unmarshal([]byte(src), &r))
	assert.Equal(t, New(1, 2, 30, 40, Red), r)

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "color: [255, 0, 0]")

	var back Region
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, r, back)
}

func TestRGB_Helpers(t *testing.T) {
	assert.Equal(t, "#ff0000", Red.Hex())
	assert.InDelta(t, 29.07, Blue.Luma(), 0.01)
	assert.InDelta(t, 76.245, Red.Luma(), 0.001)
	assert.Equal(t, 0.0, Red.DeltaE(Red))
	assert.Greater(t, Red.DeltaE(Blue), 10.0)
	assert.Equal(t, "(255,0,0)", Red.String())
}

func TestObjectSet(t *testing.T) {
	set := &ObjectSet{Name: "image1", Width: 600, Height: 500}
	set.Add(New(100, 200, 200, 400, Blue))
	require.NoError(t, set.Validate())

	clone := set.Clone()
	clone.Objects[0] = New(0, 0, 1, 1, Red)
	assert.Equal(t, Blue, set.Objects[0].Color)

	assert.Error(t, (&ObjectSet{Width: 1, Height: 1}).Validate())
	assert.Error(t, (&ObjectSet{Name: "x", Width: 0, Height: 1}).Validate())
}
