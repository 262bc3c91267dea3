package region

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Common colors used by the default paint palette and tests.
var (
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{}
)

// ParseHex parses a "#rrggbb" or "#rgb" string.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// FromInts builds a color from integer components, rejecting values outside 0-255.
func FromInts(r, g, b int64) (RGB, error) {
	for _, v := range []int64{r, g, b} {
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("color component %d outside 0-255", v)
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// Tuple returns the components as integers.
func (c RGB) Tuple() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

// Luma approximates perceived brightness (ITU-R BT.601 weights).
func (c RGB) Luma() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// DeltaE returns the CIEDE2000 distance between two colors, scaled so that
// the just-noticeable difference is roughly 1.
func (c RGB) DeltaE(other RGB) float64 {
	return c.colorful().DistanceCIEDE2000(other.colorful()) * 100
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// MarshalJSON writes the color as [r, g, b].
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Tuple())
}

// UnmarshalJSON accepts [r, g, b] or "#rrggbb".
func (c *RGB) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		parsed, err := ParseHex(hex)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var parts []int64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("color must be [r,g,b] or \"#rrggbb\": %w", err)
	}
	return c.setParts(parts)
}

// MarshalYAML writes the color as a flow sequence.
func (c RGB) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range c.Tuple() {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprint(v),
		})
	}
	return node, nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseHex(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var parts []int64
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("color must be [r,g,b] or \"#rrggbb\": %w", err)
	}
	return c.setParts(parts)
}

func (c *RGB) setParts(parts []int64) error {
	if len(parts) != 3 {
		return fmt.Errorf("color must have 3 components, got %d", len(parts))
	}
	parsed, err := FromInts(parts[0], parts[1], parts[2])
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
