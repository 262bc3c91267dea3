package region

import "fmt"

// Region is a colored rectangle.
//
// Region is a value type; copying it yields an independent object, so search
// states can share regions freely without aliasing.
type Region struct {
	X1    int `json:"x1" yaml:"x1"`
	Y1    int `json:"y1" yaml:"y1"`
	X2    int `json:"x2" yaml:"x2"`
	Y2    int `json:"y2" yaml:"y2"`
	Color RGB `json:"color" yaml:"color"`
}

// Key is the canonical hash of a region: its four coordinates and color.
type Key struct {
	X1, Y1, X2, Y2 int
	Color          RGB
}

// New is a convenience constructor.
func New(x1, y1, x2, y2 int, c RGB) Region {
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c}
}

// Key returns the canonical key.
func (r Region) Key() Key {
	return Key{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2, Color: r.Color}
}

// Equal reports canonical equality.
func (r Region) Equal(other Region) bool {
	return r.Key() == other.Key()
}

// Width is X2 - X1 and may be negative.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height is Y2 - Y1 and may be negative.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Area is Width * Height. It is negative when exactly one extent is negative.
func (r Region) Area() int { return r.Width() * r.Height() }

// Center returns the midpoint of the rectangle.
func (r Region) Center() (float64, float64) {
	return float64(r.X1+r.X2) / 2, float64(r.Y1+r.Y2) / 2
}

// Translate returns a copy shifted by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	r.X1 += dx
	r.X2 += dx
	r.Y1 += dy
	r.Y2 += dy
	return r
}

// WithinBounds reports whether every coordinate lies in [0, max].
func (r Region) WithinBounds(max int) bool {
	for _, v := range [4]int{r.X1, r.Y1, r.X2, r.Y2} {
		if v < 0 || v > max {
			return false
		}
	}
	return true
}

func (r Region) String() string {
	return fmt.Sprintf("[(%d,%d)-(%d,%d) %s]", r.X1, r.Y1, r.X2, r.Y2, r.Color)
}
