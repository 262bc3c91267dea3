// Package region defines the value types the convertor operates on.
//
// A Region is an axis-aligned rectangle with a fill color. Regions are plain
// comparable values: two regions are equal when all four coordinates and the
// color are equal, and that 5-tuple is also the canonical key used for state
// de-duplication during search.
//
// # Coordinate System
//
// Coordinates follow the image convention used throughout the project:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward, Y increases downward
//
// Ordering of the corners is not enforced. (X1, Y1) is normally the top-left
// corner, but transformations such as scaling by a negative factor may
// produce X2 < X1; consumers must not assume Width or Height are positive.
//
// # Color Representation
//
// Colors are 8-bit RGB triples. In JSON and YAML a color is written either as
// a three element array [r, g, b] or as a hex string "#rrggbb".
//
// # Object Sets
//
// An ObjectSet is the image-level container: a named canvas size plus an
// ordered list of regions. The matcher pairs the objects of two sets.
package region
