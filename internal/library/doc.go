// Package library persists cost formulas and operator parameter presets.
//
// Files ending in .json are read and written as JSON; every other extension
// is treated as YAML.
package library
