package cost

import (
	"regexp"
	"strings"
)

var symbolReplacer = strings.NewReplacer(
	"√", "sqrt",
	"∛", "cbrt",
	"∜", "fourthrt",
	"²", "**2",
	"^", "**",
	"∑", "sum",
)

// bareCall matches a root builtin written without parentheses, e.g. sqrtx.
var bareCall = regexp.MustCompile(`(sqrt|cbrt|fourthrt)(\w+)`)

// Normalize rewrites the symbolic notation accepted in formula text into the
// plain grammar: √x becomes sqrt(x), a² becomes a**2 and ^ becomes **.
func Normalize(formula string) string {
	out := symbolReplacer.Replace(strings.TrimSpace(formula))
	return bareCall.ReplaceAllString(out, "$1($2)")
}
