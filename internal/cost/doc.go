// Package cost scores operator applications with user-defined formulas.
//
// A Formula binds an expression to one operator type. Expressions are parsed
// into a small AST over a closed grammar and run by a tree-walking interpreter;
// formula text can never reach anything beyond arithmetic, comparisons and the
// fixed builtin set, so formulas loaded from disk or received from clients are
// safe to evaluate.
//
// # Grammar
//
//	expr       := comparison
//	comparison := sum (("==" | "!=" | "<" | "<=" | ">" | ">=") sum)*
//	sum        := term (("+" | "-") term)*
//	term       := unary (("*" | "/" | "%") unary)*
//	unary      := ("+" | "-") unary | power
//	power      := primary ("**" unary)?
//	primary    := number | string | name | call | "(" expr ("," expr)* ")"
//
// Exponentiation is right-associative and binds tighter than unary minus, so
// -2**2 is -4. Comparisons evaluate to 1 or 0. A parenthesised list with a
// comma is a tuple.
//
// # Builtins
//
//	sqrt(x)          square root
//	cbrt(x)          x ** (1/3)
//	fourthrt(x)      x ** (1/4)
//	abs(x)           absolute value
//	sum(seq | a, …)  sum of a tuple or of the arguments
//	diff(a, b)       0 when a == b, otherwise 3
//	rgb_to_val(c)    luma 0.299r + 0.587g + 0.114b of a tuple or "(r, g, b)" string
//	delta_e(c1, c2)  CIEDE2000 color distance of two colors
//
// Every other identifier is a variable that must be supplied in the params
// passed to Evaluate; missing ones are reported before evaluation starts.
package cost
