package cost

import (
	"fmt"
	"sort"
	"strconv"
)

// node is an expression tree node.
type node interface {
	eval(env map[string]value) (value, error)
}

type (
	numberLit struct{ v float64 }
	stringLit struct{ v string }
	varRef    struct{ name string }
	tupleLit  struct{ elems []node }
	unaryOp   struct {
		op      string
		operand node
	}
	binaryOp struct {
		op          string
		left, right node
	}
	// compareChain is a < b <= c: true when every adjacent pair holds.
	compareChain struct {
		operands []node
		ops      []string
	}
	callExpr struct {
		name string
		fn   builtin
		args []node
	}
)

// Expr is a parsed formula.
type Expr struct {
	src  string
	root node
	vars []string
}

// Parse normalizes and parses formula text.
func Parse(src string) (*Expr, error) {
	normalized := Normalize(src)
	toks, err := tokenize(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormula, err)
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormula, err)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidFormula, t.text, t.pos)
	}

	return &Expr{src: normalized, root: root, vars: freeVariables(toks)}, nil
}

// Source returns the normalized formula text.
func (e *Expr) Source() string { return e.src }

// Variables returns the identifiers the formula expects from its caller,
// sorted and without builtin names.
func (e *Expr) Variables() []string {
	return append([]string(nil), e.vars...)
}

// freeVariables scans identifier tokens and drops builtin names.
func freeVariables(toks []token) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, t := range toks {
		if t.kind != tokIdent || seen[t.text] {
			continue
		}
		seen[t.text] = true
		if _, isBuiltin := builtins[t.text]; isBuiltin {
			continue
		}
		vars = append(vars, t.text)
	}
	sort.Strings(vars)
	return vars
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(kind tokenKind, what string) error {
	t := p.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return fmt.Errorf("expected %s at end of formula", what)
		}
		return fmt.Errorf("expected %s at offset %d, got %q", what, t.pos, t.text)
	}
	return nil
}

func (p *parser) parseExpr() (node, error) {
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	chain := &compareChain{operands: []node{left}}
	for {
		op, ok := p.acceptOp("==", "!=", "<", "<=", ">", ">=")
		if !ok {
			break
		}
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		chain.ops = append(chain.ops, op)
		chain.operands = append(chain.operands, right)
	}

	switch len(chain.ops) {
	case 0:
		return left, nil
	case 1:
		return &binaryOp{op: chain.ops[0], left: left, right: chain.operands[1]}, nil
	}
	return chain, nil
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryOp{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryOp{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOp("+", "-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryOp{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOp("**"); ok {
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryOp{op: "**", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", t.text)
		}
		return &numberLit{v: v}, nil
	case tokString:
		return &stringLit{v: t.text}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		return &varRef{name: t.text}, nil
	case tokLParen:
		return p.parseGroup()
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := builtins[name.text]
	if !ok {
		return nil, fmt.Errorf("unknown function %q at offset %d", name.text, name.pos)
	}
	p.next() // (

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return &callExpr{name: name.text, fn: fn, args: args}, nil
}

// parseGroup handles both (expr) and tuple literals (a, b, ...).
func (p *parser) parseGroup() (node, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokComma {
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return first, nil
	}

	elems := []node{first}
	for p.peek().kind == tokComma {
		p.next()
		if p.peek().kind == tokRParen {
			break
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return &tupleLit{elems: elems}, nil
}
