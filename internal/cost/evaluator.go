package cost

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
)

// Formula is a named cost expression for one operator type.
type Formula struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Formula string `json:"formula" yaml:"formula"`
}

type compiled struct {
	formula Formula
	expr    *Expr
}

// Evaluator holds cost formulas keyed by operator type.
type Evaluator struct {
	mu     sync.RWMutex
	byName map[string]*compiled
	byType map[string]*compiled
	order  []string
}

// NewEvaluator creates an empty evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		byName: make(map[string]*compiled),
		byType: make(map[string]*compiled),
	}
}

// Register parses and stores a formula. Names are unique ignoring case;
// operator types are unique as written.
func (e *Evaluator) Register(f Formula) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.TrimSpace(f.Type)
	if f.Name == "" || f.Type == "" || strings.TrimSpace(f.Formula) == "" {
		return fmt.Errorf("%w: name, type and formula are required", ErrInvalidFormula)
	}

	expr, err := Parse(f.Formula)
	if err != nil {
		return fmt.Errorf("cost function %q: %w", f.Name, err)
	}
	f.Formula = expr.Source()

	key := strings.ToLower(f.Name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.byName[key]; exists {
		return fmt.Errorf("%w: name %q", ErrDuplicateCostFunction, f.Name)
	}
	if existing, exists := e.byType[f.Type]; exists {
		return fmt.Errorf("%w: type %q already handled by %q",
			ErrDuplicateCostFunction, f.Type, existing.formula.Name)
	}

	c := &compiled{formula: f, expr: expr}
	e.byName[key] = c
	e.byType[f.Type] = c
	e.order = append(e.order, key)
	return nil
}

// Evaluate runs the formula registered for opType with params bound as
// variables.
func (e *Evaluator) Evaluate(opType string, params operator.Params) (float64, error) {
	e.mu.RLock()
	c, ok := e.byType[opType]
	e.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w for operator type %q", ErrNoCostFunction, opType)
	}

	var missing []string
	for _, name := range c.expr.vars {
		if _, bound := params[name]; !bound {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return 0, &MissingVariableError{Type: opType, Names: missing}
	}

	result, err := c.expr.Eval(params)
	if err != nil {
		return 0, &EvaluationError{Type: opType, Err: err}
	}
	return result, nil
}

// Eval runs the expression with params bound as variables. The result must
// be a finite number.
func (e *Expr) Eval(params operator.Params) (float64, error) {
	env := make(map[string]value, len(params))
	for name, v := range params {
		env[name] = fromParam(v)
	}

	result, err := e.root.eval(env)
	if err != nil {
		return 0, err
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("result is a %s, not a number", typeName(result))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("result %v is not finite", f)
	}
	return f, nil
}

// Formulas returns the registered formulas in registration order.
func (e *Evaluator) Formulas() []Formula {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Formula, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.byName[key].formula)
	}
	return out
}

// Lookup returns the formula registered for an operator type.
func (e *Evaluator) Lookup(opType string) (Formula, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.byType[opType]
	if !ok {
		return Formula{}, false
	}
	return c.formula, true
}

// Remove deletes a formula by name, ignoring case.
func (e *Evaluator) Remove(name string) error {
	key := strings.ToLower(strings.TrimSpace(name))

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.byName[key]
	if !ok {
		return fmt.Errorf("%w named %q", ErrNoCostFunction, name)
	}
	delete(e.byName, key)
	delete(e.byType, c.formula.Type)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of registered formulas.
func (e *Evaluator) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

// Variables returns the sorted names the formula for opType needs.
func (e *Evaluator) Variables(opType string) ([]string, error) {
	e.mu.RLock()
	c, ok := e.byType[opType]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for operator type %q", ErrNoCostFunction, opType)
	}
	return c.expr.Variables(), nil
}
