package library

import (
	"fmt"

	"github.com/ironsheep/object-convertor-mcp/internal/cost"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
)

// DefaultFormulas returns the stock cost formulas for the default operators.
func DefaultFormulas() []cost.Formula {
	return []cost.Formula{
		{Name: "translate_cost", Type: operator.Translate, Formula: "abs(dx) + abs(dy)"},
		{Name: "scale_cost", Type: operator.Scale, Formula: "abs(scale - 1) * 10"},
		{Name: "nonuniform_scale_cost", Type: operator.NonuniformScale, Formula: "(sx - sqrt(sx * sy))**2 + (sy - sqrt(sx * sy))**2 + (abs(sx - 1) + abs(sy - 1)) * 10"},
		{Name: "paint_cost", Type: operator.Paint, Formula: "diff(color1, color2)**3 + (val1 - val2)**2 / 100"},
		{Name: "move_cost", Type: operator.Move, Formula: "abs(distance)"},
	}
}

// LoadFormulas reads a list of formula records.
func LoadFormulas(path string) ([]cost.Formula, error) {
	var formulas []cost.Formula
	if err := ReadFile(path, &formulas); err != nil {
		return nil, err
	}
	return formulas, nil
}

// SaveFormulas writes formula records to path.
func SaveFormulas(path string, formulas []cost.Formula) error {
	if formulas == nil {
		formulas = []cost.Formula{}
	}
	return WriteFile(path, formulas)
}

// Seed registers formulas in order and stops at the first failure.
func Seed(eval *cost.Evaluator, formulas []cost.Formula) error {
	for _, f := range formulas {
		if err := eval.Register(f); err != nil {
			return fmt.Errorf("seeding %q: %w", f.Name, err)
		}
	}
	return nil
}
