package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/object-convertor-mcp/internal/cost"
	"github.com/ironsheep/object-convertor-mcp/internal/library"
	"github.com/ironsheep/object-convertor-mcp/internal/match"
	"github.com/ironsheep/object-convertor-mcp/internal/objectdb"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
	"github.com/ironsheep/object-convertor-mcp/internal/render"
	"github.com/ironsheep/object-convertor-mcp/internal/search"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "object_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolError is the data payload of a failed tool call.
type ToolError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

var (
	errInvalidArgument = errors.New("invalid argument")
	errUnknownTool     = errors.New("unknown tool")
)

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// and a ToolError as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		code := errorCode(err)
		s.log.Warn().
			Err(err).
			Str("tool", params.Name).
			Str("code", code).
			Msg("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", ToolError{Code: code, Error: err.Error()})
	}
	s.log.Debug().
		Str("tool", params.Name).
		Dur("elapsed", time.Since(start)).
		Msg("tool call")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Operators
	case "operator_list":
		return s.handleOperatorList(args)
	case "operator_apply":
		return s.handleOperatorApply(args)

	// Cost functions
	case "cost_register":
		return s.handleCostRegister(args)
	case "cost_list":
		return s.handleCostList(args)
	case "cost_remove":
		return s.handleCostRemove(args)
	case "cost_evaluate":
		return s.handleCostEvaluate(args)

	// Search and matching
	case "object_convert":
		return s.handleObjectConvert(ctx, args)
	case "objects_match":
		return s.handleObjectsMatch(ctx, args)

	// Object sets
	case "objectset_add":
		return s.handleObjectSetAdd(args)
	case "objectset_get":
		return s.handleObjectSetGet(args)
	case "objectset_list":
		return s.handleObjectSetList(args)
	case "objectset_delete":
		return s.handleObjectSetDelete(args)
	case "objectset_apply":
		return s.handleObjectSetApply(args)

	// Rendering
	case "objectset_render":
		return s.handleObjectSetRender(args)
	case "objectset_render_diff":
		return s.handleObjectSetRenderDiff(args)

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// errorCode maps an error to the stable code reported to clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, operator.ErrUnknownOperator):
		return "UNKNOWN_OPERATOR"
	case errors.Is(err, operator.ErrDuplicateOperator):
		return "DUPLICATE_OPERATOR"
	case errors.Is(err, operator.ErrParameterTypeMismatch):
		return "PARAMETER_TYPE_MISMATCH"
	case errors.Is(err, cost.ErrDuplicateCostFunction):
		return "DUPLICATE_COST_FUNCTION"
	case errors.Is(err, cost.ErrNoCostFunction):
		return "NO_COST_FUNCTION"
	case errors.Is(err, cost.ErrMissingVariable):
		return "MISSING_VARIABLE"
	case errors.Is(err, cost.ErrFormulaEvaluation):
		return "FORMULA_EVALUATION_ERROR"
	case errors.Is(err, cost.ErrInvalidFormula):
		return "INVALID_FORMULA"
	case errors.Is(err, match.ErrSizeMismatch):
		return "SIZE_MISMATCH"
	case errors.Is(err, objectdb.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, objectdb.ErrExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, errUnknownTool):
		return "UNKNOWN_TOOL"
	default:
		return "INVALID_ARGUMENT"
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return nil
}

func required(value, field string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", errInvalidArgument, field)
	}
	return nil
}

// StepArgs names an operator and its raw parameters.
type StepArgs struct {
	Operator string                 `json:"operator"`
	Params   map[string]interface{} `json:"params"`
}

// instantiate binds raw JSON parameters to a registered operator. Integral
// numbers given for float parameters are widened first.
func (s *Server) instantiate(step StepArgs) (*operator.Instantiated, error) {
	if err := required(step.Operator, "operator"); err != nil {
		return nil, err
	}
	spec, err := s.registry.Lookup(step.Operator)
	if err != nil {
		return nil, err
	}
	params, err := operator.ParamsFromJSON(step.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return s.registry.Instantiate(spec.Name, spec.Coerce(params))
}

func (s *Server) instantiateAll(steps []StepArgs) ([]*operator.Instantiated, error) {
	out := make([]*operator.Instantiated, 0, len(steps))
	for i, step := range steps {
		inst, err := s.instantiate(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, inst)
	}
	return out, nil
}

// saveFormulas writes the formula library when a file is configured.
// Failures are logged; the in-memory change stands.
func (s *Server) saveFormulas() {
	if s.formulaFile == "" {
		return
	}
	if err := library.SaveFormulas(s.formulaFile, s.evaluator.Formulas()); err != nil {
		s.log.Warn().Err(err).Str("path", s.formulaFile).Msg("failed to save formulas")
	}
}

func (s *Server) saveStore() {
	if s.databaseFile == "" {
		return
	}
	if err := s.store.Save(s.databaseFile); err != nil {
		s.log.Warn().Err(err).Str("path", s.databaseFile).Msg("failed to save object sets")
	}
}

// === Operator Handlers ===

// OperatorInfo describes one registered operator.
type OperatorInfo struct {
	Name        string                        `json:"name"`
	Parameters  map[string]operator.ParamType `json:"parameters"`
	CostFormula string                        `json:"cost_formula,omitempty"`
	Variables   []string                      `json:"variables,omitempty"`
}

func (s *Server) handleOperatorList(args json.RawMessage) (interface{}, error) {
	specs := s.registry.Specs()
	ops := make([]OperatorInfo, 0, len(specs))
	for _, spec := range specs {
		info := OperatorInfo{Name: spec.Name, Parameters: spec.Schema}
		if f, ok := s.evaluator.Lookup(spec.Name); ok {
			info.CostFormula = f.Formula
			info.Variables, _ = s.evaluator.Variables(spec.Name)
		}
		ops = append(ops, info)
	}
	return map[string]interface{}{
		"operators": ops,
		"count":     len(ops),
	}, nil
}

func (s *Server) handleOperatorApply(args json.RawMessage) (interface{}, error) {
	var p struct {
		StepArgs
		Region *region.Region `json:"region"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if p.Region == nil {
		return nil, fmt.Errorf("%w: region is required", errInvalidArgument)
	}

	inst, err := s.instantiate(p.StepArgs)
	if err != nil {
		return nil, err
	}
	out, err := s.registry.Apply(inst, *p.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errInvalidArgument, inst, err)
	}

	result := map[string]interface{}{
		"operation": inst,
		"input":     *p.Region,
		"output":    out,
	}
	if c, err := s.evaluator.Evaluate(inst.Name(), search.CostParams(inst, *p.Region, out)); err == nil {
		result["cost"] = c
	}
	return result, nil
}

// === Cost Function Handlers ===

// FormulaInfo is a registered formula with its free variables.
type FormulaInfo struct {
	cost.Formula
	Variables []string `json:"variables"`
}

func (s *Server) handleCostRegister(args json.RawMessage) (interface{}, error) {
	var f cost.Formula
	if err := decodeArgs(args, &f); err != nil {
		return nil, err
	}
	f.Type = strings.TrimSpace(f.Type)
	if f.Type != "" {
		if _, err := s.registry.Lookup(f.Type); err != nil {
			return nil, err
		}
	}
	if err := s.evaluator.Register(f); err != nil {
		return nil, err
	}
	s.saveFormulas()

	registered, _ := s.evaluator.Lookup(f.Type)
	vars, _ := s.evaluator.Variables(f.Type)
	return FormulaInfo{Formula: registered, Variables: vars}, nil
}

func (s *Server) handleCostList(args json.RawMessage) (interface{}, error) {
	formulas := s.evaluator.Formulas()
	out := make([]FormulaInfo, 0, len(formulas))
	for _, f := range formulas {
		vars, _ := s.evaluator.Variables(f.Type)
		out = append(out, FormulaInfo{Formula: f, Variables: vars})
	}
	return map[string]interface{}{
		"cost_functions": out,
		"count":          len(out),
	}, nil
}

func (s *Server) handleCostRemove(args json.RawMessage) (interface{}, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name, "name"); err != nil {
		return nil, err
	}
	if err := s.evaluator.Remove(p.Name); err != nil {
		return nil, err
	}
	s.saveFormulas()
	return map[string]interface{}{"removed": p.Name}, nil
}

// handleCostEvaluate prices either a registered operator type or an ad hoc
// formula against the given parameters.
func (s *Server) handleCostEvaluate(args json.RawMessage) (interface{}, error) {
	var p struct {
		Type    string                 `json:"type"`
		Formula string                 `json:"formula"`
		Params  map[string]interface{} `json:"params"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	params, err := operator.ParamsFromJSON(p.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgument, err)
	}

	switch {
	case p.Formula != "":
		expr, err := cost.Parse(p.Formula)
		if err != nil {
			return nil, err
		}
		if missing := missingVariables(expr.Variables(), params); len(missing) > 0 {
			return nil, &cost.MissingVariableError{Type: "formula", Names: missing}
		}
		v, err := expr.Eval(params)
		if err != nil {
			return nil, &cost.EvaluationError{Type: "formula", Err: err}
		}
		return map[string]interface{}{"formula": expr.Source(), "cost": v}, nil
	case p.Type != "":
		v, err := s.evaluator.Evaluate(p.Type, params)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"type": p.Type, "cost": v}, nil
	default:
		return nil, fmt.Errorf("%w: type or formula is required", errInvalidArgument)
	}
}

func missingVariables(names []string, params operator.Params) []string {
	var missing []string
	for _, name := range names {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// === Search Handlers ===

// ConvertResult is the object_convert tool output.
type ConvertResult struct {
	Outcome search.Outcome           `json:"outcome"`
	Message string                   `json:"message"`
	Path    []*operator.Instantiated `json:"path"`
	Cost    *float64                 `json:"cost"`
	Steps   int                      `json:"steps"`
}

func outcomeMessage(o search.Outcome) string {
	switch o {
	case search.Trivial:
		return "no transformation needed"
	case search.Found:
		return "transformation found"
	default:
		return "no transformation found"
	}
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.searchTimeout > 0 {
		return context.WithTimeout(ctx, s.searchTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) handleObjectConvert(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		Source   *region.Region `json:"source"`
		Target   *region.Region `json:"target"`
		MaxSteps int            `json:"max_steps"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if p.Source == nil || p.Target == nil {
		return nil, fmt.Errorf("%w: source and target are required", errInvalidArgument)
	}
	if p.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: max_steps must be positive", errInvalidArgument)
	}

	conv := s.convertor
	if p.MaxSteps > 0 && p.MaxSteps != conv.MaxSteps() {
		conv = s.newConvertor(p.MaxSteps)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := conv.Convert(ctx, *p.Source, *p.Target)
	if err != nil {
		return nil, err
	}

	out := ConvertResult{
		Outcome: res.Outcome,
		Message: outcomeMessage(res.Outcome),
		Path:    res.Path,
		Steps:   res.Steps,
	}
	if res.Outcome != search.NotFound {
		c := res.Cost
		out.Cost = &c
	}
	return out, nil
}

// MatchResult is the objects_match tool output.
type MatchResult struct {
	RunID         string       `json:"run_id"`
	Pairs         []match.Pair `json:"pairs"`
	TotalCost     float64      `json:"total_cost"`
	Transformable int          `json:"transformable"`
	Elapsed       string       `json:"elapsed"`
}

// resolveObjects returns the inline objects or, when name is set, the
// objects of that stored set.
func (s *Server) resolveObjects(name string, inline []region.Region, field string) ([]region.Region, error) {
	if name != "" {
		set, err := s.store.Get(name)
		if err != nil {
			return nil, err
		}
		return set.Objects, nil
	}
	if inline == nil {
		return nil, fmt.Errorf("%w: %s or %s_set is required", errInvalidArgument, field, field)
	}
	return inline, nil
}

func (s *Server) handleObjectsMatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		Objects1 []region.Region `json:"objects1"`
		Objects2 []region.Region `json:"objects2"`
		Set1     string          `json:"objects1_set"`
		Set2     string          `json:"objects2_set"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	objects1, err := s.resolveObjects(p.Set1, p.Objects1, "objects1")
	if err != nil {
		return nil, err
	}
	objects2, err := s.resolveObjects(p.Set2, p.Objects2, "objects2")
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := s.log.With().Str("component", "match").Str("run_id", runID).Logger()
	ctx = log.WithContext(ctx)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	pairs, err := s.matcher.Match(ctx, objects1, objects2)
	if err != nil {
		return nil, err
	}

	out := MatchResult{RunID: runID, Pairs: pairs, Elapsed: time.Since(start).String()}
	for _, pair := range pairs {
		if pair.Transformable() {
			out.TotalCost += *pair.Cost
			out.Transformable++
		}
	}
	return out, nil
}

// === Object Set Handlers ===

func (s *Server) handleObjectSetAdd(args json.RawMessage) (interface{}, error) {
	var p struct {
		Set     *region.ObjectSet `json:"set"`
		Replace bool              `json:"replace"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if p.Set == nil {
		return nil, fmt.Errorf("%w: set is required", errInvalidArgument)
	}

	var err error
	if p.Replace {
		err = s.store.Put(p.Set)
	} else {
		err = s.store.Add(p.Set)
	}
	if err != nil {
		return nil, err
	}
	s.saveStore()

	return objectdb.Summary{
		Name:    p.Set.Name,
		Width:   p.Set.Width,
		Height:  p.Set.Height,
		Objects: len(p.Set.Objects),
	}, nil
}

func (s *Server) getSet(args json.RawMessage) (*region.ObjectSet, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name, "name"); err != nil {
		return nil, err
	}
	return s.store.Get(p.Name)
}

func (s *Server) handleObjectSetGet(args json.RawMessage) (interface{}, error) {
	return s.getSet(args)
}

func (s *Server) handleObjectSetList(args json.RawMessage) (interface{}, error) {
	sets := s.store.List()
	return map[string]interface{}{
		"sets":  sets,
		"count": len(sets),
	}, nil
}

func (s *Server) handleObjectSetDelete(args json.RawMessage) (interface{}, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name, "name"); err != nil {
		return nil, err
	}
	if err := s.store.Delete(p.Name); err != nil {
		return nil, err
	}
	s.saveStore()
	return map[string]interface{}{"deleted": p.Name}, nil
}

// handleObjectSetApply runs a sequence of operations on a stored set. The
// result is stored under save_as when given, otherwise only returned.
func (s *Server) handleObjectSetApply(args json.RawMessage) (interface{}, error) {
	var p struct {
		Name    string     `json:"name"`
		Steps   []StepArgs `json:"steps"`
		Indices []int      `json:"indices"`
		SaveAs  string     `json:"save_as"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name, "name"); err != nil {
		return nil, err
	}

	set, err := s.store.Get(p.Name)
	if err != nil {
		return nil, err
	}
	steps, err := s.instantiateAll(p.Steps)
	if err != nil {
		return nil, err
	}
	out, err := objectdb.Apply(set, steps, p.Indices)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgument, err)
	}

	if p.SaveAs != "" {
		out.Name = p.SaveAs
		if err := s.store.Put(out); err != nil {
			return nil, err
		}
		s.saveStore()
	}
	return out, nil
}

// === Rendering Handlers ===

func defaultScale(scale float64) float64 {
	if scale <= 0 {
		return 1.0
	}
	return scale
}

func (s *Server) handleObjectSetRender(args json.RawMessage) (interface{}, error) {
	var p struct {
		Name  string  `json:"name"`
		Scale float64 `json:"scale"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name, "name"); err != nil {
		return nil, err
	}
	set, err := s.store.Get(p.Name)
	if err != nil {
		return nil, err
	}
	img, err := render.ObjectSet(set, defaultScale(p.Scale))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return img, nil
}

func (s *Server) handleObjectSetRenderDiff(args json.RawMessage) (interface{}, error) {
	var p struct {
		Name1 string  `json:"name1"`
		Name2 string  `json:"name2"`
		Scale float64 `json:"scale"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required(p.Name1, "name1"); err != nil {
		return nil, err
	}
	if err := required(p.Name2, "name2"); err != nil {
		return nil, err
	}
	a, err := s.store.Get(p.Name1)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Get(p.Name2)
	if err != nil {
		return nil, err
	}
	img, err := render.Diff(a, b, defaultScale(p.Scale))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return img, nil
}
