package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/object-convertor-mcp/internal/cost"
	"github.com/ironsheep/object-convertor-mcp/internal/match"
	"github.com/ironsheep/object-convertor-mcp/internal/objectdb"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/search"
)

// Name and Version are reported in the initialize handshake.
var (
	Name    = "object-convertor-mcp"
	Version = "0.1.0"
)

// Options wires the server's collaborators. Zero fields get defaults.
type Options struct {
	Registry   *operator.Registry
	Evaluator  *cost.Evaluator
	Store      *objectdb.Store
	Candidates operator.CandidateSource

	MaxSteps      int
	MaxCoord      int
	MatchWorkers  int
	SearchTimeout time.Duration

	// FormulaFile and DatabaseFile, when set, are rewritten after every
	// change to formulas or object sets.
	FormulaFile  string
	DatabaseFile string

	Logger *zerolog.Logger
}

// Server handles MCP protocol communication
type Server struct {
	registry  *operator.Registry
	evaluator *cost.Evaluator
	store     *objectdb.Store
	convertor *search.Convertor
	matcher   *match.Matcher

	candidates    operator.CandidateSource
	maxCoord      int
	searchTimeout time.Duration
	formulaFile   string
	databaseFile  string

	log zerolog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	s := &Server{
		registry:      opts.Registry,
		evaluator:     opts.Evaluator,
		store:         opts.Store,
		candidates:    opts.Candidates,
		maxCoord:      opts.MaxCoord,
		searchTimeout: opts.SearchTimeout,
		formulaFile:   opts.FormulaFile,
		databaseFile:  opts.DatabaseFile,
		log:           zerolog.Nop(),
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	if s.registry == nil {
		s.registry = operator.NewDefaultRegistry()
	}
	if s.evaluator == nil {
		s.evaluator = cost.NewEvaluator()
	}
	if s.store == nil {
		s.store = objectdb.NewStore()
	}
	if s.candidates == nil {
		s.candidates = operator.DefaultCandidates
	}
	if s.maxCoord <= 0 {
		s.maxCoord = search.DefaultMaxCoord
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = search.DefaultMaxSteps
	}

	s.convertor = s.newConvertor(maxSteps)
	s.matcher = match.New(s.convertor,
		match.WithWorkers(opts.MatchWorkers),
		match.WithLogger(s.log.With().Str("component", "match").Logger()))
	return s
}

func (s *Server) newConvertor(maxSteps int) *search.Convertor {
	return search.New(s.registry, s.evaluator,
		search.WithMaxSteps(maxSteps),
		search.WithMaxCoord(s.maxCoord),
		search.WithCandidates(s.candidates),
		search.WithLogger(s.log.With().Str("component", "search").Logger()))
}

// Run serves MCP on stdin and stdout until stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Object sets can make requests large.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			resp := s.errorResponse(nil, -32700, "Parse error", err.Error())
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}
