// Package server implements the MCP (Model Context Protocol) server for the
// object convertor.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods are initialize, tools/list, tools/call and ping.
//
// # Available Tools
//
// Operators:
//   - operator_list: Registered operators and their parameter schemas
//   - operator_apply: Apply one operator to an object
//
// Cost Functions:
//   - cost_register, cost_list, cost_remove: Manage cost formulas
//   - cost_evaluate: Evaluate a formula against bound variables
//
// Search and Matching:
//   - object_convert: Cheapest operator sequence between two objects
//   - objects_match: Minimum-cost pairing of two object lists
//
// Object Sets:
//   - objectset_add, objectset_get, objectset_list, objectset_delete
//   - objectset_apply: Run operators over a stored set
//   - objectset_render, objectset_render_diff: PNG previews
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000. The data field is a ToolError whose code is stable across releases,
// for example NO_COST_FUNCTION or PARAMETER_TYPE_MISMATCH.
//
// # Usage
//
//	srv := server.New(server.Options{Registry: reg, Evaluator: eval})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
