package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func colorSchema() map[string]interface{} {
	return map[string]interface{}{
		"description": "Color as [r, g, b] with components 0-255, or \"#rrggbb\"",
		"oneOf": []interface{}{
			map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
				"minItems": 3,
				"maxItems": 3,
			},
			map[string]interface{}{"type": "string"},
		},
	}
}

func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1":    map[string]interface{}{"type": "integer", "description": "Left edge X coordinate"},
			"y1":    map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate"},
			"x2":    map[string]interface{}{"type": "integer", "description": "Right edge X coordinate"},
			"y2":    map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate"},
			"color": colorSchema(),
		},
		"required": []string{"x1", "y1", "x2", "y2", "color"},
	}
}

func regionListSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       regionSchema("An object"),
	}
}

func paramsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Operator parameters by name. Colors are [r, g, b] arrays. See operator_list for each operator's schema.",
	}
}

func stepSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"operator": map[string]interface{}{
				"type":        "string",
				"description": "Operator name, e.g. translate, scale, nonuniform, paint, move",
			},
			"params": paramsSchema(),
		},
		"required": []string{"operator", "params"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Operators
		{
			Name:        "operator_list",
			Description: "List the registered operators with their parameter schemas and the cost formula bound to each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "operator_apply",
			Description: "Apply one operator to an object and return the transformed object and the cost of the step.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operator": map[string]interface{}{
						"type":        "string",
						"description": "Operator name",
					},
					"params": paramsSchema(),
					"region": regionSchema("The object to transform"),
				},
				"required": []string{"operator", "params", "region"},
			},
		},

		// Cost Functions
		{
			Name:        "cost_register",
			Description: "Register a cost formula for an operator type. Formulas use + - * / % ** and comparisons, the functions sqrt, cbrt, fourthrt, abs, sum, diff, rgb_to_val, delta_e, and the shorthands √ ∛ ∜ ² ^ ∑.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Unique formula name (case-insensitive)",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Operator type the formula prices",
					},
					"formula": map[string]interface{}{
						"type":        "string",
						"description": "Formula text, e.g. abs(dx) + abs(dy)",
					},
				},
				"required": []string{"name", "type", "formula"},
			},
		},
		{
			Name:        "cost_list",
			Description: "List the registered cost formulas in registration order with the variables each one reads.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "cost_remove",
			Description: "Remove a cost formula by name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Formula name",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "cost_evaluate",
			Description: "Evaluate the formula registered for an operator type, or an ad hoc formula, against a set of variables.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Operator type whose formula to evaluate",
					},
					"formula": map[string]interface{}{
						"type":        "string",
						"description": "Formula text to evaluate instead of a registered one",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Variable bindings. Numbers, strings, and [r, g, b] arrays are accepted.",
					},
				},
				"required": []string{"params"},
			},
		},

		// Search and Matching
		{
			Name:        "object_convert",
			Description: "Find the cheapest sequence of operators that turns the source object into the target object.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": regionSchema("Starting object"),
					"target": regionSchema("Object to reach"),
					"max_steps": map[string]interface{}{
						"type":        "integer",
						"description": "Optional limit on expanded search states. Defaults to the server setting.",
					},
				},
				"required": []string{"source", "target"},
			},
		},
		{
			Name:        "objects_match",
			Description: "Pair each object of one list with an object of another list of the same size so that the total conversion cost is minimal. Each list may be given inline or by stored object set name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"objects1":     regionListSchema("Source objects"),
					"objects2":     regionListSchema("Target objects"),
					"objects1_set": map[string]interface{}{"type": "string", "description": "Name of a stored set to use as source objects"},
					"objects2_set": map[string]interface{}{"type": "string", "description": "Name of a stored set to use as target objects"},
				},
			},
		},

		// Object Sets
		{
			Name:        "objectset_add",
			Description: "Store a named object set: a canvas size and an ordered list of objects.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"set": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":    map[string]interface{}{"type": "string"},
							"width":   map[string]interface{}{"type": "integer"},
							"height":  map[string]interface{}{"type": "integer"},
							"objects": regionListSchema("Objects in paint order"),
						},
						"required": []string{"name", "width", "height", "objects"},
					},
					"replace": map[string]interface{}{
						"type":        "boolean",
						"description": "Overwrite an existing set with the same name",
						"default":     false,
					},
				},
				"required": []string{"set"},
			},
		},
		{
			Name:        "objectset_get",
			Description: "Return a stored object set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "description": "Set name"},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "objectset_list",
			Description: "List stored object sets with their sizes and object counts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "objectset_delete",
			Description: "Delete a stored object set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "description": "Set name"},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "objectset_apply",
			Description: "Apply a sequence of operators to some or all objects of a stored set. The result is returned and optionally stored under a new name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "description": "Set name"},
					"steps": map[string]interface{}{
						"type":        "array",
						"description": "Operations applied in order",
						"items":       stepSchema(),
					},
					"indices": map[string]interface{}{
						"type":        "array",
						"description": "Object indices to transform. Empty means all.",
						"items":       map[string]interface{}{"type": "integer"},
					},
					"save_as": map[string]interface{}{
						"type":        "string",
						"description": "Store the result under this name",
					},
				},
				"required": []string{"name", "steps"},
			},
		},

		// Rendering
		{
			Name:        "objectset_render",
			Description: "Render a stored object set as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "description": "Set name"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "objectset_render_diff",
			Description: "Render the per-pixel difference of two stored object sets as a base64-encoded PNG. Unchanged pixels are black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name1": map[string]interface{}{"type": "string", "description": "First set name"},
					"name2": map[string]interface{}{"type": "string", "description": "Second set name"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"name1", "name2"},
			},
		},
	}
}
