package mcp

// ToolOption is a function that configures a Tool
type ToolOption func(*Tool)

// PropertyOption is a function that configures a property in a Tool's
// input schema
type PropertyOption func(map[string]interface{})

//
// Core Tool Functions
//

// NewTool creates a new Tool with the given name and options
func NewTool(name string, opts ...ToolOption) Tool {
	tool := Tool{
		Name: name,
		InputSchema: ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]interface{}),
			Required:   nil, // Will be omitted from JSON if empty
		},
	}

	for _, opt := range opts {
		opt(&tool)
	}

	return tool
}

// WithDescription adds a description to the Tool
func WithDescription(description string) ToolOption {
	return func(t *Tool) {
		t.Description = description
	}
}

//
// Common Property Options
//

// Description adds a description to a property
func Description(desc string) PropertyOption {
	return func(schema map[string]interface{}) {
		schema["description"] = desc
	}
}

// Required marks a property as required
func Required() PropertyOption {
	return func(schema map[string]interface{}) {
		schema["required"] = true
	}
}

// Enum specifies a list of allowed values for a string property
func Enum(values ...string) PropertyOption {
	return func(schema map[string]interface{}) {
		schema["enum"] = values
	}
}

// Max sets the maximum value for a number property
func Max(max float64) PropertyOption {
	return func(schema map[string]interface{}) {
		schema["maximum"] = max
	}
}

// Min sets the minimum value for a number property
func Min(min float64) PropertyOption {
	return func(schema map[string]interface{}) {
		schema["minimum"] = min
	}
}

//
// Property Type Helpers
//

// WithString adds a string property to the tool schema
func WithString(name string, opts ...PropertyOption) ToolOption {
	return func(t *Tool) {
		schema := map[string]interface{}{
			"type": "string",
		}

		for _, opt := range opts {
			opt(schema)
		}

		addProperty(t, name, schema)
	}
}

// WithNumber adds a number property to the tool schema
func WithNumber(name string, opts ...PropertyOption) ToolOption {
	return func(t *Tool) {
		schema := map[string]interface{}{
			"type": "number",
		}

		for _, opt := range opts {
			opt(schema)
		}

		addProperty(t, name, schema)
	}
}

// WithBoolean adds a boolean property to the tool schema
func WithBoolean(name string, opts ...PropertyOption) ToolOption {
	return func(t *Tool) {
		schema := map[string]interface{}{
			"type": "boolean",
		}

		for _, opt := range opts {
			opt(schema)
		}

		addProperty(t, name, schema)
	}
}

// addProperty hoists the property-level "required" marker into the
// schema's top-level required list before storing the property.
func addProperty(t *Tool, name string, schema map[string]interface{}) {
	if required, ok := schema["required"].(bool); ok && required {
		delete(schema, "required")
		t.InputSchema.Required = append(t.InputSchema.Required, name)
	}

	t.InputSchema.Properties[name] = schema
}
