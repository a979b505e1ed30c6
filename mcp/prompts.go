package mcp

// PromptOption is a function that configures a Prompt.
// It provides a flexible way to set various properties of a Prompt using
// the functional options pattern.
type PromptOption func(*Prompt)

// NewPrompt creates a new Prompt with the given name and options.
// Options are applied in order, allowing for flexible prompt configuration.
func NewPrompt(name string, opts ...PromptOption) Prompt {
	prompt := Prompt{
		Name: name,
	}

	for _, opt := range opts {
		opt(&prompt)
	}

	return prompt
}

// WithPromptDescription adds a description to the Prompt.
// The description should provide a clear, human-readable explanation of
// what the prompt produces.
func WithPromptDescription(description string) PromptOption {
	return func(p *Prompt) {
		p.Description = description
	}
}
