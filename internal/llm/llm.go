package llm

import "context"

// TextGenerator is an interface for a client that can generate text from
// a prompt. It is the boundary between the core and the external model.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
