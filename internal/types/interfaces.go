package types

import "context"

// LLMClient defines the minimal interface components use to call a
// decision model. Callers must treat any transport or parse failure as
// a signal to fall back to their deterministic path.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
