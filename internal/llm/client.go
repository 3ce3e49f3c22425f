package llm

import (
	"context"
)

// Response is a text completion. Raw holds the provider body as read, and is
// set even when Generate returns an error after reading it.
type Response struct {
	Text string
	Raw  string
}

type Client interface {
	// Configured reports whether the client has the credentials it needs.
	Configured() bool
	Generate(ctx context.Context, prompt string) (Response, error)
}
