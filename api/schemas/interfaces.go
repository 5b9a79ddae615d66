// File: api/schemas/interfaces.go
package schemas

import "context"

// ScriptSurface is the hosted page's script-evaluation capability. Scripts
// are injected as self-contained expressions; results come back as strings
// (an empty string stands in for a null result). The surface is a single
// shared resource owned by the caller and may be absent: every consumer must
// treat a nil ScriptSurface as a silent no-op, not an error.
type ScriptSurface interface {
	EvaluateScript(ctx context.Context, src string) (string, error)
}

// Navigator loads a URL into the hosted page.
type Navigator interface {
	LoadURL(ctx context.Context, url string) error
}

// Speaker narrates text aloud. Speak returns a channel that is closed once
// narration of the given text has completed (or has been stopped). Stop
// halts any in-progress narration immediately.
type Speaker interface {
	Speak(ctx context.Context, text string) <-chan struct{}
	Stop()
}

// AgentClient performs one request/response cycle against the remote
// reasoning service. Implementations do not retry; a failed exchange is
// retried only by explicit user re-submission.
type AgentClient interface {
	Exchange(ctx context.Context, req *AgentRequest) (*AgentResponse, error)
}
