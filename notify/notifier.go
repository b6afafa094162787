package notify

import "context"

// Message is one notification payload, fanned out to every token in a
// single batched send.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result reports the per-token outcome of a batched send. InvalidTokens
// holds the tokens the transport rejected as permanently unregistered;
// callers are expected to delete them.
type Result struct {
	Success       int
	Failure       int
	InvalidTokens []string
}

// Notifier is the push transport boundary. Implementations must treat a
// partial failure as a normal result, not an error: the error return is
// reserved for the whole batch failing to submit.
type Notifier interface {
	Send(ctx context.Context, tokens []string, msg Message) (*Result, error)
}
