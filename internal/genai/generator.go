// Package genai abstracts the external reply-generation collaborators.
// Backends only need to turn a prompt into plain text; vendor wire
// protocols never leak into the chat core.
package genai

import "context"

// Message is a single conversational message.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request carries everything a backend needs for one completion.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Generator produces a reply for a request, or an error. Timeouts,
// malformed payloads and vendor errors are all plain errors; the caller
// decides how to degrade.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}
