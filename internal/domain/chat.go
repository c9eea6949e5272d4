package domain

import "context"

// FinishReason signals how the chat model terminated its response.
type FinishReason int

const (
	// FinishNormal means the model completed its response.
	FinishNormal FinishReason = iota
	// FinishLengthLimited means the response was cut off by the output token limit.
	FinishLengthLimited
	// FinishOther covers provider-specific reasons (content filter, tool calls, ...).
	FinishOther
)

// ChatResult is one chat completion response.
type ChatResult struct {
	Text         string
	FinishReason FinishReason
}

// ChatModel is the text generation contract used for topic summarization.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (ChatResult, error)
}
