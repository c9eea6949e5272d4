package domain

import "errors"

var (
	// ErrStreamClosed signals that the firehose subscription ended cleanly.
	ErrStreamClosed = errors.New("stream closed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrBatchSizeMismatch signals a provider response whose length differs from the request.
	ErrBatchSizeMismatch = errors.New("batch size mismatch")
)
