package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/metrics"
)

// ChatModel is a text generation provider using the OpenAI-compatible API.
type ChatModel struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// NewChatModel creates an OpenAI-compatible chat provider.
func NewChatModel(cfg *ChatConfig) *ChatModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ChatModel{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

// Complete implements domain.ChatModel with one system and one user message.
func (c *ChatModel) Complete(ctx context.Context, system, user string) (domain.ChatResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.ChatResult{}, parseAPIError(err, domain.ErrChatProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.SummaryRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.ChatResult{}, fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	metrics.SummaryRequestsTotal.WithLabelValues(c.model, "success").Inc()

	choice := resp.Choices[0]
	return domain.ChatResult{
		Text:         choice.Message.Content,
		FinishReason: mapFinishReason(choice.FinishReason),
	}, nil
}

// mapFinishReason converts the provider enum into the domain enum.
func mapFinishReason(r openai.FinishReason) domain.FinishReason {
	switch r {
	case openai.FinishReasonStop, openai.FinishReasonNull:
		return domain.FinishNormal
	case openai.FinishReasonLength:
		return domain.FinishLengthLimited
	default:
		return domain.FinishOther
	}
}
