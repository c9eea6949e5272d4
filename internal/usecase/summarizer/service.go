// Package summarizer generates a short topic label for a cluster of messages.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// instruction constrains the model to a bare topic phrase, with no
// meta-commentary about the message source.
const instruction = `Summarize the following list of social media messages in one simple description.
Don't give a full sentence saying the social messages are about a topic,
just give the topic directly in 10 words or less,
without mentioning the messages are social media posts or reactions.
`

// Service labels clusters through a chat model.
type Service struct {
	model  domain.ChatModel
	logger *zap.Logger
}

// New creates a summarizer.
func New(model domain.ChatModel, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// Summarize derives the topic label for one cluster. Member texts are
// newline-joined in cluster order into a single prompt body. When the model
// response was cut off by its output limit, the trimmed text gets an
// ellipsis marker; otherwise the text is returned unchanged.
func (s *Service) Summarize(ctx context.Context, cluster domain.Cluster) (domain.TopicSummary, error) {
	body := strings.Join(cluster.Texts(), "\n")

	result, err := s.model.Complete(ctx, instruction, body)
	if err != nil {
		return domain.TopicSummary{}, fmt.Errorf("summarize cluster: %w", err)
	}

	label := result.Text
	if result.FinishReason == domain.FinishLengthLimited {
		label = strings.TrimSpace(label) + "..."
	}

	s.logger.Debug("Cluster summarized",
		zap.String("label", label),
		zap.Int("size", cluster.Size()),
	)

	return domain.TopicSummary{Label: label, Size: cluster.Size()}, nil
}
