// Package collector accumulates a bounded, filtered sample of live messages.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/metrics"
)

const progressInterval = 1000

// Service collects messages from a source until a target count is reached.
type Service struct {
	src    Source
	floor  int
	logger *zap.Logger
}

// New creates a collector. floor replaces non-positive target counts so the
// downstream clustering stage always has enough points for one candidate
// cluster.
func New(src Source, floor int, logger *zap.Logger) *Service {
	return &Service{src: src, floor: floor, logger: logger}
}

// Collect pulls events one at a time and keeps those whose language set
// contains language and whose text is non-blank, in arrival order. It
// returns when targetCount messages are accepted or the subscription closes
// cleanly; any transport or decode error aborts the run.
func (s *Service) Collect(ctx context.Context, targetCount int, language string) ([]domain.Message, error) {
	target := targetCount
	if target <= 0 {
		target = s.floor
	}

	messages := make([]domain.Message, 0, target)
	received := 0

	for len(messages) < target {
		msg, err := s.src.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrStreamClosed) {
				s.logger.Info("Subscription closed by remote",
					zap.Int("accepted", len(messages)),
					zap.Int("received", received),
				)
				return messages, nil
			}
			return nil, fmt.Errorf("collect message: %w", err)
		}

		received++
		metrics.EventsReceivedTotal.Inc()
		if received%progressInterval == 0 {
			s.logger.Info("Collecting messages",
				zap.Int("received", received),
				zap.Int("accepted", len(messages)),
			)
		}

		if !msg.HasLang(language) || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		messages = append(messages, msg)
		metrics.MessagesAcceptedTotal.Inc()
	}

	if err := s.src.Close(); err != nil {
		s.logger.Warn("Failed to close subscription", zap.Error(err))
	}

	return messages, nil
}
