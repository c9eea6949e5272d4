// Package vectorizer turns ordered text segments into embedding vectors in
// parallel fixed-size batches.
package vectorizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// Service splits input into full batches and embeds them concurrently.
type Service struct {
	embedder  domain.BatchEmbedder
	batchSize int
	workers   int
	logger    *zap.Logger
}

// New creates a vectorizer with a bounded worker pool.
func New(embedder domain.BatchEmbedder, batchSize, workers int, logger *zap.Logger) *Service {
	if workers <= 0 {
		workers = 4
	}
	return &Service{
		embedder:  embedder,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Embed vectorizes the first len(segments)/batchSize full batches. A trailing
// remainder shorter than one batch is skipped entirely, so the output covers
// exactly the truncated input prefix, index for index. Batches run
// concurrently; results are concatenated in batch order, not completion
// order. The first batch failure cancels the remaining batches, and Embed
// returns only after every dispatched batch has finished.
func (s *Service) Embed(ctx context.Context, segments []string) ([][]float32, error) {
	fullBatches := len(segments) / s.batchSize
	if skipped := len(segments) - fullBatches*s.batchSize; skipped > 0 {
		s.logger.Warn("Skipping trailing partial batch",
			zap.Int("skipped", skipped),
			zap.Int("batch_size", s.batchSize),
		)
	}
	if fullBatches == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()

	results := make([][][]float32, fullBatches)
	errs := make([]error, fullBatches)

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i := 0; i < fullBatches; i++ {
		wg.Add(1)
		go func(batch int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[batch] = ctx.Err()
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
			}

			lo := batch * s.batchSize
			result, err := s.embedder.EmbedBatch(ctx, segments[lo:lo+s.batchSize])
			if err != nil {
				errs[batch] = err
				cancel()
				return
			}
			if len(result.Embeddings) != s.batchSize {
				errs[batch] = fmt.Errorf(
					"batch %d: got %d vectors, want %d: %w",
					batch, len(result.Embeddings), s.batchSize, domain.ErrBatchSizeMismatch,
				)
				cancel()
				return
			}
			results[batch] = result.Embeddings
		}(i)
	}

	wg.Wait()

	// Report the first real failure by batch index; cancellation errors on
	// other batches are a consequence, not the cause.
	var firstErr error
	firstBatch := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil || errors.Is(firstErr, context.Canceled) && !errors.Is(err, context.Canceled) {
			firstErr = err
			firstBatch = i
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("embed batch %d: %w", firstBatch, firstErr)
	}

	vectors := make([][]float32, 0, fullBatches*s.batchSize)
	for _, batch := range results {
		vectors = append(vectors, batch...)
	}

	s.logger.Info("Embedded segments",
		zap.Int("segments", len(vectors)),
		zap.Int("batches", fullBatches),
		zap.Duration("elapsed", time.Since(start)),
	)

	return vectors, nil
}
