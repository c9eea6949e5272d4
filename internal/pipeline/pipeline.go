// Package pipeline drives the analysis stages in sequence:
// collect -> vectorize -> cluster -> summarize -> serialize.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/metrics"
)

// Collector accumulates a bounded, filtered message sample.
type Collector interface {
	Collect(ctx context.Context, targetCount int, language string) ([]domain.Message, error)
}

// Vectorizer embeds ordered text segments in fixed-size batches.
type Vectorizer interface {
	Embed(ctx context.Context, segments []string) ([][]float32, error)
}

// Clusterer groups embedded messages by density.
type Clusterer interface {
	Cluster(points []domain.EmbeddedMessage) []domain.Cluster
}

// Summarizer labels one cluster.
type Summarizer interface {
	Summarize(ctx context.Context, cluster domain.Cluster) (domain.TopicSummary, error)
}

// Renderer writes the chart data file.
type Renderer interface {
	Write(summaries []domain.TopicSummary, path string) error
}

// Config holds the per-run pipeline parameters.
type Config struct {
	TargetCount int
	Language    string
	OutputPath  string
}

// Pipeline wires the stages together. Stages never overlap; only the
// vectorizer parallelizes internally.
type Pipeline struct {
	collector  Collector
	vectorizer Vectorizer
	clusterer  Clusterer
	summarizer Summarizer
	renderer   Renderer
	cfg        Config
	logger     *zap.Logger
}

// New creates a pipeline.
func New(
	collector Collector,
	vectorizer Vectorizer,
	clusterer Clusterer,
	summarizer Summarizer,
	renderer Renderer,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		collector:  collector,
		vectorizer: vectorizer,
		clusterer:  clusterer,
		summarizer: summarizer,
		renderer:   renderer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one full analysis. Any stage error aborts the run; nothing is
// persisted on failure.
func (p *Pipeline) Run(ctx context.Context) error {
	messages, err := p.stageCollect(ctx)
	if err != nil {
		return err
	}

	embedded, err := p.stageVectorize(ctx, messages)
	if err != nil {
		return err
	}

	clusters := p.stageCluster(embedded)

	summaries, err := p.stageSummarize(ctx, clusters)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := p.renderer.Write(summaries, p.cfg.OutputPath); err != nil {
		return fmt.Errorf("serialize output: %w", err)
	}
	observeStage("serialize", start)

	p.logger.Info("Wrote chart data",
		zap.String("path", p.cfg.OutputPath),
		zap.Int("topics", len(summaries)),
	)
	return nil
}

func (p *Pipeline) stageCollect(ctx context.Context) ([]domain.Message, error) {
	start := time.Now()

	messages, err := p.collector.Collect(ctx, p.cfg.TargetCount, p.cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	observeStage("collect", start)
	p.logger.Info("Collected messages",
		zap.Int("count", len(messages)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return messages, nil
}

func (p *Pipeline) stageVectorize(ctx context.Context, messages []domain.Message) ([]domain.EmbeddedMessage, error) {
	start := time.Now()

	segments := make([]string, len(messages))
	for i, m := range messages {
		segments[i] = m.Text
	}

	vectors, err := p.vectorizer.Embed(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	// Vectors cover the truncated input prefix; pair them index for index.
	embedded := make([]domain.EmbeddedMessage, len(vectors))
	for i, vec := range vectors {
		embedded[i] = domain.EmbeddedMessage{Message: messages[i], Vector: vec}
	}

	observeStage("vectorize", start)
	p.logger.Info("Vectorized messages",
		zap.Int("count", len(embedded)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return embedded, nil
}

func (p *Pipeline) stageCluster(embedded []domain.EmbeddedMessage) []domain.Cluster {
	start := time.Now()

	clusters := p.clusterer.Cluster(embedded)

	noise := len(embedded)
	for _, c := range clusters {
		noise -= c.Size()
	}
	metrics.ClustersFound.Set(float64(len(clusters)))
	metrics.NoisePoints.Set(float64(noise))

	observeStage("cluster", start)
	p.logger.Info("Clustered messages",
		zap.Int("clusters", len(clusters)),
		zap.Int("noise", noise),
		zap.Duration("elapsed", time.Since(start)),
	)
	return clusters
}

func (p *Pipeline) stageSummarize(ctx context.Context, clusters []domain.Cluster) ([]domain.TopicSummary, error) {
	start := time.Now()

	summaries := make([]domain.TopicSummary, 0, len(clusters))
	for i, cluster := range clusters {
		summary, err := p.summarizer.Summarize(ctx, cluster)
		if err != nil {
			return nil, fmt.Errorf("summarize cluster %d: %w", i, err)
		}
		summaries = append(summaries, summary)

		p.logger.Info("Cluster summary",
			zap.Int("cluster", i),
			zap.Int("size", summary.Size),
			zap.String("label", summary.Label),
		)
		if p.logger.Core().Enabled(zap.DebugLevel) {
			for _, m := range cluster.Members {
				p.logger.Debug("Member",
					zap.Int("cluster", i),
					zap.String("cid", m.Message.CID),
					zap.String("text", m.Message.Text),
				)
			}
		}
	}

	observeStage("summarize", start)
	return summaries, nil
}

func observeStage(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
