package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/config"
	dbValkey "github.com/kailas-cloud/topiclens/internal/db/valkey"
	"github.com/kailas-cloud/topiclens/internal/domain"
	logpkg "github.com/kailas-cloud/topiclens/internal/logger"
	"github.com/kailas-cloud/topiclens/internal/metrics"
	"github.com/kailas-cloud/topiclens/internal/pipeline"
	"github.com/kailas-cloud/topiclens/internal/render"
	"github.com/kailas-cloud/topiclens/internal/repository/embcache"
	"github.com/kailas-cloud/topiclens/internal/transport/jetstream"
	openaiTransport "github.com/kailas-cloud/topiclens/internal/transport/openai"
	"github.com/kailas-cloud/topiclens/internal/usecase/clusterer"
	"github.com/kailas-cloud/topiclens/internal/usecase/collector"
	"github.com/kailas-cloud/topiclens/internal/usecase/summarizer"
	"github.com/kailas-cloud/topiclens/internal/usecase/vectorizer"
	"github.com/kailas-cloud/topiclens/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting topiclens",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("target_count", cfg.Stream.TargetCount),
		zap.String("language", cfg.Stream.Language),
		zap.Float64("radius", cfg.Clustering.Radius),
		zap.Int("min_points", cfg.Clustering.MinPoints),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	metrics.Register()
	if cfg.Metrics.Port > 0 {
		srv := metrics.NewServer(cfg.Metrics.Port, logger)
		srv.Start()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	embedder, closeCache := buildEmbedder(ctx, cfg, logger)
	defer closeCache()

	chatModel := openaiTransport.NewChatModel(&openaiTransport.ChatConfig{
		APIKey:    cfg.Chat.APIKey,
		BaseURL:   cfg.Chat.BaseURL,
		Model:     cfg.Chat.Model,
		MaxTokens: cfg.Chat.MaxTokens,
		Logger:    logger,
	})

	source, err := jetstream.Dial(ctx, cfg.Stream.URL, cfg.Stream.Collection, logger)
	if err != nil {
		logger.Fatal("Failed to subscribe to firehose", zap.Error(err))
	}

	p := pipeline.New(
		collector.New(source, cfg.Clustering.MinPoints, logger),
		vectorizer.New(embedder, cfg.Embedding.BatchSize, cfg.Embedding.Workers, logger),
		clusterer.New(cfg.Clustering.Radius, cfg.Clustering.MinPoints),
		summarizer.New(chatModel, logger),
		render.NewWriter(cfg.Output.Title),
		pipeline.Config{
			TargetCount: cfg.Stream.TargetCount,
			Language:    cfg.Stream.Language,
			OutputPath:  cfg.Output.Path,
		},
		logger,
	)

	start := time.Now()
	if err := p.Run(ctx); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}
	logger.Info("Run complete", zap.Duration("elapsed", time.Since(start)))
}

// buildEmbedder creates the embedding chain: the OpenAI-compatible provider,
// optionally wrapped in the Valkey-backed per-text cache.
func buildEmbedder(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.BatchEmbedder, func()) {
	var embedder domain.BatchEmbedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if len(cfg.Cache.Addrs) == 0 {
		return embedder, func() {}
	}

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	if err := store.Ping(ctx); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}

	logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	cached := embcache.New(
		embedder, store, cfg.Cache.KeyPrefix,
		time.Duration(cfg.Cache.TTLHours)*time.Hour, logger,
	)
	return cached, store.Close
}
