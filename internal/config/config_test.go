package config

import "testing"

func validConfig() Config {
	cfg := Config{
		Embedding: EmbeddingConfig{Model: "text-embedding-005"},
		Chat:      ChatConfig{Model: "gemini-1.5-flash-002"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Stream.TargetCount != 10000 {
		t.Errorf("target_count default: got %d, want 10000", cfg.Stream.TargetCount)
	}
	if cfg.Stream.Language != "en" {
		t.Errorf("language default: got %q, want en", cfg.Stream.Language)
	}
	if cfg.Embedding.BatchSize != 250 {
		t.Errorf("batch_size default: got %d, want 250", cfg.Embedding.BatchSize)
	}
	if cfg.Embedding.Dimensions != 128 {
		t.Errorf("dimensions default: got %d, want 128", cfg.Embedding.Dimensions)
	}
	if cfg.Clustering.Radius != 0.2 {
		t.Errorf("radius default: got %f, want 0.2", cfg.Clustering.Radius)
	}
	if cfg.Clustering.MinPoints != 10 {
		t.Errorf("min_points default: got %d, want 10", cfg.Clustering.MinPoints)
	}
	if cfg.Chat.MaxTokens != 25 {
		t.Errorf("max_tokens default: got %d, want 25", cfg.Chat.MaxTokens)
	}
	if cfg.Output.Path != "static/newdata.js" {
		t.Errorf("output path default: got %q", cfg.Output.Path)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadStreamURL(t *testing.T) {
	cfg := validConfig()
	cfg.Stream.URL = "https://example.com/subscribe"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-websocket stream URL")
	}
}

func TestValidate_MissingModels(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}

	cfg = validConfig()
	cfg.Chat.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing chat model")
	}
}

func TestValidate_BadMetricsPort(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range metrics port")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TOPICLENS_TEST_KEY", "secret")

	in := []byte("api_key: ${TOPICLENS_TEST_KEY}\nurl: ${TOPICLENS_TEST_MISSING:-wss://fallback}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nurl: wss://fallback"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
