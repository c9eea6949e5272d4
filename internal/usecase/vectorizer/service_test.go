package vectorizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// --- Mocks ---

// indexEmbedder returns, for each text "N", the vector [N]. Records batches.
type indexEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	failOn  string // text that triggers an error ("" = never)
}

func (m *indexEmbedder) EmbedBatch(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if m.failOn != "" && text == m.failOn {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("embedder failure on %q", text)
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return domain.BatchEmbeddingResult{}, err
		}
		embeddings[i] = []float32{float32(n)}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func segments(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// --- Tests ---

func TestEmbed_OrderPreservedAcrossBatches(t *testing.T) {
	emb := &indexEmbedder{}
	svc := New(emb, 5, 3, zap.NewNop())

	got, err := svc.Embed(context.Background(), segments(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("got %d vectors, want 20", len(got))
	}
	for i, vec := range got {
		if len(vec) != 1 || vec[0] != float32(i) {
			t.Errorf("output[%d] = %v, want [%d]", i, vec, i)
		}
	}
	if len(emb.batches) != 4 {
		t.Errorf("got %d batches, want 4", len(emb.batches))
	}
}

func TestEmbed_TrailingRemainderSkipped(t *testing.T) {
	emb := &indexEmbedder{}
	svc := New(emb, 250, 4, zap.NewNop())

	got, err := svc.Embed(context.Background(), segments(260))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 250 {
		t.Fatalf("got %d vectors, want 250 (last 10 skipped)", len(got))
	}
	for i, vec := range got {
		if vec[0] != float32(i) {
			t.Fatalf("output[%d] = %v, want [%d]", i, vec, i)
		}
	}
}

func TestEmbed_FewerThanOneBatch(t *testing.T) {
	emb := &indexEmbedder{}
	svc := New(emb, 250, 4, zap.NewNop())

	got, err := svc.Embed(context.Background(), segments(249))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d vectors, want 0", len(got))
	}
	if len(emb.batches) != 0 {
		t.Errorf("expected no embedder calls, got %d", len(emb.batches))
	}
}

func TestEmbed_BatchErrorAbortsAll(t *testing.T) {
	emb := &indexEmbedder{failOn: "7"} // second batch of size 5
	svc := New(emb, 5, 2, zap.NewNop())

	if _, err := svc.Embed(context.Background(), segments(20)); err == nil {
		t.Fatal("expected error from failing batch")
	}
}

func TestEmbed_ShortResponseRejected(t *testing.T) {
	short := &shortEmbedder{}
	svc := New(short, 4, 2, zap.NewNop())

	_, err := svc.Embed(context.Background(), segments(8))
	if !errors.Is(err, domain.ErrBatchSizeMismatch) {
		t.Errorf("expected ErrBatchSizeMismatch, got %v", err)
	}
}

type shortEmbedder struct{}

func (*shortEmbedder) EmbedBatch(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts)-1)}, nil
}
