package openai

import (
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

func TestMapFinishReason(t *testing.T) {
	cases := []struct {
		in   openai.FinishReason
		want domain.FinishReason
	}{
		{openai.FinishReasonStop, domain.FinishNormal},
		{openai.FinishReasonNull, domain.FinishNormal},
		{openai.FinishReasonLength, domain.FinishLengthLimited},
		{openai.FinishReasonContentFilter, domain.FinishOther},
	}

	for _, c := range cases {
		if got := mapFinishReason(c.in); got != c.want {
			t.Errorf("mapFinishReason(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAPIError_RequestErrorDetail(t *testing.T) {
	err := parseAPIError(&openai.RequestError{
		HTTPStatusCode: 429,
		Body:           []byte(`{"detail": "quota exceeded"}`),
	}, domain.ErrEmbeddingProviderError)

	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected wrap with ErrEmbeddingProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected detail in message, got %q", err.Error())
	}
}

func TestParseAPIError_APIError(t *testing.T) {
	err := parseAPIError(&openai.APIError{
		HTTPStatusCode: 500,
		Message:        "internal",
	}, domain.ErrChatProviderError)

	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Errorf("expected wrap with ErrChatProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status code in message, got %q", err.Error())
	}
}

func TestParseAPIError_Unknown(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: refused"), domain.ErrEmbeddingProviderError)

	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected wrap with sentinel, got %v", err)
	}
}
