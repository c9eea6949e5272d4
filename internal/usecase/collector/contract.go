package collector

import (
	"context"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// Source is a live message subscription. Next blocks for exactly one event;
// calling it is the unit of demand, so the source never buffers ahead.
type Source interface {
	Next(ctx context.Context) (domain.Message, error)
	Close() error
}
