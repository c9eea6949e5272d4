// Package jetstream subscribes to a Bluesky Jetstream firehose endpoint and
// decodes inbound events into domain messages.
package jetstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// event mirrors the Jetstream commit envelope. Non-commit events (identity,
// account) decode to an empty commit and are rejected by the language filter.
type event struct {
	DID    string `json:"did"`
	Commit struct {
		CID    string `json:"cid"`
		Record struct {
			Text      string    `json:"text"`
			Langs     []string  `json:"langs"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"record"`
	} `json:"commit"`
}

// Source is a live firehose subscription. Each Next call requests exactly one
// event from the connection; there is no read-ahead buffering.
type Source struct {
	conn   *websocket.Conn
	logger *zap.Logger
}

// Dial opens a subscription filtered to a single content collection.
func Dial(ctx context.Context, endpoint, collection string, logger *zap.Logger) (*Source, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("wantedCollections", collection)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	logger.Info("Subscribed to firehose",
		zap.String("endpoint", u.Host),
		zap.String("collection", collection),
	)

	return &Source{conn: conn, logger: logger}, nil
}

// Next reads and decodes one event. Returns domain.ErrStreamClosed when the
// remote side closes the subscription cleanly.
func (s *Source) Next(ctx context.Context) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return domain.Message{}, domain.ErrStreamClosed
		}
		return domain.Message{}, fmt.Errorf("read event: %w", err)
	}

	msg, err := decodeEvent(data)
	if err != nil {
		return domain.Message{}, fmt.Errorf("decode event: %w", err)
	}
	return msg, nil
}

// Close terminates the subscription.
func (s *Source) Close() error {
	return s.conn.Close()
}

func decodeEvent(data []byte) (domain.Message, error) {
	var ev event
	if err := json.Unmarshal(data, &ev); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		Text:      ev.Commit.Record.Text,
		Langs:     ev.Commit.Record.Langs,
		CreatedAt: ev.Commit.Record.CreatedAt,
		CID:       ev.Commit.CID,
		DID:       ev.DID,
	}, nil
}
