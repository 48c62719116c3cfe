package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/seu-repo/voxwallet/internal/ports"
)

const (
	initialRedialDelay = time.Second
	maxRedialDelay     = 30 * time.Second
)

// EventStream consumes the wallet engine's transaction status feed over
// websocket. The engine pushes one JSON object per status change; the
// stream re-dials with exponential backoff whenever the connection drops.
type EventStream struct {
	url     string
	apiKey  string
	handler ports.TxEventHandler
	log     *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewEventStream(url, apiKey string, handler ports.TxEventHandler, log *zap.Logger) *EventStream {
	return &EventStream{
		url:     url,
		apiKey:  apiKey,
		handler: handler,
		log:     log,
	}
}

// Start launches the consume loop. It returns immediately; the stream
// keeps re-dialing until Close is called.
func (s *EventStream) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *EventStream) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *EventStream) run(ctx context.Context) {
	defer close(s.done)

	delay := initialRedialDelay
	for {
		connected, err := s.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			// The dial succeeded, so the next failure starts a fresh backoff.
			delay = initialRedialDelay
		}
		if err != nil {
			s.log.Warn("Engine event stream disconnected",
				zap.Error(err),
				zap.Duration("retry_in", delay),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			delay *= 2
			if delay > maxRedialDelay {
				delay = maxRedialDelay
			}
		}
	}
}

// consume dials the feed and dispatches events until the connection
// fails. It reports whether the dial itself succeeded.
func (s *EventStream) consume(ctx context.Context) (bool, error) {
	headers := http.Header{}
	if s.apiKey != "" {
		headers.Set("Authorization", "Bearer "+s.apiKey)
	}

	conn, _, err := websocket.Dial(ctx, s.url, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return false, fmt.Errorf("dial engine event stream: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "shutting down")

	s.log.Info("Connected to engine event stream", zap.String("url", s.url))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return true, fmt.Errorf("read engine event: %w", err)
		}

		var event ports.TxEvent
		if err := json.Unmarshal(data, &event); err != nil {
			s.log.Warn("Discarding malformed engine event", zap.Error(err))
			continue
		}
		if event.Hash == "" {
			continue
		}

		s.handler(ctx, event)
	}
}
