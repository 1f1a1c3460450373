package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"storybook/internal/logging"
	"storybook/internal/state"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener maintains the /ws/progress connection, decoding typed events into
// state store patches. It redials forever until its context ends.
type Listener struct {
	url     string
	store   *state.Store
	logger  *slog.Logger
	onEvent func(Event)
	dialer  *websocket.Dialer
}

// Option customizes a Listener.
type Option func(*Listener)

// WithEventCallback registers a callback invoked for every decoded event,
// after the state store has been patched.
func WithEventCallback(fn func(Event)) Option {
	return func(l *Listener) { l.onEvent = fn }
}

// NewListener builds a listener for the given WebSocket URL.
func NewListener(url string, store *state.Store, logger *slog.Logger, opts ...Option) *Listener {
	l := &Listener{
		url:    url,
		store:  store,
		logger: logging.NewComponentLogger(logger, "progress"),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run connects and consumes events until ctx ends. Connection failures back
// off exponentially and redial; the loop itself never returns an error other
// than ctx's.
func (l *Listener) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		if err := ctx.Err(); err != nil {
			l.store.SetConnection(state.ConnDisconnected)
			return err
		}

		l.store.SetConnection(state.ConnConnecting)
		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			l.store.SetConnection(state.ConnDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Warn("progress channel dial failed",
				logging.String("url", l.url),
				logging.Error(err),
				logging.Duration("retry_in", backoff),
			)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}

		l.logger.Info("progress channel connected", logging.String("url", l.url))
		l.store.SetConnection(state.ConnConnected)
		backoff = initialBackoff

		err = l.consume(ctx, conn)
		l.store.SetConnection(state.ConnDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			l.logger.Warn("progress channel dropped", logging.Error(err))
		}
		if !sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff)
	}
}

func (l *Listener) consume(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	// Unblock the read loop when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		evt, err := Decode(payload)
		if err != nil {
			// Malformed frames are logged and skipped, never fatal.
			l.logger.Warn("skipping malformed progress frame", logging.Error(err))
			continue
		}
		l.logger.Debug("event received",
			logging.String(logging.FieldEventType, evt.Type),
			logging.Int64(logging.FieldShotID, evt.ShotID),
			logging.Int64(logging.FieldSceneID, evt.SceneID),
		)
		Apply(l.store, evt)
		if l.onEvent != nil {
			l.onEvent(evt)
		}
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
