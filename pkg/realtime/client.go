package realtime

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	initialBackoff = time.Second
	maxBackoff     = time.Minute
)

// Client keeps a push-channel connection alive. The browser dispatcher
// silently stops receiving on disconnect; this implementation instead
// reconnects with exponential backoff and jitter until the context is
// cancelled.
type Client struct {
	url        string
	header     http.Header
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewClient(url string, header http.Header, dispatcher *Dispatcher, logger *zap.Logger) *Client {
	return &Client{url: url, header: header, dispatcher: dispatcher, logger: logger}
}

// Run dials, reads frames into the dispatcher and reconnects on any
// failure. It returns only when ctx is done.
func (c *Client) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		start := time.Now()
		if err := c.readLoop(ctx); err != nil {
			c.logger.Warn("realtime connection lost", zap.Error(err))
		}
		if time.Since(start) > maxBackoff {
			// The connection was healthy for a while; start the
			// schedule over.
			backoff = initialBackoff
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(jitter(backoff)):
		}
		backoff = nextBackoff(backoff)
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.logger.Info("realtime connected", zap.String("url", c.url))

	// Tear the connection down when the context ends so ReadMessage
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatcher.Dispatch(message)
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func jitter(d time.Duration) time.Duration {
	// Up to 25% random spread keeps reconnect storms apart.
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}
