package notify

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// maxPushBackoff caps the reconnect delay for the push channel.
const maxPushBackoff = 30 * time.Second

// listenPush keeps a WebSocket connection to the backend and converts
// every received frame into a refresh trigger. The frame payload is never
// parsed; the feed is always refetched in full. Connection failures are
// non-fatal: polling carries the feed while this loop reconnects with
// capped backoff.
func (e *Engine) listenPush(wsURL string) {
	backoff := time.Second

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			slog.Debug("push channel dial failed", "url", wsURL, "error", err)
			if !e.sleepOrStop(backoff) {
				return
			}
			backoff = min(backoff*2, maxPushBackoff)
			continue
		}
		backoff = time.Second
		slog.Debug("push channel connected", "url", wsURL)

		// Close the connection when the engine stops so ReadMessage
		// unblocks. Closing an already-closed connection is harmless.
		done := make(chan struct{})
		go func() {
			select {
			case <-e.stopCh:
				conn.Close()
			case <-done:
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				slog.Debug("push channel closed", "error", err)
				break
			}
			e.Refresh(false)
		}

		conn.Close()
		close(done)

		if !e.sleepOrStop(backoff) {
			return
		}
	}
}

// sleepOrStop waits for d, returning false if the engine stopped first.
func (e *Engine) sleepOrStop(d time.Duration) bool {
	select {
	case <-e.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}
