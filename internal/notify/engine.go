// Package notify maintains the live notification feed: a polling loop and
// an optional WebSocket trigger feeding one refresh operation, with the
// held snapshot and its derived unread count exposed to every screen.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/model"
)

// Backend is the slice of the API client the engine depends on.
type Backend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkNotificationUnread(ctx context.Context, id string) error
}

// State is the engine's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

// Status describes the engine's current phase and last successful sync.
// A failed refresh is reported transiently through RefreshedMsg and leaves
// LastSync untouched.
type Status struct {
	State    State
	LastSync time.Time
}

// RefreshedMsg is a tea.Msg sent after every refresh attempt. On failure
// Err is set and the notification fields carry the previous snapshot.
type RefreshedMsg struct {
	Notifications []model.Notification
	UnreadCount   int
	Manual        bool
	Err           error
}

// fetchTimeout bounds a single feed fetch so a hung poll cannot stall the
// loop indefinitely.
const fetchTimeout = 8 * time.Second

type trigger struct {
	manual bool
}

// Engine owns the canonical notification snapshot for one session. It is
// created at login and discarded at logout; Stop tears down the poll loop
// and the push channel.
type Engine struct {
	backend  Backend
	interval time.Duration
	wsURL    string

	mu       sync.Mutex
	snapshot []model.Notification
	unread   int
	status   Status
	running  bool

	resultCh  chan RefreshedMsg
	triggerCh chan trigger
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// New creates an engine polling at the given interval.
func New(b Backend, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Engine{
		backend:  b,
		interval: interval,
		resultCh: make(chan RefreshedMsg, 16),
		// Capacity one: overlapping triggers collapse into at most one
		// pending refresh behind the one in progress.
		triggerCh: make(chan trigger, 1),
		stopCh:    make(chan struct{}),
	}
}

// EnablePush sets the WebSocket address used as a refresh trigger.
// Must be called before Start.
func (e *Engine) EnablePush(wsURL string) {
	e.wsURL = wsURL
}

// Start launches the poll loop (and push listener, when enabled) and
// returns a command that delivers the next RefreshedMsg. Calling Start on
// a running engine is a no-op.
func (e *Engine) Start() tea.Cmd {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	go e.loop()
	if e.wsURL != "" {
		go e.listenPush(e.wsURL)
	}

	return e.WaitForNext()
}

// Stop tears the engine down: the poll loop exits, the push connection is
// closed, and pending result waits return. Stopping twice is a no-op.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
	e.mu.Lock()
	e.running = false
	e.status.State = StateIdle
	e.mu.Unlock()
}

// Refresh requests an asynchronous refresh. When one is already pending
// the request is absorbed; the eventual refresh serves both callers.
func (e *Engine) Refresh(manual bool) {
	select {
	case e.triggerCh <- trigger{manual: manual}:
	default:
	}
}

// Snapshot returns a copy of the held notification list.
func (e *Engine) Snapshot() []model.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Notification, len(e.snapshot))
	copy(out, e.snapshot)
	return out
}

// UnreadCount returns the derived unread count for the held snapshot.
// Consumers must use this rather than counting on their own.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unread
}

// CurrentStatus returns the engine's phase and last successful sync time.
func (e *Engine) CurrentStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// MarkRead flags a notification read on the backend, then refreshes so the
// snapshot reflects backend truth. Mutation failures are logged and
// swallowed; the feed converges on the next successful refresh.
func (e *Engine) MarkRead(ctx context.Context, id string) {
	if err := e.backend.MarkNotificationRead(ctx, id); err != nil {
		slog.Warn("marking notification read", "id", id, "error", err)
	}
	e.refreshNow(ctx, false)
}

// MarkUnread flags a notification unread on the backend, then refreshes.
func (e *Engine) MarkUnread(ctx context.Context, id string) {
	if err := e.backend.MarkNotificationUnread(ctx, id); err != nil {
		slog.Warn("marking notification unread", "id", id, "error", err)
	}
	e.refreshNow(ctx, false)
}

// MarkAllRead issues one concurrent mark-read call per currently-unread
// notification, waits for every attempt to settle, then refreshes exactly
// once. Per-item failures are not reported; the post-refresh snapshot is
// whatever the backend says.
func (e *Engine) MarkAllRead(ctx context.Context) {
	e.mu.Lock()
	var ids []string
	for _, n := range e.snapshot {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := e.backend.MarkNotificationRead(ctx, id); err != nil {
				slog.Warn("marking notification read", "id", id, "error", err)
			}
		}(id)
	}
	wg.Wait()

	e.refreshNow(ctx, false)
}

// WaitForNext returns a command that delivers the next refresh result.
// Call it again after handling each RefreshedMsg to keep listening.
func (e *Engine) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-e.resultCh:
			return msg
		case <-e.stopCh:
			return nil
		}
	}
}

// loop serializes the initial fetch, timer polls, and queued triggers into
// one refresh at a time.
func (e *Engine) loop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	ctx := context.Background()
	e.refreshNow(ctx, false)

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.refreshNow(ctx, false)
		case trg := <-e.triggerCh:
			e.refreshNow(ctx, trg.manual)
		}
	}
}

// refreshNow fetches the full feed and atomically replaces the snapshot.
// On failure the previous snapshot stays in place and the error rides out
// in the result message. Concurrent calls are safe; whichever response is
// applied last wins.
func (e *Engine) refreshNow(ctx context.Context, manual bool) {
	e.mu.Lock()
	e.status.State = StateLoading
	e.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	list, err := e.backend.Notifications(fetchCtx)
	if err != nil {
		slog.Debug("notification refresh failed", "error", err)

		e.mu.Lock()
		e.status.State = StateReady
		msg := RefreshedMsg{
			Notifications: e.snapshot,
			UnreadCount:   e.unread,
			Manual:        manual,
			Err:           err,
		}
		e.mu.Unlock()

		e.send(msg)
		return
	}

	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}

	e.mu.Lock()
	e.snapshot = list
	e.unread = unread
	e.status.State = StateReady
	e.status.LastSync = time.Now()
	e.mu.Unlock()

	e.send(RefreshedMsg{
		Notifications: list,
		UnreadCount:   unread,
		Manual:        manual,
	})
}

// send delivers a result without blocking; if the UI has fallen behind,
// older results are droppable because each message carries the full state.
func (e *Engine) send(msg RefreshedMsg) {
	select {
	case e.resultCh <- msg:
	default:
	}
}
