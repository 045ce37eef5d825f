package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ajorhq/ajor/internal/model"
)

// fakeBackend serves a mutable feed and counts calls.
type fakeBackend struct {
	mu        sync.Mutex
	feed      []model.Notification
	fetchErr  error
	markErr   error
	fetches   int
	markReads map[string]int
	fetched   chan struct{}
}

func newFakeBackend(feed ...model.Notification) *fakeBackend {
	return &fakeBackend{
		feed:      feed,
		markReads: make(map[string]int),
		fetched:   make(chan struct{}, 64),
	}
}

func (f *fakeBackend) Notifications(context.Context) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	select {
	case f.fetched <- struct{}{}:
	default:
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Notification, len(f.feed))
	copy(out, f.feed)
	return out, nil
}

func (f *fakeBackend) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReads[id]++
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.feed {
		if f.feed[i].ID == id {
			f.feed[i].Read = true
		}
	}
	return nil
}

func (f *fakeBackend) MarkNotificationUnread(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.feed {
		if f.feed[i].ID == id {
			f.feed[i].Read = false
		}
	}
	return nil
}

func (f *fakeBackend) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeBackend) markReadCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markReads[id]
}

func notif(id string, read bool) model.Notification {
	return model.Notification{ID: id, Type: model.NotifGroupContribution, Read: read}
}

func TestRefreshReplacesSnapshotAndDerivesUnread(t *testing.T) {
	backend := newFakeBackend(notif("1", false), notif("2", true))
	e := New(backend, time.Hour)

	e.refreshNow(context.Background(), false)

	if got := len(e.Snapshot()); got != 2 {
		t.Fatalf("snapshot size = %d, want 2", got)
	}
	if got := e.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d, want 1", got)
	}

	// A later fetch fully replaces the snapshot, no merging.
	backend.mu.Lock()
	backend.feed = []model.Notification{notif("3", false)}
	backend.mu.Unlock()

	e.refreshNow(context.Background(), false)

	snap := e.Snapshot()
	if len(snap) != 1 || snap[0].ID != "3" {
		t.Fatalf("snapshot after replace = %+v, want single id 3", snap)
	}
	if got := e.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d, want 1", got)
	}
}

func TestUnreadCountEdgeCases(t *testing.T) {
	e := New(newFakeBackend(), time.Hour)
	e.refreshNow(context.Background(), false)
	if got := e.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount for empty feed = %d, want 0", got)
	}

	e = New(newFakeBackend(notif("1", true), notif("2", true)), time.Hour)
	e.refreshNow(context.Background(), false)
	if got := e.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount for all-read feed = %d, want 0", got)
	}
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	backend := newFakeBackend(notif("1", false))
	e := New(backend, time.Hour)
	e.refreshNow(context.Background(), false)

	backend.mu.Lock()
	backend.fetchErr = errors.New("network down")
	backend.mu.Unlock()

	e.refreshNow(context.Background(), true)

	if got := len(e.Snapshot()); got != 1 {
		t.Fatalf("snapshot after failed refresh = %d items, want 1", got)
	}
	if got := e.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount after failed refresh = %d, want 1", got)
	}
}

func TestMarkReadReconciles(t *testing.T) {
	backend := newFakeBackend(notif("1", false), notif("2", true))
	e := New(backend, time.Hour)
	e.refreshNow(context.Background(), false)

	if got := e.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d, want 1", got)
	}

	e.MarkRead(context.Background(), "1")

	for _, n := range e.Snapshot() {
		if n.ID == "1" && !n.Read {
			t.Fatal("notification 1 still unread after MarkRead + refresh")
		}
	}
	if got := e.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount after MarkRead = %d, want 0", got)
	}
}

func TestMarkReadFailureIsSwallowed(t *testing.T) {
	backend := newFakeBackend(notif("1", false))
	e := New(backend, time.Hour)
	e.refreshNow(context.Background(), false)

	backend.mu.Lock()
	backend.markErr = errors.New("backend sad")
	backend.mu.Unlock()

	// Must not panic or surface the error; snapshot reflects backend truth.
	e.MarkRead(context.Background(), "1")

	if got := e.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d, want 1 (mutation failed)", got)
	}
}

func TestMarkAllRead(t *testing.T) {
	backend := newFakeBackend(
		notif("1", false),
		notif("2", false),
		notif("3", true),
		notif("4", false),
	)
	e := New(backend, time.Hour)
	e.refreshNow(context.Background(), false)

	fetchesBefore := backend.fetchCount()
	e.MarkAllRead(context.Background())

	for _, id := range []string{"1", "2", "4"} {
		if got := backend.markReadCount(id); got != 1 {
			t.Errorf("mark-read calls for %s = %d, want 1", id, got)
		}
	}
	if got := backend.markReadCount("3"); got != 0 {
		t.Errorf("mark-read calls for already-read 3 = %d, want 0", got)
	}
	if got := backend.fetchCount() - fetchesBefore; got != 1 {
		t.Errorf("trailing refreshes = %d, want exactly 1", got)
	}
	if got := e.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount after MarkAllRead = %d, want 0", got)
	}
}

func TestMarkAllReadWithFailuresStillRefreshesOnce(t *testing.T) {
	backend := newFakeBackend(notif("1", false), notif("2", false))
	e := New(backend, time.Hour)
	e.refreshNow(context.Background(), false)

	backend.mu.Lock()
	backend.markErr = errors.New("partial outage")
	backend.mu.Unlock()

	fetchesBefore := backend.fetchCount()
	e.MarkAllRead(context.Background())

	if got := backend.fetchCount() - fetchesBefore; got != 1 {
		t.Errorf("trailing refreshes = %d, want exactly 1", got)
	}
	if got := backend.markReadCount("1") + backend.markReadCount("2"); got != 2 {
		t.Errorf("mark-read attempts = %d, want 2", got)
	}
}

func TestStopIsIdempotentAndCancelsPolling(t *testing.T) {
	backend := newFakeBackend(notif("1", false))
	e := New(backend, 10*time.Millisecond)

	if cmd := e.Start(); cmd == nil {
		t.Fatal("Start returned nil command")
	}

	// Wait for the initial fetch.
	select {
	case <-backend.fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("initial fetch never happened")
	}

	e.Stop()
	e.Stop() // second stop must be a no-op

	// Drain anything already in flight, then verify polling has ceased.
	time.Sleep(50 * time.Millisecond)
	count := backend.fetchCount()
	time.Sleep(50 * time.Millisecond)
	if got := backend.fetchCount(); got != count {
		t.Errorf("fetches continued after Stop: %d -> %d", count, got)
	}

	if got := e.CurrentStatus().State; got != StateIdle {
		t.Errorf("state after Stop = %v, want StateIdle", got)
	}
}

func TestOverlappingTriggersCollapse(t *testing.T) {
	e := New(newFakeBackend(), time.Hour)

	// No loop is draining the channel, so repeated requests must collapse
	// into a single pending trigger.
	for range 5 {
		e.Refresh(true)
	}

	if got := len(e.triggerCh); got != 1 {
		t.Fatalf("pending triggers = %d, want 1", got)
	}
}

func TestWaitForNextDeliversResult(t *testing.T) {
	backend := newFakeBackend(notif("1", false))
	e := New(backend, time.Hour)

	e.refreshNow(context.Background(), true)

	msg := e.WaitForNext()()
	res, ok := msg.(RefreshedMsg)
	if !ok {
		t.Fatalf("message type = %T, want RefreshedMsg", msg)
	}
	if !res.Manual || res.UnreadCount != 1 || len(res.Notifications) != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestWaitForNextUnblocksOnStop(t *testing.T) {
	e := New(newFakeBackend(), time.Hour)

	done := make(chan struct{})
	go func() {
		// No result is ever produced; Stop must release the wait.
		_ = e.WaitForNext()()
		close(done)
	}()

	e.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForNext still blocked after Stop")
	}
}
