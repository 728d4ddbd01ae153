package widget

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/weavex/quotabar/internal/quota"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
	getErr error
	sets   int
}

func newMemStore(values map[string]string) *memStore {
	if values == nil {
		values = map[string]string{}
	}
	return &memStore{values: values}
}

func (s *memStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[name]
	return v, ok, nil
}

func (s *memStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.values[name] = value
	return nil
}

type result struct {
	usage quota.Usage
	sub   quota.Subscription
	err   error
}

// stubFetcher returns canned results keyed by API key.
type stubFetcher struct {
	mu      sync.Mutex
	results map[string]result
	keys    []string
}

func (f *stubFetcher) Fetch(ctx context.Context, apiKey string) (quota.Usage, quota.Subscription, error) {
	f.mu.Lock()
	f.keys = append(f.keys, apiKey)
	r := f.results[apiKey]
	f.mu.Unlock()
	return r.usage, r.sub, r.err
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func okResult(cents, limit float64) result {
	return result{
		usage: quota.Usage{TotalUsageCents: quota.Num(cents)},
		sub:   quota.Subscription{HardLimitUSD: quota.Num(limit)},
	}
}

func TestMount_NoKeyStaysEditing(t *testing.T) {
	w := New(newMemStore(nil), &stubFetcher{})
	if _, ok := w.Mount(); ok {
		t.Fatal("Mount() issued a refresh without a stored key")
	}
	if w.Phase() != EditingKey {
		t.Errorf("phase = %v, want editing_key", w.Phase())
	}
}

func TestMount_StoredKeyRefreshesToDisplay(t *testing.T) {
	f := &stubFetcher{results: map[string]result{"sk-1": okResult(500, 10)}}
	w := New(newMemStore(map[string]string{KeyName: "sk-1"}), f)

	ticket, ok := w.Mount()
	if !ok {
		t.Fatal("Mount() did not issue a refresh")
	}
	if w.Phase() != Loading {
		t.Fatalf("phase = %v, want loading", w.Phase())
	}
	if !w.Run(context.Background(), ticket) {
		t.Fatal("Run() result was dropped")
	}

	st := w.State()
	if st.Phase != Display {
		t.Fatalf("phase = %v, want display", st.Phase)
	}
	if st.View.Label() != "remaining: 5.00 (never)" {
		t.Errorf("label = %q", st.View.Label())
	}
}

func TestMount_StoreErrorFallsBackToEditing(t *testing.T) {
	s := newMemStore(nil)
	s.getErr = errors.New("locked")
	w := New(s, &stubFetcher{})
	if _, ok := w.Mount(); ok {
		t.Fatal("Mount() should not refresh when the store fails")
	}
	if w.Phase() != EditingKey {
		t.Errorf("phase = %v, want editing_key", w.Phase())
	}
}

func TestSaveKey_EmptyNeverPersists(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		store := newMemStore(nil)
		rec := &noticeRecorder{}
		w := New(store, &stubFetcher{}, WithNotifier(rec))

		_, err := w.SaveKey(raw)
		if !errors.Is(err, quota.ErrValidation) {
			t.Fatalf("SaveKey(%q) err = %v, want ErrValidation", raw, err)
		}
		if store.sets != 0 {
			t.Errorf("SaveKey(%q) persisted the key", raw)
		}
		if w.Phase() != EditingKey {
			t.Errorf("SaveKey(%q) phase = %v, want editing_key", raw, w.Phase())
		}
		if len(rec.notices) != 1 || rec.notices[0].Level != LevelError {
			t.Errorf("SaveKey(%q) notices = %+v, want one error", raw, rec.notices)
		}
	}
}

func TestSaveKey_PersistsTrimmedKeyAndRefreshes(t *testing.T) {
	store := newMemStore(nil)
	f := &stubFetcher{results: map[string]result{"sk-new": okResult(0, 0)}}
	w := New(store, f)

	ticket, err := w.SaveKey("  sk-new \n")
	if err != nil {
		t.Fatalf("SaveKey() error = %v", err)
	}
	if store.values[KeyName] != "sk-new" {
		t.Errorf("stored key = %q, want sk-new", store.values[KeyName])
	}
	if ticket.Key != "sk-new" || w.Phase() != Loading {
		t.Fatalf("ticket = %+v, phase = %v", ticket, w.Phase())
	}

	w.Run(context.Background(), ticket)
	st := w.State()
	if st.Phase != Display || st.View.Credits != "0.00" {
		t.Errorf("state = %+v, want display with 0.00", st)
	}
}

func TestSaveKey_PersistenceFailureKeepsPhase(t *testing.T) {
	store := newMemStore(nil)
	store.setErr = errors.New("disk full")
	w := New(store, &stubFetcher{})

	if _, err := w.SaveKey("sk"); err == nil {
		t.Fatal("SaveKey() should return the store error")
	}
	if w.Phase() != EditingKey {
		t.Errorf("phase = %v, want editing_key", w.Phase())
	}
}

func TestSaveKey_OutsideEditing(t *testing.T) {
	f := &stubFetcher{results: map[string]result{"k": okResult(1, 1)}}
	w := New(newMemStore(map[string]string{KeyName: "k"}), f)
	ticket, _ := w.Mount()
	w.Run(context.Background(), ticket)

	if _, err := w.SaveKey("other"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("SaveKey() err = %v, want ErrNotEditing", err)
	}
}

func TestComplete_NetworkFailure(t *testing.T) {
	rec := &noticeRecorder{}
	f := &stubFetcher{results: map[string]result{"k": {err: quota.ErrNetwork}}}
	w := New(newMemStore(map[string]string{KeyName: "k"}), f, WithNotifier(rec))

	ticket, _ := w.Mount()
	w.Run(context.Background(), ticket)

	st := w.State()
	if st.Phase != Error {
		t.Fatalf("phase = %v, want error", st.Phase)
	}
	if st.View.Credits != quota.SentinelNetworkError || st.View.Expiration != quota.SentinelNetworkError {
		t.Errorf("view = %+v, want network-error sentinels", st.View)
	}
	if !errors.Is(st.Err, quota.ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", st.Err)
	}
	if len(rec.notices) != 1 || rec.notices[0].Message != MsgNetworkError {
		t.Errorf("notices = %+v", rec.notices)
	}
}

func TestComplete_ComputationFailureNotifiesKeyHint(t *testing.T) {
	rec := &noticeRecorder{}
	bad := result{sub: quota.Subscription{HardLimitUSD: quota.Amount{Value: math.NaN(), Present: true}}}
	f := &stubFetcher{results: map[string]result{"k": bad}}
	w := New(newMemStore(map[string]string{KeyName: "k"}), f, WithNotifier(rec))

	ticket, _ := w.Mount()
	w.Run(context.Background(), ticket)

	st := w.State()
	if st.Phase != Error || st.View.Credits != quota.SentinelUnavailable {
		t.Fatalf("state = %+v, want error with unavailable credits", st)
	}
	if !errors.Is(st.Err, quota.ErrComputation) {
		t.Errorf("err = %v, want ErrComputation", st.Err)
	}
	if len(rec.notices) != 1 || rec.notices[0].Message != MsgKeyProbablyWrong {
		t.Errorf("notices = %+v, want key hint", rec.notices)
	}
}

func TestActivate(t *testing.T) {
	tests := []struct {
		name   string
		result result
	}{
		{"from display", okResult(100, 5)},
		{"from error", result{err: quota.ErrNetwork}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{results: map[string]result{"k": tt.result}}
			w := New(newMemStore(map[string]string{KeyName: "k"}), f)
			ticket, _ := w.Mount()
			w.Run(context.Background(), ticket)
			before := w.State().View

			if !w.Activate() {
				t.Fatal("Activate() = false")
			}
			st := w.State()
			if st.Phase != EditingKey {
				t.Errorf("phase = %v, want editing_key", st.Phase)
			}
			if st.View != before {
				t.Errorf("view = %+v, want retained %+v", st.View, before)
			}
		})
	}
}

func TestActivate_IgnoredWhileLoadingOrEditing(t *testing.T) {
	w := New(newMemStore(map[string]string{KeyName: "k"}), &stubFetcher{})
	if w.Activate() {
		t.Error("Activate() in editing_key should be ignored")
	}
	w.Mount()
	if w.Activate() {
		t.Error("Activate() while loading should be ignored")
	}
	if w.Phase() != Loading {
		t.Errorf("phase = %v, want loading", w.Phase())
	}
}

func TestRefresh(t *testing.T) {
	f := &stubFetcher{results: map[string]result{"k": okResult(100, 5)}}
	w := New(newMemStore(map[string]string{KeyName: "k"}), f)

	if _, ok := w.Refresh(); ok {
		t.Fatal("Refresh() before mount should be ignored")
	}

	ticket, _ := w.Mount()
	w.Run(context.Background(), ticket)

	next, ok := w.Refresh()
	if !ok || w.Phase() != Loading {
		t.Fatalf("Refresh() ok=%v phase=%v", ok, w.Phase())
	}
	if next.Seq <= ticket.Seq {
		t.Errorf("seq %d not greater than %d", next.Seq, ticket.Seq)
	}
	w.Run(context.Background(), next)
	if w.Phase() != Display {
		t.Errorf("phase = %v, want display", w.Phase())
	}
}

func TestRefresh_LatestIssuedWins(t *testing.T) {
	w := New(newMemStore(map[string]string{KeyName: "k"}), &stubFetcher{})
	first, _ := w.Mount()
	second, ok := w.Refresh()
	if !ok {
		t.Fatal("Refresh() while loading should supersede")
	}

	select {
	case <-first.Context().Done():
	default:
		t.Error("superseded ticket context was not cancelled")
	}

	// The newer request completes first, then the stale one arrives.
	if !w.Complete(second, quota.Usage{TotalUsageCents: quota.Num(100)}, quota.Subscription{HardLimitUSD: quota.Num(3)}, nil) {
		t.Fatal("Complete(second) dropped")
	}
	if w.Complete(first, quota.Usage{}, quota.Subscription{}, quota.ErrNetwork) {
		t.Fatal("Complete(first) applied a stale result")
	}

	st := w.State()
	if st.Phase != Display || st.View.Credits != "2.00" {
		t.Errorf("state = %+v, want display with 2.00", st)
	}
}

func TestRefresh_StaleResultDroppedWhileNewerInFlight(t *testing.T) {
	w := New(newMemStore(map[string]string{KeyName: "k"}), &stubFetcher{})
	first, _ := w.Mount()
	w.Refresh()

	if w.Complete(first, quota.Usage{}, quota.Subscription{HardLimitUSD: quota.Num(1)}, nil) {
		t.Fatal("stale result applied")
	}
	if w.Phase() != Loading {
		t.Errorf("phase = %v, want loading until the latest refresh completes", w.Phase())
	}
}

func TestRun_SupersededFetchIsCancelled(t *testing.T) {
	started := make(chan struct{})
	blocking := fetcherFunc(func(ctx context.Context, _ string) (quota.Usage, quota.Subscription, error) {
		close(started)
		<-ctx.Done()
		return quota.Usage{}, quota.Subscription{}, ctx.Err()
	})
	w := New(newMemStore(map[string]string{KeyName: "k"}), blocking)
	ticket, _ := w.Mount()

	done := make(chan bool)
	go func() { done <- w.Run(context.Background(), ticket) }()
	<-started
	w.Refresh()

	select {
	case applied := <-done:
		if applied {
			t.Error("superseded Run() applied its result")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
}

func TestSyncKey(t *testing.T) {
	store := newMemStore(map[string]string{KeyName: "old"})
	f := &stubFetcher{results: map[string]result{"old": okResult(0, 1), "new": okResult(0, 2)}}
	w := New(store, f)
	ticket, _ := w.Mount()
	w.Run(context.Background(), ticket)

	if _, ok := w.SyncKey(); ok {
		t.Error("SyncKey() with unchanged key should not refresh")
	}

	store.values[KeyName] = "new"
	next, ok := w.SyncKey()
	if !ok || next.Key != "new" {
		t.Fatalf("SyncKey() = %+v, %v", next, ok)
	}
	w.Run(context.Background(), next)
	if got := w.State().View.Credits; got != "2.00" {
		t.Errorf("credits = %q, want 2.00", got)
	}

	delete(store.values, KeyName)
	w.SyncKey()
	st := w.State()
	if st.Phase != EditingKey || st.HasKey {
		t.Errorf("state = %+v, want editing_key without key", st)
	}
}

type fetcherFunc func(ctx context.Context, apiKey string) (quota.Usage, quota.Subscription, error)

func (f fetcherFunc) Fetch(ctx context.Context, apiKey string) (quota.Usage, quota.Subscription, error) {
	return f(ctx, apiKey)
}
