// Package widget implements the quota label state machine: key entry,
// loading, and the display and error views of the remaining balance.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/weavex/quotabar/internal/quota"
)

// KeyName is the store entry holding the API key.
const KeyName = "apikey"

// Notice messages.
const (
	MsgKeyProbablyWrong = "failed to fetch quota, the API key is probably wrong; double-activate the label to enter a new key"
	MsgNetworkError     = "failed to fetch quota: network error, refresh to try again"
	MsgEmptyKey         = "API key cannot be empty"
)

// ErrNotEditing is returned by SaveKey outside the EditingKey phase.
var ErrNotEditing = errors.New("widget is not in key editing mode")

// KeyStore persists the API key.
type KeyStore interface {
	Get(name string) (string, bool, error)
	Set(name, value string) error
}

// Fetcher retrieves both billing payloads for one refresh.
type Fetcher interface {
	Fetch(ctx context.Context, apiKey string) (quota.Usage, quota.Subscription, error)
}

// Ticket identifies one issued refresh. Only the most recently issued
// ticket's result is applied.
type Ticket struct {
	Seq uint64
	Key string
	ctx context.Context
}

// Context is cancelled when the refresh is superseded.
func (t Ticket) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// State is a point-in-time copy of the widget.
type State struct {
	Phase  Phase
	View   quota.View
	HasKey bool
	Err    error
}

// Option configures a Widget.
type Option func(*Widget)

// WithNotifier sets the receiver of user-visible notices.
func WithNotifier(n Notifier) Option {
	return func(w *Widget) {
		if n != nil {
			w.notifier = n
		}
	}
}

// WithLocation sets the zone used for the expiration date.
func WithLocation(loc *time.Location) Option {
	return func(w *Widget) {
		if loc != nil {
			w.loc = loc
		}
	}
}

// WithLogger sets the logger for transition tracing.
func WithLogger(l *log.Logger) Option {
	return func(w *Widget) {
		if l != nil {
			w.logger = l
		}
	}
}

// Widget is safe for concurrent use; refreshes typically complete on a
// different goroutine than the one that issued them.
type Widget struct {
	store    KeyStore
	fetcher  Fetcher
	notifier Notifier
	loc      *time.Location
	logger   *log.Logger

	mu     sync.Mutex
	phase  Phase
	view   quota.View
	key    string
	err    error
	seq    uint64
	cancel context.CancelFunc
}

// New creates a Widget in the EditingKey phase. Call Mount to load the
// stored key.
func New(store KeyStore, fetcher Fetcher, opts ...Option) *Widget {
	w := &Widget{
		store:    store,
		fetcher:  fetcher,
		notifier: discardNotifier{},
		loc:      quota.DefaultLocation(),
		logger:   log.New(io.Discard),
		phase:    EditingKey,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a snapshot.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{Phase: w.phase, View: w.view, HasKey: w.key != "", Err: w.err}
}

// Phase returns the current phase.
func (w *Widget) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Mount reads the stored key. With a key present the widget moves to Loading
// and the returned ticket must be run; otherwise it stays in EditingKey.
func (w *Widget) Mount() (Ticket, bool) {
	key, ok, err := w.store.Get(KeyName)
	if err != nil {
		w.logger.Warn("reading stored API key", "err", err)
		ok = false
	}
	key = strings.TrimSpace(key)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !ok || key == "" {
		w.phase = EditingKey
		w.logger.Debug("no stored API key, editing")
		return Ticket{}, false
	}
	w.key = key
	return w.beginLocked(), true
}

// SaveKey persists a new key and starts a refresh with it. An empty key is
// rejected with an error wrapping quota.ErrValidation and the widget stays
// in EditingKey. A persistence failure is returned without a transition.
func (w *Widget) SaveKey(raw string) (Ticket, error) {
	key := strings.TrimSpace(raw)

	w.mu.Lock()
	if w.phase != EditingKey {
		w.mu.Unlock()
		return Ticket{}, ErrNotEditing
	}
	w.mu.Unlock()

	if key == "" {
		w.notifier.Notify(Notice{Level: LevelError, Message: MsgEmptyKey})
		return Ticket{}, fmt.Errorf("saving API key: %w", quota.ErrValidation)
	}
	if err := w.store.Set(KeyName, key); err != nil {
		return Ticket{}, fmt.Errorf("saving API key: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = key
	w.logger.Debug("API key saved")
	return w.beginLocked(), nil
}

// Activate handles a double-activation on the label: from Display or Error
// it re-enters EditingKey, keeping the current view until the next save.
func (w *Widget) Activate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != Display && w.phase != Error {
		return false
	}
	w.phase = EditingKey
	w.logger.Debug("editing API key")
	return true
}

// Refresh starts a manual refresh. Issued while Loading it supersedes the
// in-flight refresh. It is ignored in EditingKey or without a key.
func (w *Widget) Refresh() (Ticket, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == EditingKey || w.key == "" {
		return Ticket{}, false
	}
	return w.beginLocked(), true
}

// SyncKey re-reads the store after the key was changed elsewhere. A new key
// triggers a refresh; a removed key returns the widget to EditingKey.
func (w *Widget) SyncKey() (Ticket, bool) {
	key, ok, err := w.store.Get(KeyName)
	if err != nil {
		w.logger.Warn("re-reading stored API key", "err", err)
		return Ticket{}, false
	}
	key = strings.TrimSpace(key)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case !ok || key == "":
		if w.key == "" {
			return Ticket{}, false
		}
		w.key = ""
		w.stopLocked()
		w.phase = EditingKey
		w.logger.Debug("stored API key removed")
		return Ticket{}, false
	case key == w.key:
		return Ticket{}, false
	default:
		w.key = key
		w.logger.Debug("stored API key changed")
		return w.beginLocked(), true
	}
}

// Complete applies the result of the refresh identified by t. Results of
// superseded tickets are dropped and Complete reports false.
func (w *Widget) Complete(t Ticket, usage quota.Usage, sub quota.Subscription, fetchErr error) bool {
	w.mu.Lock()
	if t.Seq == 0 || t.Seq != w.seq || w.phase != Loading {
		w.mu.Unlock()
		w.logger.Debug("dropping stale refresh", "seq", t.Seq)
		return false
	}
	w.stopLocked()

	var notice *Notice
	if fetchErr != nil {
		w.view = quota.NetworkFailure()
		w.phase = Error
		w.err = fetchErr
		notice = &Notice{Level: LevelWarn, Message: MsgNetworkError}
		w.logger.Warn("quota refresh failed", "err", fetchErr)
	} else {
		view, err := quota.Compute(usage, sub, w.loc)
		w.view = view
		w.err = err
		if err != nil {
			w.phase = Error
			notice = &Notice{Level: LevelError, Message: MsgKeyProbablyWrong}
			w.logger.Warn("quota computation failed", "err", err)
		} else {
			w.phase = Display
			w.logger.Debug("quota refreshed", "credits", view.Credits, "expiration", view.Expiration)
		}
	}
	w.mu.Unlock()

	if notice != nil {
		w.notifier.Notify(*notice)
	}
	return true
}

// Run performs the refresh for t and applies its result. ctx bounds the
// fetch in addition to the ticket's own cancellation.
func (w *Widget) Run(ctx context.Context, t Ticket) bool {
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.Context(), cancel)
	defer stop()

	usage, sub, err := w.fetcher.Fetch(fctx, t.Key)
	return w.Complete(t, usage, sub, err)
}

func (w *Widget) beginLocked() Ticket {
	w.stopLocked()
	w.seq++
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.phase = Loading
	w.logger.Debug("refreshing quota", "seq", w.seq)
	return Ticket{Seq: w.seq, Key: w.key, ctx: ctx}
}

func (w *Widget) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}
