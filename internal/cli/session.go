package cli

import (
	"context"
	"fmt"

	"github.com/weavex/quotabar/internal/actionbar"
	"github.com/weavex/quotabar/internal/billing"
	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/logging"
	"github.com/weavex/quotabar/internal/spinner"
	"github.com/weavex/quotabar/internal/widget"
)

// session wires one widget to the billing client, key store and notice
// buffer selected by the config.
type session struct {
	widget  *widget.Widget
	client  *billing.Client
	notices *widget.NoticeBuffer
	actions []actionbar.Action
	noColor bool

	// progress receives endpoint completions while a spinner is shown.
	progress func(spinner.CompletionInfo)
}

func newSession(ctx context.Context, cfg config.Config, store widget.KeyStore) (*session, error) {
	logger := logging.FromContext(ctx)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("billing.timezone: %w", err)
	}
	actions, err := actionbar.Builtin().Resolve(cfg.ActionBar.Actions)
	if err != nil {
		return nil, fmt.Errorf("actionbar.actions: %w", err)
	}

	s := &session{
		notices: &widget.NoticeBuffer{},
		actions: actions,
		noColor: colorDisabled(cfg),
	}
	s.client = billing.New(
		billing.WithBaseURL(cfg.Billing.BaseURL),
		billing.WithTimeout(cfg.Fetch.Timeout),
		billing.WithObserver(func(endpoint string, err error) {
			if err != nil {
				logger.Debug("billing request failed", "endpoint", endpoint, "err", err)
			} else {
				logger.Debug("billing request done", "endpoint", endpoint)
			}
			if s.progress != nil {
				s.progress(spinner.CompletionInfo{Endpoint: endpoint, Err: err})
			}
		}),
	)
	s.widget = widget.New(store, s.client,
		widget.WithNotifier(s.notices),
		widget.WithLocation(loc),
		widget.WithLogger(logger),
	)
	return s, nil
}

// refresh runs t to completion, with a spinner when stdout is interactive.
func (s *session) refresh(ctx context.Context, t widget.Ticket) error {
	if !spinner.ShouldShow(quiet, jsonOutput, !isTerminal()) {
		s.widget.Run(ctx, t)
		return nil
	}
	err := spinner.Run(billing.Endpoints, func(onComplete func(spinner.CompletionInfo)) {
		s.progress = onComplete
		s.widget.Run(ctx, t)
	})
	s.progress = nil
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return nil
}

// print writes the current state and any pending notices. It returns an
// error when the widget ended in the Error phase.
func (s *session) print(showBar bool) error {
	st := s.widget.State()
	notices := s.notices.Drain()

	switch {
	case jsonOutput:
		if err := outJSON(display.QuotaToJSON(st)); err != nil {
			return err
		}
	case quiet:
		outln(st.View.Label())
	default:
		label := display.RenderLabel(st.Phase, st.View, display.LabelOptions{NoColor: s.noColor})
		if showBar && actionbar.HasQuota(s.actions) {
			bar := display.RenderBar(s.actions, label, s.noColor)
			// Bars wider than the terminal fall back to the bare label.
			if display.FitsWidth(bar) {
				label = bar
			}
		}
		outln(label)
		for _, n := range notices {
			outln(display.RenderNotice(n, s.noColor))
		}
	}

	if st.Phase == widget.Error {
		return fmt.Errorf("quota unavailable: %w", st.Err)
	}
	return nil
}
