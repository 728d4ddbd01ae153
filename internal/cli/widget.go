package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/keystore"
	"github.com/weavex/quotabar/internal/logging"
	"github.com/weavex/quotabar/internal/widget"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Run the interactive quota widget",
	Long: `Run the quota label as an interactive widget.

Double-click the label (or press enter twice) to enter a new API key,
press r to refresh and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()
		store := keystore.New(cfg)

		s, err := newSession(ctx, cfg, store)
		if err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !cmd.Flags().Changed("watch") {
			_, isFile := store.(*keystore.FileStore)
			watch = isFile
		}
		changes := watchKey(ctx, store, watch)

		opts := display.WidgetOptions{
			NoColor:    s.noColor,
			Notices:    s.notices,
			KeyChanges: changes,
		}
		if showBar, _ := cmd.Flags().GetBool("bar"); showBar {
			opts.Actions = s.actions
		}

		p := tea.NewProgram(
			display.NewWidgetModel(ctx, s.widget, opts),
			tea.WithContext(ctx),
			// Mouse rows are screen coordinates; the alt screen puts the
			// label on row 0.
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running widget: %w", err)
		}
		return nil
	},
}

func init() {
	widgetCmd.Flags().Bool("watch", false, "Reload the key when it changes on disk (default on for the file backend)")
	widgetCmd.Flags().BoolP("bar", "b", false, "Show the label inside the configured action bar")
}

// watchKey starts the key file watcher when enabled. It returns nil when
// the store has no file to watch or the watcher could not start.
func watchKey(ctx context.Context, store keystore.Store, enabled bool) <-chan struct{} {
	if !enabled {
		return nil
	}
	logger := logging.FromContext(ctx)

	fs, ok := store.(*keystore.FileStore)
	if !ok {
		backend, _ := keystore.Describe(store, widget.KeyName)
		logger.Debug("key watcher not supported", "backend", backend)
		return nil
	}
	path, err := fs.Path(widget.KeyName)
	if err != nil {
		logger.Warn("key watcher disabled", "err", err)
		return nil
	}
	changes, err := keystore.Watch(ctx, path, logger)
	if err != nil {
		logger.Warn("key watcher disabled", "err", err)
		return nil
	}
	return changes
}
