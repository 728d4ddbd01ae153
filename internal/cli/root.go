package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/keystore"
	"github.com/weavex/quotabar/internal/logging"
	"github.com/weavex/quotabar/internal/prompt"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:          "quotabar",
	Short:        "Show the remaining API credit of an OpenAI-compatible account",
	Long:         "quotabar reads the billing usage and subscription of an OpenAI-compatible API account and shows the remaining credit and its expiration date, as a one-shot label or an interactive widget.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && quiet {
			verbose = false
		}
		cfg, err := config.Reload()
		l := newLogger(cfg)
		cmd.SetContext(logging.WithLogger(cmd.Context(), l))
		if err != nil {
			l.Warn("config file is malformed, using defaults", "err", err)
		}
	},
	RunE: runQuota,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.Flags().Bool("version", false, "Show version and exit")
	rootCmd.Flags().BoolP("bar", "b", false, "Show the label inside the configured action bar")

	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(configCmd)
}

// ExecuteContext runs the command line in os.Args. Cancelling ctx stops
// in-flight refreshes and the widget.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// isTerminal reports whether stdout is interactive. Tests replace it.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// canPrompt reports whether stdin can answer an interactive prompt.
var canPrompt = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// colorDisabled combines the --no-color flag with the config setting.
func colorDisabled(cfg config.Config) bool {
	return noColor || cfg.Display.NoColor
}

func runQuota(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		out("quotabar %s\n", version)
		return nil
	}
	showBar, _ := cmd.Flags().GetBool("bar")

	ctx := cmd.Context()
	cfg := config.Get()
	s, err := newSession(ctx, cfg, keystore.New(cfg))
	if err != nil {
		return err
	}

	t, ok := s.widget.Mount()
	if !ok {
		if jsonOutput {
			return outJSON(display.QuotaToJSON(s.widget.State()))
		}
		if quiet || !canPrompt() {
			showFirstRunMessage(colorDisabled(cfg))
			return nil
		}

		value, err := prompt.Default.Input(prompt.InputConfig{
			Title:       "API key",
			Description: "Stored on this device and used for the billing endpoints",
			Placeholder: "sk-...",
			Secret:      true,
			Validate:    prompt.ValidateAPIKey,
		})
		if err != nil {
			return err
		}
		t, err = s.widget.SaveKey(value)
		if err != nil {
			return err
		}
	}

	if err := s.refresh(ctx, t); err != nil {
		return err
	}
	return s.print(showBar)
}

func showFirstRunMessage(nc bool) {
	if quiet {
		outln("no API key configured")
		return
	}
	outln()
	outln(display.RenderTitle("Welcome to quotabar!", nc))
	outln("No API key is stored yet.")
	outln()
	outln("Get started with:")
	outln("  quotabar key set")
	outln()
}
