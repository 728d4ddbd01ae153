package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/keystore"
	"github.com/weavex/quotabar/internal/prompt"
	"github.com/weavex/quotabar/internal/testenv"
	"github.com/weavex/quotabar/internal/widget"
)

// setupCLI isolates the config directory, captures command output and
// forces a non-interactive terminal. Flags are reset before and after.
func setupCLI(t *testing.T) (*bytes.Buffer, testenv.Dirs) {
	t.Helper()
	dirs := testenv.Apply(t.Setenv, t.TempDir())
	reloadConfig()

	var buf bytes.Buffer
	prevOut, prevErr := outWriter, errWriter
	prevTerm, prevPrompt := isTerminal, canPrompt
	prevPrompter := prompt.Default
	outWriter, errWriter = &buf, io.Discard
	isTerminal = func() bool { return false }
	canPrompt = func() bool { return false }
	resetFlags()

	t.Cleanup(func() {
		outWriter, errWriter = prevOut, prevErr
		isTerminal, canPrompt = prevTerm, prevPrompt
		prompt.SetDefault(prevPrompter)
		resetFlags()
	})
	return &buf, dirs
}

// reloadConfig forces a config reload. Used by tests that modify
// QUOTABAR_CONFIG_DIR via t.Setenv before exercising commands.
func reloadConfig() {
	_, _ = config.Reload()
}

func resetFlags() {
	jsonOutput, noColor, verbose, quiet = false, false, false, false
	resets := []struct {
		cmd  *cobra.Command
		name string
	}{
		{rootCmd, "version"},
		{rootCmd, "bar"},
		{widgetCmd, "watch"},
		{widgetCmd, "bar"},
		{keySetCmd, "no-refresh"},
		{keyDeleteCmd, "force"},
		{configPathCmd, "credentials"},
		{configResetCmd, "confirm"},
	}
	for _, r := range resets {
		_ = r.cmd.Flags().Set(r.name, "false")
	}
}

// execute runs the root command with args, as the binary would.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(os.Stderr)
	})
	return rootCmd.ExecuteContext(context.Background())
}

func storeKey(t *testing.T, dirs testenv.Dirs, key string) {
	t.Helper()
	if err := keystore.NewFileStore(dirs.Credentials).Set(widget.KeyName, key); err != nil {
		t.Fatalf("storing key: %v", err)
	}
}

func storedKey(t *testing.T, dirs testenv.Dirs) (string, bool) {
	t.Helper()
	v, ok, err := keystore.NewFileStore(dirs.Credentials).Get(widget.KeyName)
	if err != nil {
		t.Fatalf("reading key: %v", err)
	}
	return v, ok
}

// billingServer serves both billing endpoints and points QUOTABAR_BASE_URL
// at itself. status applies to both endpoints.
type billingServer struct {
	*httptest.Server
	requests atomic.Int32
	lastAuth atomic.Value
}

func newBillingServer(t *testing.T, status int, usage, subscription string) *billingServer {
	t.Helper()
	bs := &billingServer{}
	bs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bs.requests.Add(1)
		bs.lastAuth.Store(r.Header.Get("Authorization"))
		var body string
		switch r.URL.Path {
		case "/dashboard/billing/usage":
			body = usage
		case "/dashboard/billing/subscription":
			body = subscription
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(bs.Close)
	t.Setenv("QUOTABAR_BASE_URL", bs.URL)
	reloadConfig()
	return bs
}

func (bs *billingServer) auth() string {
	v, _ := bs.lastAuth.Load().(string)
	return v
}

func writeConfig(t *testing.T, dirs testenv.Dirs, content string) {
	t.Helper()
	if err := os.MkdirAll(dirs.Config, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dirs.Config, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	reloadConfig()
}
