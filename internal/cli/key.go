package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/keystore"
	"github.com/weavex/quotabar/internal/prompt"
	"github.com/weavex/quotabar/internal/widget"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		return displayKeyStatus(keystore.New(cfg), colorDisabled(cfg))
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store a new API key and refresh the quota",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) > 0 {
			value = args[0]
		} else {
			var err error
			value, err = prompt.Default.Input(prompt.InputConfig{
				Title:       "API key",
				Placeholder: "sk-...",
				Secret:      true,
				Validate:    prompt.ValidateAPIKey,
			})
			if errors.Is(err, prompt.ErrAborted) {
				outln("Cancelled")
				return nil
			}
			if err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		cfg := config.Get()
		store := keystore.New(cfg)
		s, err := newSession(ctx, cfg, store)
		if err != nil {
			return err
		}

		t, err := s.widget.SaveKey(value)
		if err != nil {
			return err
		}
		if !jsonOutput && !quiet {
			backend, _ := keystore.Describe(store, widget.KeyName)
			out("✓ API key saved (%s)\n", backend)
		}

		if noRefresh, _ := cmd.Flags().GetBool("no-refresh"); noRefresh {
			return nil
		}
		if err := s.refresh(ctx, t); err != nil {
			return err
		}
		return s.print(false)
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title: "Delete the stored API key?",
			})
			if errors.Is(err, prompt.ErrAborted) {
				ok, err = false, nil
			}
			if err != nil {
				return err
			}
			if !ok {
				outln("Delete cancelled")
				return nil
			}
		}

		store := keystore.New(config.Get())
		deleted, err := store.Delete(widget.KeyName)
		if err != nil {
			return fmt.Errorf("deleting API key: %w", err)
		}

		msg := "No API key stored"
		if deleted {
			msg = "Deleted API key"
		}
		if jsonOutput {
			return outJSON(display.ActionResultJSON{Success: true, Message: msg})
		}
		if deleted {
			outln("✓ " + msg)
		} else {
			outln(msg)
		}
		return nil
	},
}

func init() {
	keySetCmd.Flags().Bool("no-refresh", false, "Save the key without fetching the quota")
	keyDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation")

	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
}

func displayKeyStatus(store keystore.Store, nc bool) error {
	value, ok, err := store.Get(widget.KeyName)
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	configured := ok && strings.TrimSpace(value) != ""
	backend, location := keystore.Describe(store, widget.KeyName)

	st := display.KeyStatusJSON{Configured: configured, Backend: backend, Location: location}
	if jsonOutput {
		return outJSON(st)
	}
	if quiet {
		if configured {
			outln("configured")
		} else {
			outln("not configured")
		}
		return nil
	}
	outln(display.KeyStatusTable(st, nc))

	if !configured {
		outln()
		outln("Set the key with:")
		outln("  quotabar key set")
	}
	return nil
}
