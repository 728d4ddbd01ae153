package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/logging"
	"github.com/weavex/quotabar/internal/prompt"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path := config.Get(), config.ConfigFile()
		switch {
		case jsonOutput:
			return outJSON(display.ConfigShowJSON{Config: cfg, Path: path})
		case quiet:
			outln(path)
			return nil
		}
		out("# %s\n\n", path)
		return toml.NewEncoder(outWriter).Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config and credential locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := config.CurrentPaths()
		if creds, _ := cmd.Flags().GetBool("credentials"); creds {
			if jsonOutput {
				return outJSON(map[string]string{"credentials_dir": p.CredentialsDir})
			}
			outln(p.CredentialsDir)
			return nil
		}
		switch {
		case jsonOutput:
			return outJSON(p)
		case quiet:
			outln(p.ConfigDir)
		default:
			rows := [][2]string{
				{"Config dir", p.ConfigDir},
				{"Config file", p.ConfigFile},
				{"Credentials", p.CredentialsDir},
			}
			for _, r := range rows {
				out("%-13s %s\n", r[0]+":", r[1])
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long:  "Change one setting and save it to the config file.\n\nKeys: " + strings.Join(config.SettableKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.SettableKeys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		// Start from the file, not config.Get, so env overrides are not
		// written back.
		cfg, err := config.LoadFile(config.ConfigFile())
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(cfg, config.ConfigFile()); err != nil {
			return err
		}
		if _, err := config.Reload(); err != nil {
			return err
		}

		msg := fmt.Sprintf("Set %s = %s", key, strings.TrimSpace(value))
		if jsonOutput {
			return outJSON(display.ActionResultJSON{Success: true, Message: msg})
		}
		if !quiet {
			outln("✓ " + msg)
		}
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if skip, _ := cmd.Flags().GetBool("confirm"); !skip && !jsonOutput {
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title:       "Reset configuration to defaults?",
				Description: "The stored API key is kept",
			})
			if errors.Is(err, prompt.ErrAborted) {
				ok, err = false, nil
			}
			if err != nil {
				return err
			}
			if !ok {
				outln("Reset cancelled")
				return nil
			}
		}

		if err := os.Remove(config.ConfigFile()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("resetting config: %w", err)
		}
		_, _ = config.Reload()

		const msg = "Configuration reset to defaults"
		if jsonOutput {
			return outJSON(display.ActionResultJSON{Success: true, Message: msg})
		}
		outln("✓ " + msg)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFile()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return err
			}
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}
		c := exec.CommandContext(cmd.Context(), editor, path)
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("running %s: %w", editor, err)
		}
		if _, err := config.Reload(); err != nil {
			logging.FromContext(cmd.Context()).Warn("edited config does not parse", "err", err)
		}
		return nil
	},
}

func init() {
	configPathCmd.Flags().Bool("credentials", false, "Print only the credentials directory")
	configResetCmd.Flags().BoolP("confirm", "y", false, "Skip confirmation")

	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd, configResetCmd, configEditCmd)
}
