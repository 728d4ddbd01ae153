package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/weavex/quotabar/internal/actionbar"
	"github.com/weavex/quotabar/internal/config"
	"github.com/weavex/quotabar/internal/display"
	"github.com/weavex/quotabar/internal/prompt"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions shown in the action bar",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		actions, err := actionbar.Builtin().Resolve(cfg.ActionBar.Actions)
		if err != nil {
			return fmt.Errorf("actionbar.actions: %w", err)
		}
		return displayActions(actions, colorDisabled(cfg))
	},
}

var actionsSetCmd = &cobra.Command{
	Use:   "set [action...]",
	Short: "Choose the actions shown in the action bar",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := actionbar.Builtin()
		cfg := config.Get()

		selected := args
		if len(selected) == 0 {
			current, err := registry.Resolve(cfg.ActionBar.Actions)
			if err != nil {
				current = registry.Default()
			}
			options := lo.Map(registry.Default(), func(a actionbar.Action, _ int) prompt.SelectOption {
				return prompt.SelectOption{
					Label:    fmt.Sprintf("%s (%s)", a.Title, a.Key),
					Value:    string(a.Key),
					Selected: lo.ContainsBy(current, func(c actionbar.Action) bool { return c.Key == a.Key }),
				}
			})
			selected, err = prompt.Default.MultiSelect(prompt.MultiSelectConfig{
				Title:       "Action bar",
				Description: "Select the actions to show, in bar order",
				Options:     options,
				Validate:    prompt.ValidateAtLeastOne,
			})
			if err != nil {
				return err
			}
		}

		actions, err := registry.Resolve(selected)
		if err != nil {
			return err
		}
		saved, err := config.LoadFile(config.ConfigFile())
		if err != nil {
			return err
		}
		saved.ActionBar.Actions = lo.Map(actions, func(a actionbar.Action, _ int) string { return string(a.Key) })
		if err := config.Save(saved, config.ConfigFile()); err != nil {
			return err
		}
		if _, err := config.Reload(); err != nil {
			return err
		}

		if jsonOutput {
			return outJSON(display.ActionsToJSON(actions))
		}
		if !actionbar.HasQuota(actions) && !quiet {
			outln("! the quota action is not part of the bar")
		}
		out("✓ Saved %d action(s)\n", len(actions))
		return nil
	},
}

func init() {
	actionsCmd.AddCommand(actionsSetCmd)
}

func displayActions(actions []actionbar.Action, nc bool) error {
	if jsonOutput {
		return outJSON(display.ActionsToJSON(actions))
	}
	if quiet {
		for _, a := range actions {
			outln(string(a.Key))
		}
		return nil
	}
	outln(display.ActionsTable(actions, nc))
	return nil
}
