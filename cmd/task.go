// File: cmd/task.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/internal/browser"
	"github.com/amitgur2000/web-tasks-bot/internal/observability"
	"github.com/amitgur2000/web-tasks-bot/internal/presets"
	"github.com/amitgur2000/web-tasks-bot/internal/script"
)

// newTaskCmd creates the `task` command: compile one stored preset and run it
// against the hosted page.
func newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task [preset-id]",
		Short: "Runs a single stored preset against the hosted page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			presetID := args[0]

			store := presets.NewStore(cfg.Presets.Path, logger)
			if err := store.Load(); err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}
			preset, err := store.Get(presetID)
			if err != nil {
				return err
			}

			src, err := script.Compile(preset)
			if err != nil {
				return fmt.Errorf("preset %q does not compile: %w", presetID, err)
			}

			session, err := browser.NewSession(ctx, cfg.Browser, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser session: %w", err)
			}
			defer session.Close()

			if cfg.Browser.StartURL != "" && cfg.Browser.StartURL != "about:blank" {
				if err := session.LoadURL(ctx, cfg.Browser.StartURL); err != nil {
					return err
				}
			}

			result, err := session.EvaluateScript(ctx, src)
			if err != nil {
				return fmt.Errorf("preset %q failed: %w", presetID, err)
			}

			logger.Info("Preset executed.",
				zap.String("preset_id", presetID),
				zap.String("type", string(preset.Type)),
				zap.String("result", result))
			fmt.Println(result)
			return nil
		},
	}
	return taskCmd
}

func init() {
	rootCmd.AddCommand(newTaskCmd())
}
