// File: cmd/presets.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/observability"
	"github.com/amitgur2000/web-tasks-bot/internal/presets"
)

// newPresetsCmd creates the `presets` command, listing the stored operations
// without touching the browser.
func newPresetsCmd() *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Lists the stored operation presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := presets.NewStore(cfg.Presets.Path, observability.GetLogger())
			if err := store.Load(); err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}

			entries := store.List()
			if len(entries) == 0 {
				fmt.Println("no presets stored")
				return nil
			}
			for _, p := range entries {
				target := p.Selector
				if p.Type == schemas.PresetNavigate {
					target = p.Value
				}
				fmt.Printf("%-20s %-14s %-28s %s\n", p.ID, p.Type, p.Label, target)
			}
			return nil
		},
	}
	return presetsCmd
}

func init() {
	rootCmd.AddCommand(newPresetsCmd())
}
