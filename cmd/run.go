// File: cmd/run.go
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/internal/agentclient"
	"github.com/amitgur2000/web-tasks-bot/internal/browser"
	"github.com/amitgur2000/web-tasks-bot/internal/observability"
	"github.com/amitgur2000/web-tasks-bot/internal/orchestrator"
	"github.com/amitgur2000/web-tasks-bot/internal/resolver"
	"github.com/amitgur2000/web-tasks-bot/internal/snapshot"
	"github.com/amitgur2000/web-tasks-bot/internal/speech"
)

// newRunCmd creates the interactive `run` command: prompts read from stdin
// are resolved against the hosted page through the assistant exchange loop.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Starts the interactive prompt loop against the hosted page",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("browser.start_url", cmd.Flags().Lookup("url")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flags were bound in PreRunE; pick up their overrides.
			cfg.Browser.StartURL = viper.GetString("browser.start_url")

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

			client, err := agentclient.New(cfg.Agent, logger)
			if err != nil {
				return err
			}

			archive := snapshot.NewArchive(cfg.Snapshot.ArchiveDir, logger)
			serializer := snapshot.New(session, cfg.Snapshot, archive, logger)
			speaker := speech.NewFromConfig(cfg.Speech, logger)

			orch, err := orchestrator.New(orchestrator.Deps{
				Snapshots:      serializer,
				Resolver:       resolver.New(session, logger),
				Client:         client,
				Speaker:        speaker,
				Logger:         logger,
				Dwell:          cfg.Presenter.Dwell,
				ConstantPrompt: cfg.Agent.ConstantPrompt,
				Hooks: orchestrator.Hooks{
					OnAnswer: func(answer string) {
						fmt.Println(answer)
					},
					OnError: func(err error) {
						fmt.Fprintf(os.Stderr, "exchange failed: %v\n", err)
					},
				},
			})
			if err != nil {
				return err
			}
			defer orch.Cancel()

			return promptLoop(cmd, orch)
		},
	}

	runCmd.Flags().String("url", "", "page to load before the prompt loop starts")
	return runCmd
}

// promptLoop reads prompts line by line until EOF, /quit, or the command
// context ends. /cancel abandons the exchange currently on screen.
func promptLoop(cmd *cobra.Command, orch *orchestrator.Orchestrator) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Ready. Type a prompt, /cancel to dismiss an answer, /quit to exit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/cancel":
			orch.Cancel()
			continue
		}

		if err := orch.Submit(ctx, line); err != nil {
			switch {
			case errors.Is(err, orchestrator.ErrExchangeInFlight):
				fmt.Println("still working on the previous prompt")
			case errors.Is(err, orchestrator.ErrEmptyPrompt):
				// Blank after trimming; nothing to do.
			default:
				// Already user-visible through the OnError hook.
				logger.Debug("Prompt failed.", zap.Error(err))
			}
		}
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
