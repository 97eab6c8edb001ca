package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/ticktick-mcp/internal/auth"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the saved credentials against the TickTick backend",
		Long: `Authenticate with the saved credentials (or the TICKTICK_USERNAME and
TICKTICK_PASSWORD environment variables) and fetch the project and task
lists once. Useful for checking a setup before wiring the server into
an MCP client.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			store, err := auth.NewStore()
			if err != nil {
				return fmt.Errorf("failed to initialize credential store: %w", err)
			}

			api := ticktick.NewAPI()
			manager := auth.NewManager(api, store)
			if !manager.Resume(ctx) {
				return fmt.Errorf("no valid credentials found; run %q first", "ticktick-mcp auth")
			}

			client := ticktick.NewClient(api, manager)

			projects, err := client.Projects(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch projects: %w", err)
			}

			tasks, err := client.Tasks(ctx, false)
			if err != nil {
				return fmt.Errorf("failed to fetch tasks: %w", err)
			}

			fmt.Printf("Authenticated as %s\n", manager.Status().Username)
			fmt.Printf("Projects: %d\n", len(projects))
			fmt.Printf("Active tasks: %d\n", len(tasks))
			return nil
		},
	}
}
