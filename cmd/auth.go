package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teemow/ticktick-mcp/internal/auth"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

func newAuthCmd() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to TickTick and save credentials",
		Long: `Log in to TickTick with username and password. On success the
credentials are saved to ~/.ticktick-mcp/credentials.json (owner-only
permissions) so the MCP server can authenticate automatically.

Username and password can be passed as flags; anything missing is
prompted for interactively. The password prompt does not echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = os.Getenv(auth.EnvUsername)
			}
			if password == "" {
				password = os.Getenv(auth.EnvPassword)
			}

			reader := bufio.NewReader(os.Stdin)

			if username == "" {
				fmt.Fprint(os.Stderr, "TickTick username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}

			if password == "" {
				fmt.Fprint(os.Stderr, "TickTick password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(raw)
			}

			store, err := auth.NewStore()
			if err != nil {
				return fmt.Errorf("failed to initialize credential store: %w", err)
			}

			manager := auth.NewManager(ticktick.NewAPI(), store)
			if err := manager.Login(context.Background(), username, password); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Printf("Logged in as %s. Credentials saved.\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "TickTick username (email address). Can also use TICKTICK_USERNAME env var.")
	cmd.Flags().StringVar(&password, "password", "", "TickTick password. Can also use TICKTICK_PASSWORD env var. Prompted for if omitted.")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove saved TickTick credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewStore()
			if err != nil {
				return fmt.Errorf("failed to initialize credential store: %w", err)
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			fmt.Println("Saved credentials removed.")
			return nil
		},
	}
}
