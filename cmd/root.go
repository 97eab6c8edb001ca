package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the ticktick-mcp application
var rootCmd = &cobra.Command{
	Use:   "ticktick-mcp",
	Short: "MCP server exposing TickTick task management to AI assistants",
	Long: `ticktick-mcp is a Model Context Protocol (MCP) server that exposes
TickTick projects and tasks as tools for AI assistants.

It can run as:
  - An MCP server over stdio (default) or streamable HTTP
  - A CLI for managing the saved TickTick credentials`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ticktick-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newVersionCmd())
}
