package auth_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/ticktick-mcp/internal/server"
	"github.com/teemow/ticktick-mcp/internal/tools/common"
)

// RegisterAuthTools registers the authentication tools with the MCP server.
// These are always available regardless of read-only mode: without them a
// client that starts unauthenticated has no way to log in.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Login tool
	loginTool := mcp.NewTool("auth_login",
		mcp.WithDescription("Login to TickTick with username and password. Credentials are saved locally so subsequent server starts authenticate automatically."),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("TickTick account username (email address)"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("TickTick account password"),
		),
	)

	s.AddTool(loginTool, common.InstrumentedToolHandler("auth_login", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		username, err := common.RequiredString(args, "username")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		password, err := common.RequiredString(args, "password")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := sc.AuthManager().Login(ctx, username, password); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Login failed: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Successfully logged in as %s", username)), nil
	}))

	// Logout tool
	logoutTool := mcp.NewTool("auth_logout",
		mcp.WithDescription("Logout from TickTick and clear saved credentials"),
	)

	s.AddTool(logoutTool, common.InstrumentedToolHandler("auth_logout", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sc.AuthManager().Logout(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Logout failed: %v", err)), nil
		}
		return mcp.NewToolResultText("Logged out. Saved credentials have been removed."), nil
	}))

	// Status tool
	statusTool := mcp.NewTool("auth_status",
		mcp.WithDescription("Check the current TickTick authentication status"),
	)

	s.AddTool(statusTool, common.InstrumentedToolHandler("auth_status", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := sc.AuthManager().Status()
		result, _ := json.MarshalIndent(status, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	return nil
}
