package resources

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/ticktick-mcp/internal/auth"
	"github.com/teemow/ticktick-mcp/internal/server"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

func newResourceServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()
	api := ticktick.NewAPIWithBaseURL("http://localhost:0")
	store := auth.NewStoreAt(filepath.Join(t.TempDir(), "credentials.json"))
	sc := server.NewServerContext(context.Background(), api, store)
	t.Cleanup(func() { _ = sc.Shutdown() })

	srv := mcpserver.NewMCPServer("test", "0.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := Register(srv, sc); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return srv
}

func TestResourcesListed(t *testing.T) {
	srv := newResourceServer(t)

	raw := srv.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`))
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal resources/list response: %v", err)
	}

	var resp struct {
		Result struct {
			Resources []struct {
				URI string `json:"uri"`
			} `json:"resources"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("failed to decode resources/list response: %v", err)
	}

	uris := make(map[string]bool)
	for _, r := range resp.Result.Resources {
		uris[r.URI] = true
	}
	for _, uri := range []string{"user://profile", "ticktick://projects"} {
		if !uris[uri] {
			t.Errorf("resource %s not listed", uri)
		}
	}
}

func TestProfileResourceRead(t *testing.T) {
	srv := newResourceServer(t)

	raw := srv.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"user://profile"}}`))
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal resources/read response: %v", err)
	}

	var resp struct {
		Result struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("failed to decode resources/read response: %v", err)
	}
	if len(resp.Result.Contents) != 1 {
		t.Fatalf("contents length = %d, want 1", len(resp.Result.Contents))
	}
	if !strings.Contains(resp.Result.Contents[0].Text, `"authenticated": false`) {
		t.Errorf("profile = %q, want unauthenticated state", resp.Result.Contents[0].Text)
	}
}
