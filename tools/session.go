package tools

import (
	"context"
	"encoding/json"

	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterSessionTool(s *server.MCPServer) {
	tool := mcp.NewTool("carenote_session_status",
		mcp.WithDescription("Show the client session: login state, selected document, loading flag, edit mode and active notifications"),
	)
	s.AddTool(tool, util.ErrorGuard(sessionStatusHandler))
}

func sessionStatusHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := services.DefaultStore()

	status := map[string]interface{}{
		"logged_in":     services.DefaultSession().LoggedIn(),
		"documents":     len(store.Documents()),
		"busy":          store.Busy(),
		"editing":       services.DefaultEditor().Active(),
		"notifications": services.DefaultNotifier().Active(),
	}
	if doc, _, ok := store.Selected(); ok {
		status["selected"] = map[string]interface{}{
			"id":     doc.ID,
			"title":  doc.Title,
			"status": doc.Status,
		}
	}

	rendered, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(rendered)), nil
}
