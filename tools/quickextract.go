package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterQuickExtractTool(s *server.MCPServer) {
	tool := mcp.NewTool("carenote_quick_extract",
		mcp.WithDescription("Run extraction against pasted narrative text without saving a document"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw nursing narrative, e.g. \"Pt awake, BP 120/80, HR 76\"")),
	)
	s.AddTool(tool, util.ErrorGuard(quickExtractHandler))
}

func quickExtractHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _ := stringArg(request.Params.Arguments, "text")
	if strings.TrimSpace(text) == "" {
		return fail("quick extract", fmt.Errorf("text must not be empty"))
	}

	defer trackBusy()()
	// Ephemeral by contract: no document is created and the store's
	// selection is left alone.
	ext, err := services.DefaultCareNoteClient().QuickExtract(ctx, text)
	if err != nil {
		return fail("quick extract", err)
	}

	return mcp.NewToolResultText("Quick extraction (not saved):\n" + renderExtraction(ext)), nil
}
