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

func RegisterStatisticsTool(s *server.MCPServer) {
	tool := mcp.NewTool("carenote_statistics",
		mcp.WithDescription("Fetch the aggregate usage statistics snapshot (document counts, accuracy rate, processing time)"),
	)
	s.AddTool(tool, util.ErrorGuard(statisticsHandler))
}

func statisticsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer trackBusy()()
	stats, err := services.DefaultCareNoteClient().GetStatistics(ctx)
	if err != nil {
		return fail("statistics", err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Documents: %d total, %d completed, %d failed, %d pending\n",
		stats.TotalDocuments, stats.CompletedDocuments, stats.FailedDocuments, stats.PendingDocuments)
	fmt.Fprintf(&out, "Accuracy rate: %.1f%%\n", stats.AccuracyRate*100)
	fmt.Fprintf(&out, "Average processing time: %.1fs\n", stats.AvgProcessingSeconds)
	return mcp.NewToolResultText(out.String()), nil
}
