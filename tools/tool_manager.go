package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterToolManagerTool(s *server.MCPServer) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("Manage MCP tools - enable or disable tool groups"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list, enable, disable")),
		mcp.WithString("tool_name", mcp.Description("Tool group name to enable/disable")),
	)

	s.AddTool(tool, util.ErrorGuard(toolManagerHandler))
}

func toolManagerHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	action, ok := arguments["action"].(string)
	if !ok {
		return mcp.NewToolResultError("action must be a string"), nil
	}

	enableTools := os.Getenv("ENABLE_TOOLS")
	toolList := strings.Split(enableTools, ",")

	switch action {
	case "list":
		response := "Available tool groups:\n"
		allEnabled := enableTools == ""

		groups := []struct {
			name string
			desc string
		}{
			{"tool_manager", "Tool management"},
			{"auth", "Login, register, logout"},
			{"documents", "Document list/upload/view/delete/export/reprocess"},
			{"editor", "Extraction correction buffer"},
			{"quick_extract", "Ephemeral extraction from pasted text"},
			{"ocr", "Scanned-note OCR upload"},
			{"statistics", "Usage statistics"},
			{"session", "Session status"},
		}

		for _, g := range groups {
			status := "disabled"
			if allEnabled || contains(toolList, g.name) {
				status = "enabled"
			}
			response += fmt.Sprintf("- %s (%s) [%s]\n", g.name, g.desc, status)
		}
		response += "\n"

		response += "Currently enabled groups:\n"
		if allEnabled {
			response += "All tool groups are enabled (ENABLE_TOOLS is empty)\n"
		} else {
			for _, name := range toolList {
				if name != "" {
					response += fmt.Sprintf("- %s\n", name)
				}
			}
		}
		return mcp.NewToolResultText(response), nil

	case "enable", "disable":
		toolName, ok := arguments["tool_name"].(string)
		if !ok || toolName == "" {
			return mcp.NewToolResultError("tool_name is required for enable/disable actions"), nil
		}

		if enableTools == "" {
			toolList = []string{}
		}

		if action == "enable" {
			if !contains(toolList, toolName) {
				toolList = append(toolList, toolName)
			}
		} else {
			toolList = removeString(toolList, toolName)
		}

		newEnableTools := strings.Join(toolList, ",")
		os.Setenv("ENABLE_TOOLS", newEnableTools)

		return mcp.NewToolResultText(fmt.Sprintf("Successfully %sd tool group: %s (takes effect on restart)", action, toolName)), nil

	default:
		return mcp.NewToolResultError("Invalid action. Use 'list', 'enable', or 'disable'"), nil
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func removeString(slice []string, item string) []string {
	result := []string{}
	for _, s := range slice {
		if s != item {
			result = append(result, s)
		}
	}
	return result
}
