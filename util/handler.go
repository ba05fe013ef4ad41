package util

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// ToolHandler is the handler signature accepted by server.AddTool.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ErrorGuard wraps a tool handler so that panics and returned errors become
// tool error results instead of killing the server or the transport.
func ErrorGuard(handler ToolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				Logger().WithFields(logrus.Fields{
					"tool":  request.Params.Name,
					"panic": r,
				}).Error("tool handler panicked")
				result = mcp.NewToolResultError(fmt.Sprintf("internal error: %v", r))
				err = nil
			}
		}()

		result, err = handler(ctx, request)
		if err != nil {
			Logger().WithFields(logrus.Fields{
				"tool":  request.Params.Name,
				"error": err.Error(),
			}).Error("tool handler failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result, nil
	}
}
