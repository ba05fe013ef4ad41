package util

import (
	"context"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorGuardConvertsErrorsToToolResults(t *testing.T) {
	var guarded server.ToolHandlerFunc = ErrorGuard(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, fmt.Errorf("backend unavailable")
	})

	result, err := guarded(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err, "handler errors become tool error results, not transport errors")
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestErrorGuardRecoversPanics(t *testing.T) {
	guarded := ErrorGuard(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("boom")
	})

	result, err := guarded(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
