package services

import (
	"os"
	"sync"

	"github.com/carenote/carenote-mcp/pkg/carenote"
)

// DefaultCareNoteClient returns a singleton gateway client for the CareNote
// backend.
var DefaultCareNoteClient = sync.OnceValue(func() *carenote.Client {
	baseURL := os.Getenv("CARENOTE_API_BASE")
	if baseURL == "" {
		panic("CARENOTE_API_BASE is not set, please set it in MCP Config")
	}

	return carenote.NewClient(baseURL, carenote.WithTokenSource(DefaultSession()))
})
