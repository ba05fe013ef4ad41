package services

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/carenote/carenote-mcp/pkg/workspace"
)

// DefaultStore is the shared client-side document store.
var DefaultStore = sync.OnceValue(workspace.NewStore)

// DefaultEditor is the shared extraction edit buffer.
var DefaultEditor = sync.OnceValue(workspace.NewEditor)

// DefaultNotifier is the shared transient-notification center. The
// auto-dismiss delay can be tuned with CARENOTE_NOTIFY_TTL_SECONDS.
var DefaultNotifier = sync.OnceValue(func() *workspace.Notifier {
	ttl := workspace.DefaultTTL
	if v := os.Getenv("CARENOTE_NOTIFY_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return workspace.NewNotifier(ttl)
})
