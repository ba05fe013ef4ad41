package workspace

import (
	"sync"
	"time"

	"github.com/carenote/carenote-mcp/pkg/metrics"
	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient, user-facing notice. It auto-dismisses once
// its deadline passes; nothing is retried or escalated from here.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Expires time.Time `json:"expires"`
}

// Notifier collects notifications and prunes expired ones on read.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []Notification
	now     func() time.Time
}

// DefaultTTL is the auto-dismiss delay for notifications.
const DefaultTTL = 5 * time.Second

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// Push records a notification that will dismiss itself after the TTL.
func (n *Notifier) Push(level Level, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	note := Notification{
		ID:      uuid.New().String(),
		Level:   level,
		Message: message,
		Expires: n.now().Add(n.ttl),
	}
	n.entries = append(n.entries, note)
	metrics.NotificationsPushed.WithLabelValues(string(level)).Inc()
	return note
}

// Active returns the not-yet-dismissed notifications and drops the rest.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	kept := n.entries[:0]
	for _, note := range n.entries {
		if note.Expires.After(now) {
			kept = append(kept, note)
		}
	}
	n.entries = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}
