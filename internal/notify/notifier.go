// Package notify implements the transient toast-style notifications the
// dashboard surfaces after mutations. Notifications are queued and drained
// by the view layer; nothing here is persisted.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/metrics"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient user-visible message.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier queues notifications for the view layer.
type Notifier struct {
	mu      sync.Mutex
	pending []Notification
	logger  logger.Logger
}

func New(log logger.Logger) *Notifier {
	return &Notifier{logger: log}
}

// Success queues a success toast.
func (n *Notifier) Success(message string) Notification {
	return n.emit(LevelSuccess, message)
}

// Error queues a failure toast.
func (n *Notifier) Error(message string) Notification {
	return n.emit(LevelError, message)
}

func (n *Notifier) emit(level Level, message string) Notification {
	note := Notification{
		ID:      uuid.New().String(),
		Level:   level,
		Message: message,
		At:      time.Now().UTC(),
	}

	n.mu.Lock()
	n.pending = append(n.pending, note)
	n.mu.Unlock()

	metrics.NotificationsEmitted.WithLabelValues(string(level)).Inc()
	n.logger.Debug("notification emitted", map[string]interface{}{
		"level":   string(level),
		"message": message,
	})
	return note
}

// Drain returns all queued notifications and clears the queue.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}

// Pending returns the queued notifications without clearing them.
func (n *Notifier) Pending() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.pending))
	copy(out, n.pending)
	return out
}
