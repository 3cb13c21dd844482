package messages

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notice is one user-facing message.
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Inbox keeps the most recent notices for display. It satisfies the gateway Notifier.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
	logger  *zap.Logger
}

// NewInbox keeps at most limit notices.
func NewInbox(limit int, logger *zap.Logger) *Inbox {
	if limit <= 0 {
		limit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inbox{limit: limit, logger: logger}
}

// Error records an error notice.
func (i *Inbox) Error(message string) {
	i.mu.Lock()
	i.notices = append(i.notices, Notice{Level: "error", Message: message, At: time.Now()})
	if over := len(i.notices) - i.limit; over > 0 {
		i.notices = append([]Notice(nil), i.notices[over:]...)
	}
	i.mu.Unlock()
	i.logger.Info("user notice", zap.String("level", "error"), zap.String("message", message))
}

// Drain returns and clears the pending notices.
func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	return out
}
