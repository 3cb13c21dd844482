package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/events"
)

// Messages resolves user-facing text for a code.
type Messages interface {
	Resolve(code string) string
}

// Notifier receives user-facing notices.
type Notifier interface {
	Error(message string)
}

// NotificationService turns session events into log lines and user notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	messages   Messages
	logger     *zap.Logger
}

// NewNotificationService creates the service. notifier and messages may be nil.
func NewNotificationService(dispatcher events.Dispatcher, notifier Notifier, messages Messages, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		messages:   messages,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTokenChanged, n.handleTokenChanged)
	n.dispatcher.Subscribe(events.EventLoggedOut, n.handleLoggedOut)
	n.dispatcher.Subscribe(events.EventNavigated, n.handleNavigated)
}

func (n *NotificationService) handleTokenChanged(_ context.Context, event events.Event) error {
	p, _ := event.Payload.(events.TokenChangedPayload)
	n.logger.Info("TokenChanged", zap.String("subject", p.Subject))
	return nil
}

// handleLoggedOut tells the user when the session ended without them asking.
func (n *NotificationService) handleLoggedOut(_ context.Context, event events.Event) error {
	p, _ := event.Payload.(events.LoggedOutPayload)
	n.logger.Info("LoggedOut", zap.String("reason", p.Reason))
	if p.Reason != "expired" || n.notifier == nil || n.messages == nil {
		return nil
	}
	n.notifier.Error(n.messages.Resolve("session_expired"))
	return nil
}

func (n *NotificationService) handleNavigated(_ context.Context, event events.Event) error {
	p, _ := event.Payload.(events.NavigatedPayload)
	n.logger.Debug("Navigated", zap.String("from", p.From), zap.String("to", p.To))
	return nil
}
