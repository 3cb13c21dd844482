package service

import (
	"context"
	"testing"

	"github.com/spec-kit/jobit-client/internal/events"
	"github.com/spec-kit/jobit-client/internal/messages"
)

type recordingNotifier struct {
	got []string
}

func (r *recordingNotifier) Error(message string) { r.got = append(r.got, message) }

func TestNotificationServiceLoggedOut(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	notifier := &recordingNotifier{}
	svc := NewNotificationService(dispatcher, notifier, messages.MustLoad("en"), nil)
	svc.RegisterHandlers()

	ctx := context.Background()
	dispatcher.Publish(ctx, events.Event{Type: events.EventLoggedOut, Payload: events.LoggedOutPayload{Reason: "logout"}})
	if len(notifier.got) != 0 {
		t.Fatalf("explicit logout produced notices %v", notifier.got)
	}

	dispatcher.Publish(ctx, events.Event{Type: events.EventLoggedOut, Payload: events.LoggedOutPayload{Reason: "expired"}})
	if len(notifier.got) != 1 || notifier.got[0] != "Your session has expired. Please log in again" {
		t.Errorf("notices = %v", notifier.got)
	}

	dispatcher.Publish(ctx, events.Event{Type: events.EventNavigated, Payload: events.NavigatedPayload{From: "/", To: "/jobs"}})
	dispatcher.Publish(ctx, events.Event{Type: events.EventTokenChanged, Payload: events.TokenChangedPayload{Subject: "u1"}})
	if len(notifier.got) != 1 {
		t.Errorf("unexpected notices %v", notifier.got)
	}
}

func TestNotificationServiceWithoutDispatcher(t *testing.T) {
	NewNotificationService(nil, nil, nil, nil).RegisterHandlers()
}
