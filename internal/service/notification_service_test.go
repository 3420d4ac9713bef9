package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/customer-care/ticket-api/internal/config"
	"github.com/customer-care/ticket-api/internal/events"
)

type countingRecorder map[string]int

func (c countingRecorder) RecordEvent(eventType string) { c[eventType]++ }

func TestNotificationServiceObservesEveryEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	counter := countingRecorder{}
	cfg := config.NotificationConfig{EmailFrom: "noreply@example.com", WebhookURL: "http://hooks.local"}
	NewNotificationService(dispatcher, zap.NewNop(), cfg, counter).RegisterHandlers()

	for _, eventType := range events.AllEventTypes {
		if err := dispatcher.Publish(context.Background(), events.Event{Type: eventType, TicketID: "5"}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}
	for _, eventType := range events.AllEventTypes {
		if counter[string(eventType)] != 1 {
			t.Fatalf("expected %s to be counted once, got %d", eventType, counter[string(eventType)])
		}
	}
}

func TestTicketServiceNotifiesThroughDispatcher(t *testing.T) {
	store := newFixture(t).store
	dispatcher := events.NewInMemoryDispatcher()
	counter := countingRecorder{}
	NewNotificationService(dispatcher, nil, config.NotificationConfig{}, counter).RegisterHandlers()

	tickets := NewTicketService(TicketDependencies{TicketRepo: store.Tickets(), Dispatcher: dispatcher})
	ticket, err := tickets.CreateTicket(context.Background(), userTwo, TicketCreateInput{Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tickets.DeleteTicket(context.Background(), userTwo, ticket.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if counter[string(events.EventTicketCreated)] != 1 || counter[string(events.EventTicketDeleted)] != 1 {
		t.Fatalf("unexpected counts %v", counter)
	}
}
