package service

import (
	"context"
	"errors"
	"testing"

	"github.com/customer-care/ticket-api/internal/domain"
	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/repository"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

var (
	admin    = domain.Principal{ID: "1", IsAdmin: true}
	userTwo  = domain.Principal{ID: "2"}
	userFive = domain.Principal{ID: "5"}
)

type fixture struct {
	store     *repository.MemoryStore
	published []events.Event
	tickets   *TicketService
	responses *ResponseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: repository.NewMemoryStore()}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:   f.store.Tickets(),
		UserRepo:     f.store.Users(),
		CategoryRepo: f.store.Categories(),
		Dispatcher:   dispatcher,
	})
	f.responses = NewResponseService(ResponseDependencies{
		ResponseRepo: f.store.Responses(),
		TicketRepo:   f.store.Tickets(),
		Dispatcher:   dispatcher,
	})
	return f
}

func (f *fixture) seedTicket(t *testing.T, id, owner string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		ID:          id,
		Title:       "ticket " + id,
		Description: "seeded",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		OwnerID:     owner,
	}
	if err := f.store.Tickets().Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func (f *fixture) seedResponse(t *testing.T, id, ticketID, author string) *domain.Response {
	t.Helper()
	resp := &domain.Response{ID: id, TicketID: ticketID, AuthorID: author, Content: "seeded reply"}
	if err := f.store.Responses().Create(context.Background(), resp); err != nil {
		t.Fatalf("seed response: %v", err)
	}
	return resp
}

func (f *fixture) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.Type)
	}
	return out
}

func assertKind(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", apperrors.KindOf(target), err)
	}
}

func ptr[T any](v T) *T { return &v }
