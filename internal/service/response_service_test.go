package service

import (
	"context"
	"testing"

	"github.com/customer-care/ticket-api/internal/events"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

func TestCreateResponseOnOwnTicket(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	ctx := context.Background()

	resp, err := f.responses.CreateResponse(ctx, userFive, ResponseCreateInput{TicketID: "5", Content: "ok"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.AuthorID != "5" || resp.TicketID != "5" || resp.Content != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Ticket == nil || resp.Ticket.ID != "5" {
		t.Fatalf("parent ticket should be attached")
	}

	fetched, err := f.responses.GetResponse(ctx, resp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Content != "ok" || fetched.AuthorID != "5" {
		t.Fatalf("fetched response differs: %+v", fetched)
	}
	if got := f.eventTypes(); len(got) != 1 || got[0] != events.EventResponseCreated {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestCreateResponseMissingTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.responses.CreateResponse(ctx, userFive, ResponseCreateInput{TicketID: "404", Content: "hello"})
	assertKind(t, err, apperrors.ErrNotFound)

	all, err := f.responses.ListResponses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("no response should be stored, found %d", len(all))
	}
}

func TestCreateResponseValidation(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")

	for _, input := range []ResponseCreateInput{
		{TicketID: "5", Content: "   "},
		{Content: "hello"},
	} {
		_, err := f.responses.CreateResponse(context.Background(), userFive, input)
		assertKind(t, err, apperrors.ErrValidation)
	}
}

func TestAnyUserMayRespond(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")

	resp, err := f.responses.CreateResponse(context.Background(), userTwo, ResponseCreateInput{TicketID: "5", Content: "me too"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.AuthorID != "2" {
		t.Fatalf("author should be the caller, got %q", resp.AuthorID)
	}
}

func TestUpdateResponseAuthorization(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	f.seedResponse(t, "r1", "5", "5")
	ctx := context.Background()

	_, err := f.responses.UpdateResponse(ctx, userTwo, "r1", ResponsePatch{Content: ptr("edited")})
	assertKind(t, err, apperrors.ErrForbidden)

	stored, _ := f.responses.GetResponse(ctx, "r1")
	if stored.Content != "seeded reply" {
		t.Fatalf("forbidden update changed content to %q", stored.Content)
	}

	updated, err := f.responses.UpdateResponse(ctx, admin, "r1", ResponsePatch{Content: ptr("moderated")})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Content != "moderated" || updated.AuthorID != "5" {
		t.Fatalf("unexpected response %+v", updated)
	}

	_, err = f.responses.UpdateResponse(ctx, userFive, "r1", ResponsePatch{Content: ptr("")})
	assertKind(t, err, apperrors.ErrValidation)

	_, err = f.responses.UpdateResponse(ctx, userFive, "missing", ResponsePatch{Content: ptr("x")})
	assertKind(t, err, apperrors.ErrNotFound)
}

func TestDeleteResponse(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	f.seedResponse(t, "r1", "5", "5")
	ctx := context.Background()

	assertKind(t, f.responses.DeleteResponse(ctx, userFive, "missing"), apperrors.ErrNotFound)
	assertKind(t, f.responses.DeleteResponse(ctx, userTwo, "r1"), apperrors.ErrForbidden)

	if err := f.responses.DeleteResponse(ctx, userFive, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := f.responses.GetResponse(ctx, "r1")
	assertKind(t, err, apperrors.ErrNotFound)
}

func TestListResponsesForTicket(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	f.seedTicket(t, "6", "2")
	f.seedResponse(t, "r1", "5", "5")
	f.seedResponse(t, "r2", "6", "2")
	f.seedResponse(t, "r3", "5", "1")
	ctx := context.Background()

	_, err := f.responses.ListResponsesForTicket(ctx, "404")
	assertKind(t, err, apperrors.ErrNotFound)

	list, err := f.responses.ListResponsesForTicket(ctx, "5")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r1" || list[1].ID != "r3" {
		t.Fatalf("expected r1, r3 in creation order, got %+v", list)
	}
	for _, resp := range list {
		if resp.Ticket == nil || resp.Ticket.ID != "5" {
			t.Fatalf("parent ticket not loaded for %s", resp.ID)
		}
	}

	all, err := f.responses.ListResponses(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(all))
	}
}

func TestStringPreview(t *testing.T) {
	if got := stringPreview("  short  ", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := stringPreview("abcdefghij", 6); got != "abc..." {
		t.Fatalf("got %q", got)
	}
}
