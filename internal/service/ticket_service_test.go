package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/customer-care/ticket-api/internal/domain"
	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/repository"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

func TestCreateTicketAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.tickets.CreateTicket(context.Background(), userTwo, TicketCreateInput{
		Title:       "  Printer on fire  ",
		Description: "smoke everywhere",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if ticket.Status != domain.TicketStatusOpen || ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("unexpected defaults status=%q priority=%q", ticket.Status, ticket.Priority)
	}
	if ticket.OwnerID != userTwo.ID {
		t.Fatalf("owner should be the caller, got %q", ticket.OwnerID)
	}
	if ticket.Title != "Printer on fire" {
		t.Fatalf("title should be trimmed, got %q", ticket.Title)
	}
	if got := f.eventTypes(); len(got) != 1 || got[0] != events.EventTicketCreated {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestCreateTicketKeepsExplicitFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := &domain.User{ID: "9", Name: "Agent", Email: "agent@example.com"}
	if err := f.store.Users().Create(ctx, agent); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	category := &domain.Category{Name: "Hardware"}
	if err := f.store.Categories().Create(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	ticket, err := f.tickets.CreateTicket(ctx, userTwo, TicketCreateInput{
		Title:       "VPN down",
		Description: "cannot connect",
		Status:      ptr(domain.TicketStatusInProgress),
		Priority:    ptr(domain.TicketPriorityHigh),
		AssigneeID:  ptr("9"),
		CategoryID:  ptr(category.ID),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Status != domain.TicketStatusInProgress || ticket.Priority != domain.TicketPriorityHigh {
		t.Fatalf("explicit enums not kept: %+v", ticket)
	}
	if ticket.AssigneeID == nil || *ticket.AssigneeID != "9" || ticket.CategoryID == nil || *ticket.CategoryID != category.ID {
		t.Fatalf("references not kept: %+v", ticket)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	cases := map[string]struct {
		input TicketCreateInput
		field string
	}{
		"missing title":       {input: TicketCreateInput{Description: "d"}, field: "title"},
		"title too long":      {input: TicketCreateInput{Title: strings.Repeat("x", 256), Description: "d"}, field: "title"},
		"missing description": {input: TicketCreateInput{Title: "t"}, field: "description"},
		"bad status":          {input: TicketCreateInput{Title: "t", Description: "d", Status: ptr(domain.TicketStatus("pending"))}, field: "status"},
		"bad priority":        {input: TicketCreateInput{Title: "t", Description: "d", Priority: ptr(domain.TicketPriority("urgent"))}, field: "priority"},
		"unknown assignee":    {input: TicketCreateInput{Title: "t", Description: "d", AssigneeID: ptr("404")}, field: "assignee_id"},
		"unknown category":    {input: TicketCreateInput{Title: "t", Description: "d", CategoryID: ptr("404")}, field: "category_id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.tickets.CreateTicket(context.Background(), userTwo, tc.input)
			assertKind(t, err, apperrors.ErrValidation)
			if _, ok := apperrors.ToDomainError(err).Details[tc.field]; !ok {
				t.Fatalf("expected detail for %q, got %v", tc.field, apperrors.ToDomainError(err).Details)
			}
			page, _ := f.tickets.ListTickets(context.Background(), admin, TicketListQuery{})
			if page.Total != 0 {
				t.Fatalf("no ticket should be stored, found %d", page.Total)
			}
		})
	}
}

func TestListTicketsScopesByOwner(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "a", "2")
	f.seedTicket(t, "b", "5")
	f.seedTicket(t, "c", "2")
	f.seedResponse(t, "r1", "a", "1")

	all, err := f.tickets.ListTickets(context.Background(), admin, TicketListQuery{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if all.Total != 3 || len(all.Items) != 3 {
		t.Fatalf("admin should see every ticket, got %d", all.Total)
	}

	own, err := f.tickets.ListTickets(context.Background(), userTwo, TicketListQuery{})
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	if own.Total != 2 {
		t.Fatalf("user 2 should see 2 tickets, got %d", own.Total)
	}
	for _, ticket := range own.Items {
		if ticket.OwnerID != "2" {
			t.Fatalf("user 2 received ticket owned by %s", ticket.OwnerID)
		}
		if ticket.ID == "a" && len(ticket.Responses) != 1 {
			t.Fatalf("responses should be eager-loaded, got %d", len(ticket.Responses))
		}
	}
}

func TestListTicketsPageSizeFallsBack(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.seedTicket(t, string(rune('a'+i)), "2")
	}

	for _, size := range []int{0, -3} {
		page, err := f.tickets.ListTickets(context.Background(), userTwo, TicketListQuery{PageSize: size})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.PageSize != 10 || len(page.Items) != 10 || page.Page != 1 {
			t.Fatalf("size %d: expected default page of 10, got size=%d items=%d page=%d", size, page.PageSize, len(page.Items), page.Page)
		}
		if page.LastPage() != 2 {
			t.Fatalf("expected 2 pages, got %d", page.LastPage())
		}
	}

	second, err := f.tickets.ListTickets(context.Background(), userTwo, TicketListQuery{Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Items) != 5 || second.Total != 12 {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestListTicketsHugePagingReturnsEmptyPage(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.seedTicket(t, string(rune('a'+i)), "2")
	}

	queries := []TicketListQuery{
		{Page: 3, PageSize: 1 << 62},
		{Page: math.MaxInt, PageSize: 50},
		{Page: math.MaxInt, PageSize: math.MaxInt},
	}
	for _, query := range queries {
		page, err := f.tickets.ListTickets(context.Background(), userTwo, query)
		if err != nil {
			t.Fatalf("%+v: list: %v", query, err)
		}
		if len(page.Items) != 0 || page.Total != 3 {
			t.Fatalf("%+v: expected an empty page over 3 tickets, got items=%d total=%d", query, len(page.Items), page.Total)
		}
		if page.PageSize > repository.MaxPageSize {
			t.Fatalf("%+v: page size %d exceeds the cap", query, page.PageSize)
		}
	}

	capped, err := f.tickets.ListTickets(context.Background(), userTwo, TicketListQuery{Page: 1, PageSize: 1 << 62})
	if err != nil {
		t.Fatalf("list capped: %v", err)
	}
	if capped.PageSize != repository.MaxPageSize || len(capped.Items) != 3 {
		t.Fatalf("expected all 3 tickets under a capped size, got size=%d items=%d", capped.PageSize, len(capped.Items))
	}
}

func TestGetTicket(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	f.seedResponse(t, "r1", "5", "1")
	ctx := context.Background()

	for _, p := range []domain.Principal{admin, userTwo, userFive} {
		_, err := f.tickets.GetTicket(ctx, p, "missing")
		assertKind(t, err, apperrors.ErrNotFound)
	}

	_, err := f.tickets.GetTicket(ctx, userTwo, "5")
	assertKind(t, err, apperrors.ErrForbidden)

	for _, p := range []domain.Principal{admin, userFive} {
		ticket, err := f.tickets.GetTicket(ctx, p, "5")
		if err != nil {
			t.Fatalf("get as %s: %v", p.ID, err)
		}
		if len(ticket.Responses) != 1 || ticket.Responses[0].ID != "r1" {
			t.Fatalf("expected responses to be loaded, got %+v", ticket.Responses)
		}
	}
}

func TestUpdateTicketForbiddenLeavesTicketUnchanged(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	ctx := context.Background()

	_, err := f.tickets.UpdateTicket(ctx, userTwo, "5", TicketPatch{
		Title:  ptr("hijacked"),
		Status: ptr(domain.TicketStatusClosed),
	})
	assertKind(t, err, apperrors.ErrForbidden)

	stored, err := f.store.Tickets().GetByID(ctx, "5")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "ticket 5" || stored.Status != domain.TicketStatusOpen {
		t.Fatalf("ticket was modified: %+v", stored)
	}
	if len(f.published) != 0 {
		t.Fatalf("no event expected, got %v", f.eventTypes())
	}
}

func TestUpdateTicketPartial(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	ctx := context.Background()

	updated, err := f.tickets.UpdateTicket(ctx, userFive, "5", TicketPatch{Description: ptr("x")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "x" {
		t.Fatalf("description not applied: %q", updated.Description)
	}

	stored, _ := f.store.Tickets().GetByID(ctx, "5")
	if stored.Title != "ticket 5" || stored.Status != domain.TicketStatusOpen || stored.Priority != domain.TicketPriorityMedium {
		t.Fatalf("untouched fields changed: %+v", stored)
	}
	if stored.Description != "x" || stored.OwnerID != "5" {
		t.Fatalf("unexpected stored ticket %+v", stored)
	}

	if len(f.published) != 1 {
		t.Fatalf("expected one event, got %v", f.eventTypes())
	}
	payload, ok := f.published[0].Payload.(events.TicketUpdatedPayload)
	if !ok || len(payload.Changed) != 1 || payload.Changed[0] != "description" {
		t.Fatalf("unexpected payload %+v", f.published[0].Payload)
	}
}

func TestUpdateTicketAsAdmin(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")

	updated, err := f.tickets.UpdateTicket(context.Background(), admin, "5", TicketPatch{
		Status:   ptr(domain.TicketStatusInProgress),
		Priority: ptr(domain.TicketPriorityLow),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress || updated.Priority != domain.TicketPriorityLow {
		t.Fatalf("unexpected ticket %+v", updated)
	}
	if updated.OwnerID != "5" {
		t.Fatalf("owner must not change, got %q", updated.OwnerID)
	}
}

func TestUpdateTicketRejectsInvalidValues(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	ctx := context.Background()

	patches := []TicketPatch{
		{Status: ptr(domain.TicketStatus("reopened"))},
		{Priority: ptr(domain.TicketPriority(""))},
		{Title: ptr("   ")},
		{Description: ptr("   ")},
		{AssigneeID: ptr("nobody")},
	}
	for _, patch := range patches {
		_, err := f.tickets.UpdateTicket(ctx, userFive, "5", patch)
		assertKind(t, err, apperrors.ErrValidation)
	}

	stored, _ := f.store.Tickets().GetByID(ctx, "5")
	if !stored.Status.Valid() || !stored.Priority.Valid() || stored.AssigneeID != nil || stored.Description == "" {
		t.Fatalf("invalid values reached storage: %+v", stored)
	}

	_, err := f.tickets.UpdateTicket(ctx, userFive, "missing", TicketPatch{Title: ptr("x")})
	assertKind(t, err, apperrors.ErrNotFound)
}

func TestUpdateTicketClearsReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.store.Users().Create(ctx, &domain.User{ID: "9", Email: "agent@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f.seedTicket(t, "5", "5")

	assigned, err := f.tickets.UpdateTicket(ctx, admin, "5", TicketPatch{AssigneeID: ptr("9")})
	if err != nil || assigned.AssigneeID == nil {
		t.Fatalf("assign: %v %+v", err, assigned)
	}
	cleared, err := f.tickets.UpdateTicket(ctx, admin, "5", TicketPatch{AssigneeID: ptr("")})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.AssigneeID != nil {
		t.Fatalf("assignee should be cleared, got %v", *cleared.AssigneeID)
	}
}

func TestDeleteTicket(t *testing.T) {
	f := newFixture(t)
	f.seedTicket(t, "5", "5")
	f.seedResponse(t, "r1", "5", "5")
	ctx := context.Background()

	err := f.tickets.DeleteTicket(ctx, userFive, "missing")
	assertKind(t, err, apperrors.ErrNotFound)
	if len(f.published) != 0 {
		t.Fatalf("missing ticket delete must have no side effects")
	}

	err = f.tickets.DeleteTicket(ctx, userTwo, "5")
	assertKind(t, err, apperrors.ErrForbidden)

	if err := f.tickets.DeleteTicket(ctx, userFive, "5"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.tickets.GetTicket(ctx, admin, "5")
	assertKind(t, err, apperrors.ErrNotFound)
	_, err = f.responses.GetResponse(ctx, "r1")
	assertKind(t, err, apperrors.ErrNotFound)

	payload, ok := f.published[0].Payload.(events.TicketDeletedPayload)
	if !ok || payload.Responses != 1 || payload.OwnerID != "5" {
		t.Fatalf("unexpected delete payload %+v", f.published[0].Payload)
	}
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		principal domain.Principal
		owner     string
		want      bool
	}{
		{admin, "5", true},
		{userFive, "5", true},
		{userTwo, "5", false},
		{domain.Principal{}, "", false},
	}
	for _, tc := range cases {
		if got := authorize(tc.principal, tc.owner); got != tc.want {
			t.Fatalf("authorize(%+v, %q) = %v, want %v", tc.principal, tc.owner, got, tc.want)
		}
	}
}
