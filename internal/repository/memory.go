package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/customer-care/ticket-api/internal/domain"
)

// MemoryStore is an in-process implementation of every repository. It backs
// the service when no Postgres DSN is configured and in tests. Deleting a
// ticket removes its responses, mirroring the foreign key cascade.
type MemoryStore struct {
	mu sync.RWMutex

	tickets       map[string]domain.Ticket
	ticketOrder   []string
	responses     map[string]domain.Response
	responseOrder []string
	users         map[string]domain.User
	categories    map[string]domain.Category

	now func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:    make(map[string]domain.Ticket),
		responses:  make(map[string]domain.Response),
		users:      make(map[string]domain.User),
		categories: make(map[string]domain.Category),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Tickets returns the ticket repository view of the store.
func (s *MemoryStore) Tickets() TicketRepository { return &memoryTickets{s} }

// Responses returns the response repository view of the store.
func (s *MemoryStore) Responses() ResponseRepository { return &memoryResponses{s} }

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUsers{s} }

// Categories returns the category repository view of the store.
func (s *MemoryStore) Categories() CategoryRepository { return &memoryCategories{s} }

func removeID(order []string, id string) []string {
	for i, candidate := range order {
		if candidate == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// responsesFor returns the ticket's responses in creation order. Callers hold the lock.
func (s *MemoryStore) responsesFor(ticketID string) []domain.Response {
	out := []domain.Response{}
	for _, id := range s.responseOrder {
		resp := s.responses[id]
		if resp.TicketID == ticketID {
			out = append(out, resp)
		}
	}
	return out
}

type memoryTickets struct{ s *MemoryStore }

func (r *memoryTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if _, exists := r.s.tickets[ticket.ID]; exists {
		return ErrDuplicate
	}
	now := r.s.now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	stored := *ticket
	stored.Responses = nil
	r.s.tickets[ticket.ID] = stored
	r.s.ticketOrder = append(r.s.ticketOrder, ticket.ID)
	return nil
}

func (r *memoryTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tickets[ticket.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = ticket.Title
	existing.Description = ticket.Description
	existing.Status = ticket.Status
	existing.Priority = ticket.Priority
	existing.AssigneeID = ticket.AssigneeID
	existing.CategoryID = ticket.CategoryID
	existing.UpdatedAt = r.s.now()
	r.s.tickets[ticket.ID] = existing

	ticket.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryTickets) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.tickets, id)
	r.s.ticketOrder = removeID(r.s.ticketOrder, id)

	kept := r.s.responseOrder[:0]
	for _, respID := range r.s.responseOrder {
		if r.s.responses[respID].TicketID == id {
			delete(r.s.responses, respID)
			continue
		}
		kept = append(kept, respID)
	}
	r.s.responseOrder = kept
	return nil
}

func (r *memoryTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	ticket.Responses = r.s.responsesFor(id)
	return &ticket, nil
}

func (r *memoryTickets) List(_ context.Context, filter TicketFilter) (Page[domain.Ticket], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	result := Page[domain.Ticket]{Page: page, PageSize: pageSize, Items: []domain.Ticket{}}

	// newest first
	matched := make([]domain.Ticket, 0, len(r.s.ticketOrder))
	for i := len(r.s.ticketOrder) - 1; i >= 0; i-- {
		ticket := r.s.tickets[r.s.ticketOrder[i]]
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		matched = append(matched, ticket)
	}
	result.Total = len(matched)

	start, ok := pageOffset(page, pageSize)
	if !ok || start >= len(matched) {
		return result, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	for _, ticket := range matched[start:end] {
		ticket.Responses = r.s.responsesFor(ticket.ID)
		result.Items = append(result.Items, ticket)
	}
	return result, nil
}

type memoryResponses struct{ s *MemoryStore }

func (r *memoryResponses) Create(_ context.Context, resp *domain.Response) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[resp.TicketID]; !ok {
		return ErrNotFound
	}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if _, exists := r.s.responses[resp.ID]; exists {
		return ErrDuplicate
	}
	now := r.s.now()
	resp.CreatedAt = now
	resp.UpdatedAt = now

	stored := *resp
	stored.Ticket = nil
	r.s.responses[resp.ID] = stored
	r.s.responseOrder = append(r.s.responseOrder, resp.ID)
	return nil
}

func (r *memoryResponses) Update(_ context.Context, resp *domain.Response) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.responses[resp.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Content = resp.Content
	existing.UpdatedAt = r.s.now()
	r.s.responses[resp.ID] = existing

	resp.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryResponses) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.responses[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.responses, id)
	r.s.responseOrder = removeID(r.s.responseOrder, id)
	return nil
}

func (r *memoryResponses) GetByID(_ context.Context, id string) (*domain.Response, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	resp, ok := r.s.responses[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.attachTicket(&resp)
	return &resp, nil
}

func (r *memoryResponses) ListAll(_ context.Context) ([]domain.Response, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Response, 0, len(r.s.responseOrder))
	for _, id := range r.s.responseOrder {
		resp := r.s.responses[id]
		r.attachTicket(&resp)
		out = append(out, resp)
	}
	return out, nil
}

func (r *memoryResponses) ListByTicket(_ context.Context, ticketID string) ([]domain.Response, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.responsesFor(ticketID)
	for i := range out {
		r.attachTicket(&out[i])
	}
	return out, nil
}

func (r *memoryResponses) attachTicket(resp *domain.Response) {
	if ticket, ok := r.s.tickets[resp.TicketID]; ok {
		resp.Ticket = &ticket
	}
}

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

type memoryCategories struct{ s *MemoryStore }

func (r *memoryCategories) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return ErrDuplicate
		}
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := r.s.now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.s.categories[category.ID] = *category
	return nil
}

func (r *memoryCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (r *memoryCategories) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.s.categories))
	for _, category := range r.s.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
