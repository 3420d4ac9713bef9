package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/customer-care/ticket-api/internal/domain"
)

// TicketFilter narrows a ticket listing.
type TicketFilter struct {
	OwnerID  *string
	Page     int
	PageSize int
}

// TicketRepository encapsulates ticket persistence. Reads eager-load the
// ticket's responses in creation order.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) (Page[domain.Ticket], error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, owner_id, assignee_id, category_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, owner_id, assignee_id, category_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.OwnerID,
		ticket.AssigneeID,
		ticket.CategoryID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translateError(err)
}

// Update writes the mutable columns; owner_id is never touched.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4,
            assignee_id=$5, category_id=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.CategoryID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
	return translateError(err)
}

// Delete removes the ticket; responses go with it through ON DELETE CASCADE.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, translateError(err)
	}
	tickets := []domain.Ticket{ticket}
	if err := r.loadResponses(ctx, tickets); err != nil {
		return nil, err
	}
	return &tickets[0], nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) (Page[domain.Ticket], error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	result := Page[domain.Ticket]{Page: page, PageSize: pageSize, Items: []domain.Ticket{}}

	clauses := []string{"1=1"}
	args := []any{}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&result.Total); err != nil {
		return result, translateError(err)
	}
	offset, ok := pageOffset(page, pageSize)
	if result.Total == 0 || !ok || offset >= result.Total {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, pageSize, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return result, translateError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return result, err
		}
		result.Items = append(result.Items, ticket)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}
	if err := r.loadResponses(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// loadResponses attaches each ticket's responses with a single query.
func (r *ticketRepository) loadResponses(ctx context.Context, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	ids := make([]string, len(tickets))
	index := make(map[string]int, len(tickets))
	for i := range tickets {
		ids[i] = tickets[i].ID
		index[tickets[i].ID] = i
		tickets[i].Responses = []domain.Response{}
	}

	const query = `
        SELECT id, ticket_id, author_id, content, created_at, updated_at
        FROM responses WHERE ticket_id = ANY($1::uuid[]) ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var resp domain.Response
		if err := rows.Scan(
			&resp.ID,
			&resp.TicketID,
			&resp.AuthorID,
			&resp.Content,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		); err != nil {
			return err
		}
		i := index[resp.TicketID]
		tickets[i].Responses = append(tickets[i].Responses, resp)
	}
	return rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.OwnerID,
		&ticket.AssigneeID,
		&ticket.CategoryID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}
