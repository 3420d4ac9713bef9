package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/customer-care/ticket-api/internal/domain"
)

// ResponseRepository manages ticket responses. Reads eager-load the parent
// ticket (without its own responses).
type ResponseRepository interface {
	Create(ctx context.Context, resp *domain.Response) error
	Update(ctx context.Context, resp *domain.Response) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Response, error)
	ListAll(ctx context.Context) ([]domain.Response, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

const responseWithTicketQuery = `
        SELECT r.id, r.ticket_id, r.author_id, r.content, r.created_at, r.updated_at,
               t.id, t.title, t.description, t.status, t.priority, t.owner_id,
               t.assignee_id, t.category_id, t.created_at, t.updated_at
        FROM responses r JOIN tickets t ON t.id = r.ticket_id`

func (r *responseRepository) Create(ctx context.Context, resp *domain.Response) error {
	const query = `
        INSERT INTO responses (ticket_id, author_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		resp.TicketID,
		resp.AuthorID,
		resp.Content,
	).Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
	return translateError(err)
}

// Update rewrites the content only; ticket and author are fixed at creation.
func (r *responseRepository) Update(ctx context.Context, resp *domain.Response) error {
	const query = `
        UPDATE responses SET content=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, resp.Content, resp.ID).Scan(&resp.UpdatedAt)
	return translateError(err)
}

func (r *responseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM responses WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *responseRepository) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	resp, err := scanResponseWithTicket(r.pool.QueryRow(ctx, responseWithTicketQuery+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return resp, nil
}

func (r *responseRepository) ListAll(ctx context.Context) ([]domain.Response, error) {
	return r.list(ctx, responseWithTicketQuery+` ORDER BY r.created_at ASC, r.id ASC`)
}

func (r *responseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	return r.list(ctx, responseWithTicketQuery+` WHERE r.ticket_id=$1 ORDER BY r.created_at ASC, r.id ASC`, ticketID)
}

func (r *responseRepository) list(ctx context.Context, query string, args ...any) ([]domain.Response, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	result := []domain.Response{}
	for rows.Next() {
		resp, err := scanResponseWithTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, rows.Err()
}

func scanResponseWithTicket(row pgx.Row) (*domain.Response, error) {
	var resp domain.Response
	var ticket domain.Ticket
	if err := row.Scan(
		&resp.ID,
		&resp.TicketID,
		&resp.AuthorID,
		&resp.Content,
		&resp.CreatedAt,
		&resp.UpdatedAt,
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
	); err != nil {
		return nil, err
	}
	resp.Ticket = &ticket
	return &resp, nil
}
