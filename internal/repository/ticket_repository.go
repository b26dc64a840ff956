package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mrleocoder/coderbds/internal/model"
)

// TicketRepository keeps support tickets in PostgreSQL.
type TicketRepository struct {
	DB *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *model.Ticket) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO tickets
            (id, name, email, phone, subject, message, status, priority, admin_notes, assigned_to, created_at, updated_at)
        VALUES
            (:id, :name, :email, :phone, :subject, :message, :status, :priority, :admin_notes, :assigned_to, :created_at, :updated_at)
    `, t)
	if err != nil {
		return fmt.Errorf("TicketRepository.Create: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.DB.GetContext(ctx, &t, `SELECT * FROM tickets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("TicketRepository.GetByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("TicketRepository.GetByID: %w", err)
	}
	return &t, nil
}

func ticketWhere(f TicketFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, string(f.Status))
		idx++
	}
	if f.Priority != "" {
		where += fmt.Sprintf(" AND priority = $%d", idx)
		args = append(args, string(f.Priority))
	}
	return where, args
}

func (r *TicketRepository) List(ctx context.Context, f TicketFilter) ([]model.Ticket, error) {
	where, args := ticketWhere(f)
	query := "SELECT * FROM tickets" + where + " ORDER BY created_at DESC"
	idx := len(args) + 1
	if f.Page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, f.Page.Limit)
		idx++
	}
	query += fmt.Sprintf(" OFFSET $%d", idx)
	args = append(args, f.Page.Skip)

	tickets := []model.Ticket{}
	if err := r.DB.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("TicketRepository.List: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Count(ctx context.Context, f TicketFilter) (int64, error) {
	where, args := ticketWhere(f)
	var n int64
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(1) FROM tickets"+where, args...); err != nil {
		return 0, fmt.Errorf("TicketRepository.Count: %w", err)
	}
	return n, nil
}

func (r *TicketRepository) Update(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.NamedExecContext(ctx, `
        UPDATE tickets SET
            status      = :status,
            priority    = :priority,
            admin_notes = :admin_notes,
            assigned_to = :assigned_to,
            updated_at  = :updated_at
        WHERE id = :id
    `, t)
	if err != nil {
		return fmt.Errorf("TicketRepository.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("TicketRepository.Update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("TicketRepository.Update: %w", ErrNotFound)
	}
	return nil
}
