package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrleocoder/coderbds/internal/model"
)

var ticketColumns = []string{
	"id", "name", "email", "phone", "subject", "message", "status", "priority",
	"admin_notes", "assigned_to", "created_at", "updated_at",
}

func newMockTickets(t *testing.T) (*TicketRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTicketRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestTicketRepositoryCreate(t *testing.T) {
	repo, mock := newMockTickets(t)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs("t1", "Lan", "lan@example.com", "", "Hỏi giá", "msg", "open", "medium", "", "", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &model.Ticket{
		ID: "t1", Name: "Lan", Email: "lan@example.com", Subject: "Hỏi giá", Message: "msg",
		Status: model.TicketOpen, Priority: model.PriorityMedium, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryGetByID(t *testing.T) {
	repo, mock := newMockTickets(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow("t1", "Lan", "lan@example.com", "", "s", "m", "open", "high", "", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	got, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, got.Priority)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryListBuildsFilters(t *testing.T) {
	repo, mock := newMockTickets(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM tickets WHERE 1=1 AND status = $1 AND priority = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs("open", "high", int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow("t1", "Lan", "lan@example.com", "", "s", "m", "open", "high", "", "", now, now))

	got, err := repo.List(context.Background(), TicketFilter{
		Status: model.TicketOpen, Priority: model.PriorityHigh, Page: Page{Skip: 20, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE 1=1 ORDER BY created_at DESC OFFSET $1")).
		WithArgs(int64(0)).
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	empty, err := repo.List(context.Background(), TicketFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryCount(t *testing.T) {
	repo, mock := newMockTickets(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM tickets WHERE 1=1 AND priority = $1")).
		WithArgs("low").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), TicketFilter{Priority: model.PriorityLow})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryUpdate(t *testing.T) {
	repo, mock := newMockTickets(t)
	now := time.Now().UTC()
	tk := &model.Ticket{ID: "t1", Status: model.TicketClosed, Priority: model.PriorityLow, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET")).
		WithArgs("closed", "low", "", "", now, "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), tk))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), tk), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
