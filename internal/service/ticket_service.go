package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

type TicketInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// TicketUpdate is the admin-editable part of a ticket; nil fields are kept.
type TicketUpdate struct {
	Status     *model.TicketStatus   `json:"status"`
	Priority   *model.TicketPriority `json:"priority"`
	AdminNotes *string               `json:"admin_notes"`
	AssignedTo *string               `json:"assigned_to"`
}

type TicketService struct {
	tickets  repository.Tickets
	notifier Notifier
	now      func() time.Time
}

func NewTicketService(tickets repository.Tickets, n Notifier) *TicketService {
	return &TicketService{tickets: tickets, notifier: orNop(n), now: time.Now}
}

func (s *TicketService) Create(ctx context.Context, in TicketInput) (*model.Ticket, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("email", "is not a valid address")
	}
	now := s.now().UTC()
	t := &model.Ticket{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		Status:    model.TicketOpen,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("TicketService.Create: %w", err)
	}
	s.notifier.Notify("📨 New ticket from %s: %s", t.Name, t.Subject)
	return t, nil
}

func (s *TicketService) List(ctx context.Context, f repository.TicketFilter) ([]model.Ticket, error) {
	out, err := s.tickets.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("TicketService.List: %w", err)
	}
	return out, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("TicketService.Get: %w", err)
	}
	return t, nil
}

func (s *TicketService) Update(ctx context.Context, id string, u TicketUpdate) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("TicketService.Update: %w", err)
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return nil, invalid("status", "unknown ticket status")
		}
		t.Status = *u.Status
	}
	if u.Priority != nil {
		if !u.Priority.Valid() {
			return nil, invalid("priority", "unknown ticket priority")
		}
		t.Priority = *u.Priority
	}
	if u.AdminNotes != nil {
		t.AdminNotes = *u.AdminNotes
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("TicketService.Update: %w", err)
	}
	return t, nil
}
