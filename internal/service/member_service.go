package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/pkg/logger"
)

// MemberUpdate holds the admin-editable profile fields; nil fields are kept.
// Balances are not editable here.
type MemberUpdate struct {
	FullName      *string           `json:"full_name"`
	Phone         *string           `json:"phone"`
	Address       *string           `json:"address"`
	EmailVerified *bool             `json:"email_verified"`
	AdminNotes    *string           `json:"admin_notes"`
	Status        *model.UserStatus `json:"status"`
}

type MemberService struct {
	users repository.Users
	now   func() time.Time
	log   *logger.Logger
}

func NewMemberService(users repository.Users) *MemberService {
	return &MemberService{users: users, now: time.Now, log: logger.New("members")}
}

func (s *MemberService) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	out, err := s.users.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("MemberService.List: %w", err)
	}
	return out, nil
}

func (s *MemberService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("MemberService.Get: %w", err)
	}
	return u, nil
}

func (s *MemberService) Update(ctx context.Context, id string, in MemberUpdate) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("MemberService.Update: %w", err)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("status", "must be active, suspended or pending")
	}
	setIf(&u.FullName, in.FullName)
	setIf(&u.Phone, in.Phone)
	setIf(&u.Address, in.Address)
	setIf(&u.AdminNotes, in.AdminNotes)
	setIf(&u.EmailVerified, in.EmailVerified)
	setIf(&u.Status, in.Status)
	u.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("MemberService.Update: %w", err)
	}
	return u, nil
}

func (s *MemberService) SetStatus(ctx context.Context, admin *model.User, id string, status model.UserStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be active, suspended or pending")
	}
	if admin.ID == id && status != model.UserActive {
		return nil, invalid("status", "admins cannot deactivate themselves")
	}
	u, err := s.Update(ctx, id, MemberUpdate{Status: &status})
	if err != nil {
		return nil, err
	}
	s.log.Infof("member %s set to %s by %s", u.Username, status, admin.Username)
	return u, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
