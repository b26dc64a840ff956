package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/pkg/logger"
)

// PostingService is the member side of the posting workflow: submissions,
// the posting fee and author edits.
type PostingService struct {
	users    repository.Users
	posts    repository.MemberPosts
	txs      repository.Transactions
	tx       repository.Transactor
	fee      float64
	lifetime time.Duration
	notifier Notifier
	now      func() time.Time
	log      *logger.Logger
}

func NewPostingService(repos repository.Set, fee float64, lifetime time.Duration, n Notifier) *PostingService {
	return &PostingService{
		users:    repos.Users,
		posts:    repos.MemberPosts,
		txs:      repos.Transactions,
		tx:       repos.Tx,
		fee:      fee,
		lifetime: lifetime,
		notifier: orNop(n),
		now:      time.Now,
		log:      logger.New("posting"),
	}
}

func (s *PostingService) Fee() float64 {
	return s.fee
}

// Submit creates a pending post and charges the posting fee in one unit of
// work. Nothing is written when the balance does not cover the fee.
func (s *PostingService) Submit(ctx context.Context, user *model.User, d model.PostDraft) (*model.MemberPost, error) {
	if user.Status != model.UserActive {
		return nil, ErrAccountInactive
	}
	if err := normalizeDraft(&d); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("PostingService.Submit: %w", err)
	}
	if current.WalletBalance < s.fee {
		return nil, &InsufficientBalanceError{Required: s.fee, Available: current.WalletBalance}
	}

	now := s.now().UTC()
	post := &model.MemberPost{
		ID:        uuid.NewString(),
		Status:    model.PostPending,
		AuthorID:  user.ID,
		ExpiresAt: now.Add(s.lifetime),
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.ApplyDraft(d)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if s.fee > 0 {
			balance, err := s.users.Debit(ctx, user.ID, s.fee)
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return &InsufficientBalanceError{Required: s.fee, Available: balance}
			}
			if err != nil {
				return err
			}
			repository.OnRollback(ctx, func(ctx context.Context) error {
				_, err := s.users.Credit(ctx, user.ID, s.fee)
				return err
			})
		}
		if err := s.posts.Insert(ctx, post); err != nil {
			return err
		}
		repository.OnRollback(ctx, func(ctx context.Context) error {
			return ignoreNotFound(s.posts.Delete(ctx, post.ID))
		})
		if s.fee == 0 {
			return nil
		}
		return s.txs.Insert(ctx, &model.Transaction{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Amount:      s.fee,
			Type:        model.TxPostFee,
			Status:      model.TxCompleted,
			Description: fmt.Sprintf("Posting fee: %s", post.Title),
			ReferenceID: post.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
			CompletedAt: &now,
		})
	})
	if err != nil {
		var ib *InsufficientBalanceError
		if errors.As(err, &ib) {
			return nil, ib
		}
		return nil, fmt.Errorf("PostingService.Submit: %w", err)
	}

	s.log.Infof("post %s (%s) submitted by %s", post.ID, post.PostType, user.Username)
	s.notifier.Notify("📝 New %s post from <b>%s</b>: %s", post.PostType, user.Username, post.Title)
	return post, nil
}

func (s *PostingService) ListOwn(ctx context.Context, user *model.User, status model.PostStatus, page repository.Page) ([]model.MemberPost, error) {
	posts, err := s.posts.List(ctx, repository.MemberPostFilter{AuthorID: user.ID, Status: status, Page: page})
	if err != nil {
		return nil, fmt.Errorf("PostingService.ListOwn: %w", err)
	}
	return posts, nil
}

// GetOwn hides posts of other authors behind ErrNotFound.
func (s *PostingService) GetOwn(ctx context.Context, user *model.User, id string) (*model.MemberPost, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("PostingService.GetOwn: %w", err)
	}
	if p.AuthorID != user.ID {
		return nil, fmt.Errorf("PostingService.GetOwn: %w", ErrNotFound)
	}
	return p, nil
}

// UpdateOwn overwrites the author-editable fields and sends the post back to
// the moderation queue. The stored status is re-checked on write so an
// approval that lands in between wins.
func (s *PostingService) UpdateOwn(ctx context.Context, user *model.User, id string, d model.PostDraft) (*model.MemberPost, error) {
	p, err := s.GetOwn(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.Editable() {
		return nil, ErrPostLocked
	}
	if err := normalizeDraft(&d); err != nil {
		return nil, err
	}

	p.ApplyDraft(d)
	p.Status = model.PostPending
	p.RejectionReason = ""
	p.AdminNotes = ""
	p.UpdatedAt = s.now().UTC()

	err = s.posts.Update(ctx, p, model.PostPending, model.PostRejected)
	switch {
	case errors.Is(err, repository.ErrStateConflict):
		return nil, ErrPostLocked
	case err != nil:
		return nil, fmt.Errorf("PostingService.UpdateOwn: %w", err)
	}
	s.log.Infof("post %s updated by %s", p.ID, user.Username)
	return p, nil
}

// DeleteOwn removes a post that is not approved. The posting fee is not
// refunded.
func (s *PostingService) DeleteOwn(ctx context.Context, user *model.User, id string) error {
	p, err := s.GetOwn(ctx, user, id)
	if err != nil {
		return err
	}
	if p.Status == model.PostApproved {
		return ErrPostUndeletable
	}

	err = s.posts.Delete(ctx, id, model.PostPending, model.PostRejected, model.PostExpired)
	switch {
	case errors.Is(err, repository.ErrStateConflict):
		return ErrPostUndeletable
	case err != nil:
		return fmt.Errorf("PostingService.DeleteOwn: %w", err)
	}
	s.log.Infof("post %s deleted by %s", id, user.Username)
	return nil
}

// normalizeDraft trims the draft, fills form defaults and checks the fields
// the target listing needs.
func normalizeDraft(d *model.PostDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return invalid("title", "is required")
	}
	if !d.PostType.Valid() {
		return invalid("post_type", "must be one of property, land, sim, news")
	}
	if d.Price < 0 {
		return invalid("price", "must not be negative")
	}

	switch d.PostType {
	case model.PostProperty:
		if d.PropertyType == "" {
			d.PropertyType = model.PropertyApartment
		}
		if !d.PropertyType.Valid() {
			return invalid("property_type", "unknown property type")
		}
		if d.Area <= 0 {
			return invalid("area", "must be positive")
		}
		if strings.TrimSpace(d.City) == "" {
			return invalid("city", "is required")
		}
		if d.Bedrooms < 0 || d.Bathrooms < 0 {
			return invalid("bedrooms", "must not be negative")
		}
	case model.PostLand:
		if d.LandType == "" {
			d.LandType = model.LandResidential
		}
		if !d.LandType.Valid() {
			return invalid("land_type", "unknown land type")
		}
		if d.Area <= 0 {
			return invalid("area", "must be positive")
		}
	case model.PostSim:
		d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
		if d.PhoneNumber == "" {
			return invalid("phone_number", "is required")
		}
	}

	if d.PostType == model.PostProperty || d.PostType == model.PostLand {
		if d.PropertyStatus == "" {
			d.PropertyStatus = model.ForSale
		}
		if !d.PropertyStatus.Valid() {
			return invalid("property_status", "unknown listing status")
		}
	}
	return nil
}
