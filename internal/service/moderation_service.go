package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/pkg/logger"
)

// EnrichedPost is a member post with its author resolved for admin views.
type EnrichedPost struct {
	model.MemberPost
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// Decision is an admin verdict on a submission.
type Decision struct {
	Status          model.PostStatus `json:"status" binding:"required"`
	AdminNotes      string           `json:"admin_notes"`
	RejectionReason string           `json:"rejection_reason"`
	Featured        bool             `json:"featured"`
}

type ModerationService struct {
	users      repository.Users
	posts      repository.MemberPosts
	properties repository.Properties
	lands      repository.Lands
	sims       repository.Sims
	tx         repository.Transactor
	notifier   Notifier
	now        func() time.Time
	log        *logger.Logger
}

func NewModerationService(repos repository.Set, n Notifier) *ModerationService {
	return &ModerationService{
		users:      repos.Users,
		posts:      repos.MemberPosts,
		properties: repos.Properties,
		lands:      repos.Lands,
		sims:       repos.Sims,
		tx:         repos.Tx,
		notifier:   orNop(n),
		now:        time.Now,
		log:        logger.New("moderation"),
	}
}

func (s *ModerationService) ListPending(ctx context.Context, postType model.PostType, page repository.Page) ([]EnrichedPost, error) {
	return s.list(ctx, repository.MemberPostFilter{Status: model.PostPending, PostType: postType, Page: page})
}

func (s *ModerationService) ListAll(ctx context.Context, status model.PostStatus, postType model.PostType, page repository.Page) ([]EnrichedPost, error) {
	return s.list(ctx, repository.MemberPostFilter{Status: status, PostType: postType, Page: page})
}

func (s *ModerationService) list(ctx context.Context, f repository.MemberPostFilter) ([]EnrichedPost, error) {
	posts, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ModerationService.list: %w", err)
	}
	return s.enrich(ctx, posts)
}

func (s *ModerationService) Get(ctx context.Context, id string) (*EnrichedPost, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ModerationService.Get: %w", err)
	}
	out, err := s.enrich(ctx, []model.MemberPost{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// enrich joins author name and email in one batched user lookup.
func (s *ModerationService) enrich(ctx context.Context, posts []model.MemberPost) ([]EnrichedPost, error) {
	ids := make([]string, 0, len(posts))
	seen := map[string]bool{}
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	authors, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ModerationService.enrich: %w", err)
	}

	out := make([]EnrichedPost, 0, len(posts))
	for _, p := range posts {
		e := EnrichedPost{MemberPost: p}
		if a, ok := authors[p.AuthorID]; ok {
			e.AuthorName = a.DisplayName()
			e.AuthorEmail = a.Email
		}
		out = append(out, e)
	}
	return out, nil
}

// Decide approves or rejects a submission. Approval and materialisation
// share one unit of work. It reports changed=false when the post already
// has the requested status.
func (s *ModerationService) Decide(ctx context.Context, admin *model.User, id string, d Decision) (*model.MemberPost, bool, error) {
	if d.Status != model.PostApproved && d.Status != model.PostRejected {
		return nil, false, invalid("status", "must be approved or rejected")
	}

	var (
		post    *model.MemberPost
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = p
		if p.Status == d.Status {
			return nil
		}
		switch p.Status {
		case model.PostApproved:
			return conflict("approved posts are final")
		case model.PostExpired:
			return conflict("expired posts cannot be moderated")
		}

		from := p.Status
		now := s.now().UTC()
		p.Status = d.Status
		p.AdminNotes = d.AdminNotes
		p.UpdatedAt = now

		if d.Status == model.PostRejected {
			p.RejectionReason = d.RejectionReason
			if err := s.posts.Update(ctx, p, from); err != nil {
				return err
			}
			changed = true
			return nil
		}

		p.ApprovedBy = admin.ID
		p.ApprovedAt = &now
		p.Featured = d.Featured
		p.RejectionReason = ""
		listing, err := Materialize(p, now)
		if err != nil {
			return err
		}
		// The listing goes first; it is keyed by the post id, so a retry
		// after a failed status write replaces it.
		if err := s.publish(ctx, listing); err != nil {
			return err
		}
		repository.OnRollback(ctx, func(ctx context.Context) error {
			cur, err := s.posts.GetByID(ctx, id)
			if err == nil && cur.Status == model.PostApproved {
				return nil
			}
			return ignoreNotFound(s.unpublish(ctx, listing))
		})
		if err := s.posts.Update(ctx, p, from); err != nil {
			return err
		}
		changed = true
		return nil
	})

	if errors.Is(err, repository.ErrStateConflict) {
		// Lost a race with another decision; report it as unchanged when
		// that decision matches ours.
		cur, getErr := s.posts.GetByID(ctx, id)
		if getErr == nil && cur.Status == d.Status {
			return cur, false, nil
		}
		return nil, false, conflict("post was modified concurrently")
	}
	if err != nil {
		return nil, false, fmt.Errorf("ModerationService.Decide: %w", err)
	}

	if changed {
		s.log.Infof("post %s %s by %s", post.ID, post.Status, admin.Username)
		s.notifier.Notify("✅ Post <b>%s</b> %s by %s", post.Title, post.Status, admin.Username)
	}
	return post, changed, nil
}

func (s *ModerationService) publish(ctx context.Context, l model.Listing) error {
	switch v := l.(type) {
	case *model.Property:
		return s.properties.Upsert(ctx, v)
	case *model.Land:
		return s.lands.Upsert(ctx, v)
	case *model.Sim:
		return s.sims.Upsert(ctx, v)
	}
	return fmt.Errorf("publish: unsupported listing %T", l)
}

func (s *ModerationService) unpublish(ctx context.Context, l model.Listing) error {
	switch v := l.(type) {
	case *model.Property:
		return s.properties.Delete(ctx, v.ID)
	case *model.Land:
		return s.lands.Delete(ctx, v.ID)
	case *model.Sim:
		return s.sims.Delete(ctx, v.ID)
	}
	return fmt.Errorf("unpublish: unsupported listing %T", l)
}

// Delete removes a submission regardless of status. Materialised listings
// are independent and stay.
func (s *ModerationService) Delete(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("ModerationService.Delete: %w", err)
	}
	return nil
}
