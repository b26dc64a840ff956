package service

import (
	"context"
	"fmt"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

type PublicStats struct {
	TotalProperties   int64 `json:"total_properties"`
	PropertiesForSale int64 `json:"properties_for_sale"`
	PropertiesForRent int64 `json:"properties_for_rent"`
	TotalLands        int64 `json:"total_lands"`
	TotalSims         int64 `json:"total_sims"`
	TotalNewsArticles int64 `json:"total_news_articles"`
}

type DashboardStats struct {
	PublicStats
	TotalMembers    int64 `json:"total_members"`
	PendingPosts    int64 `json:"pending_posts"`
	PendingDeposits int64 `json:"pending_deposits"`
	OpenTickets     int64 `json:"open_tickets"`
}

type StatsService struct {
	repos repository.Set
}

func NewStatsService(repos repository.Set) *StatsService {
	return &StatsService{repos: repos}
}

func (s *StatsService) Public(ctx context.Context) (*PublicStats, error) {
	published := true
	var st PublicStats
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.TotalProperties, func() (int64, error) {
			return s.repos.Properties.Count(ctx, repository.PropertyFilter{})
		}},
		{&st.PropertiesForSale, func() (int64, error) {
			return s.repos.Properties.Count(ctx, repository.PropertyFilter{Status: model.ForSale})
		}},
		{&st.PropertiesForRent, func() (int64, error) {
			return s.repos.Properties.Count(ctx, repository.PropertyFilter{Status: model.ForRent})
		}},
		{&st.TotalLands, func() (int64, error) {
			return s.repos.Lands.Count(ctx, repository.LandFilter{})
		}},
		{&st.TotalSims, func() (int64, error) {
			return s.repos.Sims.Count(ctx, repository.SimFilter{})
		}},
		{&st.TotalNewsArticles, func() (int64, error) {
			return s.repos.News.Count(ctx, repository.NewsFilter{Published: &published})
		}},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("StatsService.Public: %w", err)
		}
		*c.dst = n
	}
	return &st, nil
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	pub, err := s.Public(ctx)
	if err != nil {
		return nil, err
	}
	st := DashboardStats{PublicStats: *pub}

	if st.TotalMembers, err = s.repos.Users.Count(ctx, repository.UserFilter{Role: model.RoleMember}); err != nil {
		return nil, fmt.Errorf("StatsService.Dashboard: %w", err)
	}
	if st.PendingPosts, err = s.repos.MemberPosts.Count(ctx, repository.MemberPostFilter{Status: model.PostPending}); err != nil {
		return nil, fmt.Errorf("StatsService.Dashboard: %w", err)
	}
	pendingDeposits := repository.TransactionFilter{Type: model.TxDeposit, Status: model.TxPending}
	if st.PendingDeposits, err = s.repos.Transactions.Count(ctx, pendingDeposits); err != nil {
		return nil, fmt.Errorf("StatsService.Dashboard: %w", err)
	}
	if st.OpenTickets, err = s.repos.Tickets.Count(ctx, repository.TicketFilter{Status: model.TicketOpen}); err != nil {
		return nil, fmt.Errorf("StatsService.Dashboard: %w", err)
	}
	return &st, nil
}
