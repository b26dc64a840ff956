package memory

import (
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
)

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func cloneUser(u model.User) model.User {
	u.LastLogin = cloneTime(u.LastLogin)
	return u
}

func cloneTransaction(t model.Transaction) model.Transaction {
	t.CompletedAt = cloneTime(t.CompletedAt)
	return t
}

func cloneMemberPost(p model.MemberPost) model.MemberPost {
	p.Images = cloneStrings(p.Images)
	p.Features = cloneStrings(p.Features)
	p.ApprovedAt = cloneTime(p.ApprovedAt)
	return p
}

func cloneProperty(p model.Property) model.Property {
	p.Images = cloneStrings(p.Images)
	p.PricePerSqm = cloneFloat(p.PricePerSqm)
	p.Latitude = cloneFloat(p.Latitude)
	p.Longitude = cloneFloat(p.Longitude)
	return p
}

func cloneLand(l model.Land) model.Land {
	l.Images = cloneStrings(l.Images)
	l.PricePerSqm = cloneFloat(l.PricePerSqm)
	return l
}

func cloneSim(s model.Sim) model.Sim {
	s.Features = cloneStrings(s.Features)
	return s
}

func cloneNews(a model.NewsArticle) model.NewsArticle {
	a.Tags = cloneStrings(a.Tags)
	return a
}
