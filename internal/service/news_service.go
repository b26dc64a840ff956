package service

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
)

// Slugify folds Vietnamese diacritics to ASCII and joins words with "-":
// "Thị trường Bất động sản 2024" -> "thi-truong-bat-dong-san-2024".
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func NewNewsCatalog(store repository.NewsArticles) *Catalog[model.NewsArticle, repository.NewsFilter] {
	return &Catalog[model.NewsArticle, repository.NewsFilter]{
		name:  "NewsCatalog",
		store: store,
		now:   time.Now,
		init: func(a *model.NewsArticle, id string, now time.Time) {
			a.ID, a.Views, a.CreatedAt, a.UpdatedAt = id, 0, now, now
		},
		carry: func(a, prev *model.NewsArticle, now time.Time) {
			a.ID, a.Views, a.CreatedAt, a.UpdatedAt = prev.ID, prev.Views, prev.CreatedAt, now
		},
		prepare: func(a *model.NewsArticle) error {
			a.Title = strings.TrimSpace(a.Title)
			if a.Title == "" {
				return invalid("title", "is required")
			}
			if strings.TrimSpace(a.Content) == "" {
				return invalid("content", "is required")
			}
			if a.Slug == "" {
				a.Slug = Slugify(a.Title)
			}
			if a.Category == "" {
				a.Category = "general"
			}
			if a.Tags == nil {
				a.Tags = []string{}
			}
			return nil
		},
	}
}
