package memory

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mrleocoder/coderbds/internal/repository"
)

// sortNewest orders rows by creation time, newest first, with the id as
// tiebreak (the same order the Mongo repositories use).
func sortNewest[T any](rows []T, key func(*T) (time.Time, string)) {
	slices.SortFunc(rows, func(a, b T) int {
		ta, ia := key(&a)
		tb, ib := key(&b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		return cmp.Compare(ib, ia)
	})
}

// sortKeys are the fields a public listing can be ordered by.
type sortKeys struct {
	id      string
	created time.Time
	price   float64
	area    float64
	views   int
}

func sortListings[T any](rows []T, s repository.Sort, keys func(*T) sortKeys) {
	slices.SortFunc(rows, func(a, b T) int {
		ka, kb := keys(&a), keys(&b)
		var c int
		switch s.Field {
		case "price":
			c = cmp.Compare(ka.price, kb.price)
		case "area":
			c = cmp.Compare(ka.area, kb.area)
		case "views":
			c = cmp.Compare(ka.views, kb.views)
		default:
			c = ka.created.Compare(kb.created)
		}
		if c == 0 {
			c = cmp.Compare(ka.id, kb.id)
		}
		if !s.Asc {
			c = -c
		}
		return c
	})
}

func paginate[T any](rows []T, p repository.Page) []T {
	if p.Skip > 0 {
		if p.Skip >= int64(len(rows)) {
			return []T{}
		}
		rows = rows[p.Skip:]
	}
	if p.Limit > 0 && p.Limit < int64(len(rows)) {
		rows = rows[:p.Limit]
	}
	return rows
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}
