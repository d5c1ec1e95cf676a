package store

import (
	"strings"

	"github.com/h0rv/prep/internal/domain"
)

// FilterKind selects which field a filter matches against.
type FilterKind string

const (
	FilterAll        FilterKind = "all"
	FilterDifficulty FilterKind = "difficulty"
	FilterCategory   FilterKind = "category"
	FilterSearch     FilterKind = "search"
)

// FilterState is the single active filter of a page. Setting a new one
// overwrites the old.
type FilterState struct {
	Kind  FilterKind
	Value string
}

// IsActive reports whether the filter excludes anything.
func (f FilterState) IsActive() bool {
	return MatchFilter(f) != nil
}

// Predicate decides whether an item is part of a view.
type Predicate func(domain.Item) bool

// MatchFilter builds the predicate for f. It returns nil (match everything)
// for the all kind, the reserved "all" value and an empty search keyword.
//
// Difficulty and category are exact matches. Search is a case-insensitive
// substring match on the title or any tag.
func MatchFilter(f FilterState) Predicate {
	switch f.Kind {
	case FilterDifficulty:
		if f.Value == "" || f.Value == domain.FilterAll {
			return nil
		}
		return func(it domain.Item) bool { return it.DifficultyText() == f.Value }
	case FilterCategory:
		if f.Value == "" || f.Value == domain.FilterAll {
			return nil
		}
		return func(it domain.Item) bool { return it.CategoryText() == f.Value }
	case FilterSearch:
		kw := strings.ToLower(strings.TrimSpace(f.Value))
		if kw == "" {
			return nil
		}
		return func(it domain.Item) bool { return matchesKeyword(it, kw) }
	default:
		return nil
	}
}

func matchesKeyword(it domain.Item, kw string) bool {
	if strings.Contains(strings.ToLower(it.TitleText()), kw) {
		return true
	}
	for _, tag := range it.TagList() {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}
