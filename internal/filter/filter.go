// Package filter holds the stateless query helpers shared by the stores and
// the views: category matching, date and recency ordering, and top-N.
package filter

import (
	"sort"

	"github.com/rogersnm/contractme/internal/model"
)

// AllCategories is the category filter that matches everything.
const AllCategories = "All"

// MatchCategory reports whether category passes filter. An empty filter is
// treated like AllCategories.
func MatchCategory(filter, category string) bool {
	if filter == "" || filter == AllCategories {
		return true
	}
	return filter == category
}

// TopN returns the first n items, or all of them when there are fewer.
func TopN[T any](items []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

// SortByDate returns a copy of deadlines ordered by date ascending. Equal
// dates keep their input order.
func SortByDate(deadlines []model.Deadline) []model.Deadline {
	out := make([]model.Deadline, len(deadlines))
	copy(out, deadlines)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// SortRecent returns a copy of docs ordered newest upload first. Equal
// timestamps keep their input order.
func SortRecent(docs []model.Document) []model.Document {
	out := make([]model.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}
