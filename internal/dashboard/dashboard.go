// Package dashboard aggregates the overview numbers shown on the landing
// view: totals, per-category distribution and the next deadlines.
package dashboard

import (
	"sort"
	"time"

	"github.com/rogersnm/contractme/internal/model"
	"github.com/rogersnm/contractme/internal/store"
)

const (
	DefaultRecentDays   = 7
	DefaultUpcomingDays = 7
	nextDeadlines       = 5
	recentDocuments     = 5
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type DeadlineItem struct {
	model.Deadline
	DaysRemaining int           `json:"days_remaining"`
	Urgency       model.Urgency `json:"urgency"`
}

type Summary struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	Documents         int              `json:"documents"`
	RecentUploads     int              `json:"recent_uploads"`
	RecentDays        int              `json:"recent_days"`
	CategoriesUsed    int              `json:"categories_used"`
	UpcomingDeadlines int              `json:"upcoming_deadlines"`
	UpcomingDays      int              `json:"upcoming_days"`
	ByCategory        []CategoryCount  `json:"by_category"`
	NextDeadlines     []DeadlineItem   `json:"next_deadlines"`
	RecentDocuments   []model.Document `json:"recent_documents"`
}

type Options struct {
	RecentDays   int
	UpcomingDays int
}

func (o Options) withDefaults() Options {
	if o.RecentDays <= 0 {
		o.RecentDays = DefaultRecentDays
	}
	if o.UpcomingDays <= 0 {
		o.UpcomingDays = DefaultUpcomingDays
	}
	return o
}

// Build reads st and returns a point-in-time summary.
func Build(st *store.Store, opts Options) *Summary {
	opts = opts.withDefaults()
	now := st.Now()

	counts := st.Documents.CategoryCounts()
	byCat := make([]CategoryCount, 0, len(counts))
	total := 0
	for c, n := range counts {
		byCat = append(byCat, CategoryCount{Category: c, Count: n})
		total += n
	}
	sort.Slice(byCat, func(i, j int) bool { return byCat[i].Category < byCat[j].Category })

	recentDays := opts.RecentDays
	recent := st.Documents.Recent(total, &recentDays)

	next := st.Deadlines.Next(nextDeadlines)
	items := make([]DeadlineItem, len(next))
	for i, d := range next {
		days := model.DaysRemaining(d.Date, now)
		items[i] = DeadlineItem{Deadline: d, DaysRemaining: days, Urgency: model.Classify(days)}
	}

	return &Summary{
		GeneratedAt:       now,
		Documents:         total,
		RecentUploads:     len(recent),
		RecentDays:        opts.RecentDays,
		CategoriesUsed:    len(counts),
		UpcomingDeadlines: st.Deadlines.Upcoming(opts.UpcomingDays),
		UpcomingDays:      opts.UpcomingDays,
		ByCategory:        byCat,
		NextDeadlines:     items,
		RecentDocuments:   st.Documents.Recent(recentDocuments, nil),
	}
}
