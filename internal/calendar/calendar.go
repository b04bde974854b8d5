// Package calendar lays out a month as Monday-first week rows annotated
// with per-day deadline counts.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rogersnm/contractme/internal/model"
)

const daysPerWeek = 7

var ErrInvalidMonth = errors.New("invalid month")

// DeadlineSource is the slice of the deadline store the builder reads.
type DeadlineSource interface {
	ForMonth(year int, month time.Month) []model.Deadline
}

// Cell is one slot of the grid. Padding cells have Empty set and Day 0.
type Cell struct {
	Day           int  `json:"day"`
	Empty         bool `json:"empty"`
	IsToday       bool `json:"is_today"`
	DeadlineCount int  `json:"deadline_count"`
}

// Grid is a month laid out in rows of exactly seven cells, Monday first.
type Grid struct {
	Year        int              `json:"year"`
	Month       time.Month       `json:"month"`
	DaysInMonth int              `json:"days_in_month"`
	Offset      int              `json:"offset"`
	Weeks       [][]Cell         `json:"weeks"`
	Deadlines   []model.Deadline `json:"deadlines"`
}

// Cells flattens the grid row by row.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.Weeks)*daysPerWeek)
	for _, w := range g.Weeks {
		out = append(out, w...)
	}
	return out
}

// DayCells returns only the non-padding cells.
func (g *Grid) DayCells() []Cell {
	var out []Cell
	for _, c := range g.Cells() {
		if !c.Empty {
			out = append(out, c)
		}
	}
	return out
}

type Builder struct {
	Deadlines DeadlineSource
	Now       func() time.Time
}

func NewBuilder(src DeadlineSource, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{Deadlines: src, Now: now}
}

// Build produces the grid for year/month without touching the store.
func (b *Builder) Build(year, month int) (*Grid, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	m := time.Month(month)

	firstDay := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	var lastDay time.Time
	if m == time.December {
		lastDay = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	} else {
		lastDay = time.Date(year, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}
	daysInMonth := lastDay.Day()
	offset := mondayFirst(firstDay.Weekday())

	deadlines := b.Deadlines.ForMonth(year, m)
	byDay := make(map[int]int, len(deadlines))
	for _, d := range deadlines {
		byDay[d.Date.Day()]++
	}
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].Date.Day() < deadlines[j].Date.Day()
	})

	ty, tm, td := b.Now().Date()

	total := offset + daysInMonth
	if r := total % daysPerWeek; r != 0 {
		total += daysPerWeek - r
	}
	cells := make([]Cell, total)
	for i := range cells {
		day := i - offset + 1
		if day < 1 || day > daysInMonth {
			cells[i] = Cell{Empty: true}
			continue
		}
		cells[i] = Cell{
			Day:           day,
			IsToday:       ty == year && tm == m && td == day,
			DeadlineCount: byDay[day],
		}
	}

	weeks := make([][]Cell, 0, total/daysPerWeek)
	for i := 0; i < total; i += daysPerWeek {
		weeks = append(weeks, cells[i:i+daysPerWeek])
	}

	return &Grid{
		Year:        year,
		Month:       m,
		DaysInMonth: daysInMonth,
		Offset:      offset,
		Weeks:       weeks,
		Deadlines:   deadlines,
	}, nil
}

// mondayFirst maps time.Weekday (Sunday=0) to Monday=0 ... Sunday=6.
func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % daysPerWeek
}
