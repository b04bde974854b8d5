package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/rogersnm/contractme/internal/filter"
	"github.com/rogersnm/contractme/internal/id"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/sirupsen/logrus"
)

// DeadlineStore owns the deadline collection and enforces the optional
// link to a document.
type DeadlineStore struct {
	s *Store
}

// Add stores a new deadline and returns its id. A non-empty DocumentID must
// name a document currently in the store.
func (dls *DeadlineStore) Add(in model.DeadlineInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := model.ValidateCategory(in.Category); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	s := dls.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.DocumentID != "" && s.docIndexLocked(in.DocumentID) < 0 {
		return "", fmt.Errorf("document %s: %w", in.DocumentID, ErrInvalidReference)
	}

	did, err := s.newIDLocked(id.Deadline)
	if err != nil {
		return "", err
	}
	s.deadlines = append(s.deadlines, model.Deadline{
		ID:          did,
		Title:       in.Title,
		Description: in.Description,
		Date:        model.DateOf(in.Date),
		Category:    in.Category,
		DocumentID:  in.DocumentID,
	})
	s.log.WithFields(logrus.Fields{"deadline": did, "document": in.DocumentID}).Debug("deadline added")
	return did, nil
}

func (dls *DeadlineStore) Remove(deadlineID string) error {
	s := dls.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.deadlineIndexLocked(deadlineID)
	if i < 0 {
		return fmt.Errorf("deadline %s: %w", deadlineID, ErrNotFound)
	}
	s.deadlines = slices.Delete(s.deadlines, i, i+1)
	return nil
}

// RemoveAllFor deletes every deadline linked to docID. Removing from a store
// with no match is a no-op.
func (dls *DeadlineStore) RemoveAllFor(docID string) int {
	s := dls.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeDeadlinesForLocked(docID)
}

func (dls *DeadlineStore) Get(deadlineID string) (model.Deadline, error) {
	s := dls.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.deadlineIndexLocked(deadlineID)
	if i < 0 {
		return model.Deadline{}, fmt.Errorf("deadline %s: %w", deadlineID, ErrNotFound)
	}
	return s.deadlines[i], nil
}

// List returns deadlines in insertion order, optionally restricted to one
// category.
func (dls *DeadlineStore) List(category string) []model.Deadline {
	s := dls.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Deadline{}
	for _, d := range s.deadlines {
		if filter.MatchCategory(category, d.Category) {
			out = append(out, d)
		}
	}
	return out
}

// SortedByDate orders deadlines by date, keeping equal dates in input order.
func (dls *DeadlineStore) SortedByDate(deadlines []model.Deadline) []model.Deadline {
	return filter.SortByDate(deadlines)
}

// Upcoming counts deadlines due within withinDays, past-due ones included.
func (dls *DeadlineStore) Upcoming(withinDays int) int {
	s := dls.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	n := 0
	for _, d := range s.deadlines {
		if model.DaysRemaining(d.Date, now) <= withinDays {
			n++
		}
	}
	return n
}

// ForMonth returns the deadlines dated in the given year and month, in
// insertion order.
func (dls *DeadlineStore) ForMonth(year int, month time.Month) []model.Deadline {
	s := dls.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Deadline{}
	for _, d := range s.deadlines {
		if d.Date.Year() == year && d.Date.Month() == month {
			out = append(out, d)
		}
	}
	return out
}

// Next returns the n earliest deadlines.
func (dls *DeadlineStore) Next(n int) []model.Deadline {
	return filter.TopN(dls.SortedByDate(dls.List(filter.AllCategories)), n)
}

// Linked reports whether d points at a document that still exists.
func (dls *DeadlineStore) Linked(d model.Deadline) bool {
	if d.DocumentID == "" {
		return false
	}
	s := dls.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docIndexLocked(d.DocumentID) >= 0
}

func (dls *DeadlineStore) Count() int {
	dls.s.mu.RLock()
	defer dls.s.mu.RUnlock()
	return len(dls.s.deadlines)
}
