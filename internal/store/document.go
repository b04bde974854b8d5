package store

import (
	"fmt"
	"slices"

	"github.com/rogersnm/contractme/internal/filter"
	"github.com/rogersnm/contractme/internal/id"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/sirupsen/logrus"
)

// DocumentStore owns the document collection.
type DocumentStore struct {
	s *Store
}

// Add stores a new document and returns its id.
func (ds *DocumentStore) Add(meta model.DocumentMeta) (string, error) {
	if err := model.ValidateCategory(meta.Category); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	if err := meta.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s := ds.s
	s.mu.Lock()
	defer s.mu.Unlock()

	did, err := s.newIDLocked(id.Document)
	if err != nil {
		return "", err
	}
	s.docs = append(s.docs, model.Document{
		ID:         did,
		Name:       meta.Name,
		ContentRef: meta.ContentRef,
		Category:   meta.Category,
		UploadedAt: s.clock(),
		MimeType:   meta.MimeType,
		SizeBytes:  meta.SizeBytes,
	})
	s.log.WithFields(logrus.Fields{"document": did, "category": meta.Category}).Debug("document added")
	return did, nil
}

// Remove deletes a document together with every deadline linked to it and
// returns how many deadlines were removed.
func (ds *DocumentStore) Remove(docID string) (int, error) {
	s := ds.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.docIndexLocked(docID)
	if i < 0 {
		return 0, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	removed := s.removeDeadlinesForLocked(docID)

	s.log.WithFields(logrus.Fields{"document": docID, "removed_deadlines": removed}).Debug("document removed")
	return removed, nil
}

func (ds *DocumentStore) Get(docID string) (model.Document, error) {
	s := ds.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.docIndexLocked(docID)
	if i < 0 {
		return model.Document{}, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return s.docs[i], nil
}

// List returns documents in insertion order, optionally restricted to one
// category. Pass filter.AllCategories for everything.
func (ds *DocumentStore) List(category string) []model.Document {
	s := ds.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Document{}
	for _, d := range s.docs {
		if filter.MatchCategory(category, d.Category) {
			out = append(out, d)
		}
	}
	return out
}

// Recent returns up to limit documents, newest upload first. When
// withinDays is set only documents uploaded at most that many days ago are
// considered.
func (ds *DocumentStore) Recent(limit int, withinDays *int) []model.Document {
	s := ds.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	candidates := make([]model.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if withinDays != nil && model.DaysRemaining(now, d.UploadedAt) > *withinDays {
			continue
		}
		candidates = append(candidates, d)
	}
	return filter.TopN(filter.SortRecent(candidates), limit)
}

func (ds *DocumentStore) Count() int {
	ds.s.mu.RLock()
	defer ds.s.mu.RUnlock()
	return len(ds.s.docs)
}

// CategoryCounts returns the number of documents per category.
func (ds *DocumentStore) CategoryCounts() map[string]int {
	s := ds.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, d := range s.docs {
		counts[d.Category]++
	}
	return counts
}
