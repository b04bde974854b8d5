package store

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rogersnm/contractme/internal/id"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/sirupsen/logrus"
)

const maxIDAttempts = 10

// Store is the in-memory document and deadline engine. Documents and
// Deadlines share one lock so a cascade delete is never observed half done.
type Store struct {
	mu        sync.RWMutex
	docs      []model.Document
	deadlines []model.Deadline
	issued    map[string]struct{}

	clock func() time.Time
	log   logrus.FieldLogger

	Documents *DocumentStore
	Deadlines *DeadlineStore
}

type Option func(*Store)

// WithClock overrides time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

func New(opts ...Option) *Store {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Store{
		issued: make(map[string]struct{}),
		clock:  time.Now,
		log:    quiet,
	}
	for _, o := range opts {
		o(s)
	}
	s.Documents = &DocumentStore{s: s}
	s.Deadlines = &DeadlineStore{s: s}
	return s
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// newIDLocked returns an id never handed out by this store before. Callers
// must hold the write lock.
func (s *Store) newIDLocked(t id.EntityType) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		nid, err := id.New(t)
		if err != nil {
			return "", err
		}
		if _, taken := s.issued[nid]; taken {
			continue
		}
		s.issued[nid] = struct{}{}
		return nid, nil
	}
	return "", fmt.Errorf("generating unique %s id: gave up after %d attempts", t, maxIDAttempts)
}

func (s *Store) docIndexLocked(docID string) int {
	if !id.Is(docID, id.Document) {
		return -1
	}
	for i := range s.docs {
		if s.docs[i].ID == docID {
			return i
		}
	}
	return -1
}

func (s *Store) deadlineIndexLocked(deadlineID string) int {
	if !id.Is(deadlineID, id.Deadline) {
		return -1
	}
	for i := range s.deadlines {
		if s.deadlines[i].ID == deadlineID {
			return i
		}
	}
	return -1
}

// removeDeadlinesForLocked drops every deadline linked to docID and returns
// how many went. Callers must hold the write lock.
func (s *Store) removeDeadlinesForLocked(docID string) int {
	kept := s.deadlines[:0]
	removed := 0
	for _, d := range s.deadlines {
		if d.DocumentID == docID {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	for i := len(kept); i < len(s.deadlines); i++ {
		s.deadlines[i] = model.Deadline{}
	}
	s.deadlines = kept
	return removed
}
