package store

import (
	"sync"
	"testing"
	"time"

	"github.com/rogersnm/contractme/internal/filter"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: testNow}
	return New(WithClock(clk.Now)), clk
}

func addDoc(t *testing.T, s *Store, name, category string) string {
	t.Helper()
	did, err := s.Documents.Add(model.DocumentMeta{Name: name, Category: category, ContentRef: name})
	require.NoError(t, err)
	return did
}

func addDeadline(t *testing.T, s *Store, title string, inDays int, category, docID string) string {
	t.Helper()
	did, err := s.Deadlines.Add(model.DeadlineInput{
		Title:      title,
		Date:       model.DateOf(testNow).AddDate(0, 0, inDays),
		Category:   category,
		DocumentID: docID,
	})
	require.NoError(t, err)
	return did
}

// --- Document tests ---

func TestDocuments_Add(t *testing.T) {
	s, _ := newTestStore(t)
	did, err := s.Documents.Add(model.DocumentMeta{
		Name: "contratto.pdf", Category: "Casa", ContentRef: "/data/c.pdf",
		MimeType: "application/pdf", SizeBytes: 2048,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, did)

	d, err := s.Documents.Get(did)
	require.NoError(t, err)
	assert.Equal(t, "contratto.pdf", d.Name)
	assert.Equal(t, "Casa", d.Category)
	assert.Equal(t, "/data/c.pdf", d.ContentRef)
	assert.Equal(t, "application/pdf", d.MimeType)
	assert.Equal(t, int64(2048), d.SizeBytes)
	assert.Equal(t, testNow, d.UploadedAt)
}

func TestDocuments_Add_EmptyCategory(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Documents.Add(model.DocumentMeta{Name: "x.pdf"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Equal(t, 0, s.Documents.Count())
}

func TestDocuments_Add_EmptyName(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Documents.Add(model.DocumentMeta{Category: "Casa"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, s.Documents.Count())
}

func TestDocuments_Add_UnregisteredCategoryAccepted(t *testing.T) {
	s, _ := newTestStore(t)
	addDoc(t, s, "x.pdf", "Hobby")
	assert.Len(t, s.Documents.List("Hobby"), 1)
}

func TestDocuments_IDsUnique(t *testing.T) {
	s, _ := newTestStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		did := addDoc(t, s, "d", "Casa")
		assert.False(t, seen[did], "duplicate id %s", did)
		seen[did] = true
	}
}

func TestDocuments_Get_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Documents.Get("DOC-ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocuments_Remove_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Documents.Remove("DOC-ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocuments_List_InsertionOrderAndFilter(t *testing.T) {
	s, _ := newTestStore(t)
	a := addDoc(t, s, "a", "Casa")
	b := addDoc(t, s, "b", "Lavoro")
	c := addDoc(t, s, "c", "Casa")

	all := s.Documents.List(filter.AllCategories)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a, b, c}, []string{all[0].ID, all[1].ID, all[2].ID})

	casa := s.Documents.List("Casa")
	require.Len(t, casa, 2)
	assert.Equal(t, a, casa[0].ID)
	assert.Equal(t, c, casa[1].ID)

	assert.Empty(t, s.Documents.List("Viaggi"))
}

func TestDocuments_Recent_NewestFirstAndBounded(t *testing.T) {
	s, clk := newTestStore(t)
	var ids []string
	for i := 0; i < 8; i++ {
		ids = append(ids, addDoc(t, s, "d", "Casa"))
		clk.Advance(time.Hour)
	}

	got := s.Documents.Recent(5, nil)
	require.Len(t, got, 5)
	assert.Equal(t, ids[7], got[0].ID)
	assert.Equal(t, ids[3], got[4].ID)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].UploadedAt.After(got[i-1].UploadedAt))
	}
}

func TestDocuments_Recent_TiesKeepInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	a := addDoc(t, s, "a", "Casa")
	b := addDoc(t, s, "b", "Casa")

	got := s.Documents.Recent(5, nil)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, b, got[1].ID)
}

func TestDocuments_Recent_WithinDays(t *testing.T) {
	s, clk := newTestStore(t)
	old := addDoc(t, s, "old", "Casa")
	clk.Advance(10 * 24 * time.Hour)
	fresh := addDoc(t, s, "fresh", "Casa")
	clk.Advance(time.Hour)

	week := 7
	got := s.Documents.Recent(5, &week)
	require.Len(t, got, 1)
	assert.Equal(t, fresh, got[0].ID)

	month := 30
	got = s.Documents.Recent(5, &month)
	require.Len(t, got, 2)
	assert.Equal(t, old, got[1].ID)
}

func TestDocuments_CategoryCounts(t *testing.T) {
	s, _ := newTestStore(t)
	addDoc(t, s, "a", "Casa")
	addDoc(t, s, "b", "Casa")
	addDoc(t, s, "c", "Salute")

	assert.Equal(t, map[string]int{"Casa": 2, "Salute": 1}, s.Documents.CategoryCounts())
}

// --- Deadline tests ---

func TestDeadlines_Add(t *testing.T) {
	s, _ := newTestStore(t)
	did, err := s.Deadlines.Add(model.DeadlineInput{
		Title:       "Bolletta",
		Description: "ultimo bimestre",
		Date:        time.Date(2026, 3, 17, 15, 45, 0, 0, time.UTC),
		Category:    "Casa",
	})
	require.NoError(t, err)

	d, err := s.Deadlines.Get(did)
	require.NoError(t, err)
	assert.Equal(t, "Bolletta", d.Title)
	assert.Equal(t, "ultimo bimestre", d.Description)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Empty(t, d.DocumentID)
	assert.False(t, s.Deadlines.Linked(d))
}

func TestDeadlines_Add_RequiredFields(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Deadlines.Add(model.DeadlineInput{Date: testNow, Category: "Casa"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Deadlines.Add(model.DeadlineInput{Title: "x", Category: "Casa"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Deadlines.Add(model.DeadlineInput{Title: "x", Date: testNow})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	assert.Equal(t, 0, s.Deadlines.Count())
}

func TestDeadlines_Add_InvalidReference(t *testing.T) {
	s, _ := newTestStore(t)
	addDeadline(t, s, "existing", 3, "Casa", "")

	_, err := s.Deadlines.Add(model.DeadlineInput{
		Title: "orphan", Date: testNow, Category: "Casa", DocumentID: "DOC-ZZZZZZZZ",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, 1, s.Deadlines.Count())
}

func TestDeadlines_Add_LinkedToDocument(t *testing.T) {
	s, _ := newTestStore(t)
	doc := addDoc(t, s, "contratto.pdf", "Casa")
	did := addDeadline(t, s, "Rinnovo", 15, "Casa", doc)

	d, err := s.Deadlines.Get(did)
	require.NoError(t, err)
	assert.Equal(t, doc, d.DocumentID)
	assert.True(t, s.Deadlines.Linked(d))
}

func TestDeadlines_Remove(t *testing.T) {
	s, _ := newTestStore(t)
	did := addDeadline(t, s, "x", 1, "Casa", "")

	require.NoError(t, s.Deadlines.Remove(did))
	assert.Equal(t, 0, s.Deadlines.Count())
	assert.ErrorIs(t, s.Deadlines.Remove(did), ErrNotFound)
}

func TestDeadlines_Remove_SameTitleRemovesOnlyOne(t *testing.T) {
	s, _ := newTestStore(t)
	first := addDeadline(t, s, "Bolletta", 1, "Casa", "")
	second := addDeadline(t, s, "Bolletta", 1, "Casa", "")

	require.NoError(t, s.Deadlines.Remove(first))
	left := s.Deadlines.List(filter.AllCategories)
	require.Len(t, left, 1)
	assert.Equal(t, second, left[0].ID)
}

func TestDeadlines_RemoveAllFor_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	doc := addDoc(t, s, "d", "Casa")
	addDeadline(t, s, "a", 1, "Casa", doc)
	addDeadline(t, s, "b", 2, "Casa", doc)
	addDeadline(t, s, "c", 3, "Casa", "")

	assert.Equal(t, 2, s.Deadlines.RemoveAllFor(doc))
	assert.Equal(t, 0, s.Deadlines.RemoveAllFor(doc))
	assert.Equal(t, 0, s.Deadlines.RemoveAllFor("DOC-NONE2345"))
	assert.Equal(t, 1, s.Deadlines.Count())
}

func TestDeadlines_List_Filter(t *testing.T) {
	s, _ := newTestStore(t)
	addDeadline(t, s, "a", 1, "Casa", "")
	addDeadline(t, s, "b", 2, "Salute", "")

	assert.Len(t, s.Deadlines.List(filter.AllCategories), 2)
	casa := s.Deadlines.List("Casa")
	require.Len(t, casa, 1)
	assert.Equal(t, "a", casa[0].Title)
}

func TestDeadlines_SortedByDate_Stable(t *testing.T) {
	s, _ := newTestStore(t)
	late := addDeadline(t, s, "late", 20, "Casa", "")
	same1 := addDeadline(t, s, "same1", 5, "Casa", "")
	same2 := addDeadline(t, s, "same2", 5, "Casa", "")

	got := s.Deadlines.SortedByDate(s.Deadlines.List(filter.AllCategories))
	require.Len(t, got, 3)
	assert.Equal(t, []string{same1, same2, late}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDeadlines_Upcoming_IncludesPastDue(t *testing.T) {
	s, _ := newTestStore(t)
	addDeadline(t, s, "past", -3, "Casa", "")
	addDeadline(t, s, "soon", 5, "Casa", "")
	addDeadline(t, s, "later", 30, "Casa", "")

	assert.Equal(t, 2, s.Deadlines.Upcoming(7))
	assert.Equal(t, 3, s.Deadlines.Upcoming(60))
	assert.Equal(t, 1, s.Deadlines.Upcoming(-2))
}

func TestDeadlines_ForMonth(t *testing.T) {
	s, _ := newTestStore(t)
	in := func(y int, m time.Month, d int) {
		_, err := s.Deadlines.Add(model.DeadlineInput{Title: "x", Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Category: "Casa"})
		require.NoError(t, err)
	}
	in(2026, time.March, 1)
	in(2026, time.March, 31)
	in(2026, time.April, 1)
	in(2025, time.March, 15)

	assert.Len(t, s.Deadlines.ForMonth(2026, time.March), 2)
	assert.Len(t, s.Deadlines.ForMonth(2025, time.March), 1)
	assert.Empty(t, s.Deadlines.ForMonth(2026, time.February))
}

func TestDeadlines_Next(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 10; i > 0; i-- {
		addDeadline(t, s, "d", i, "Casa", "")
	}
	next := s.Deadlines.Next(5)
	require.Len(t, next, 5)
	assert.Equal(t, model.DateOf(testNow).AddDate(0, 0, 1), next[0].Date)
}

// --- Cascade ---

func TestCascade_RemovesLinkedDeadlines(t *testing.T) {
	s, _ := newTestStore(t)
	a := addDoc(t, s, "a", "Casa")
	b := addDoc(t, s, "b", "Casa")
	addDeadline(t, s, "a1", 1, "Casa", a)
	addDeadline(t, s, "a2", 2, "Casa", a)
	keep := addDeadline(t, s, "b1", 3, "Casa", b)
	free := addDeadline(t, s, "free", 4, "Casa", "")

	removed, err := s.Documents.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, d := range s.Deadlines.List(filter.AllCategories) {
		assert.NotEqual(t, a, d.DocumentID)
	}
	left := s.Deadlines.List(filter.AllCategories)
	require.Len(t, left, 2)
	assert.Equal(t, keep, left[0].ID)
	assert.Equal(t, free, left[1].ID)
}

func TestCascade_NoLinkedDeadlines(t *testing.T) {
	s, _ := newTestStore(t)
	a := addDoc(t, s, "a", "Casa")
	addDeadline(t, s, "free", 4, "Casa", "")

	removed, err := s.Documents.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, s.Deadlines.Count())
}

func TestScenario_RenewalLinkedToDocument(t *testing.T) {
	s, _ := newTestStore(t)
	a := addDoc(t, s, "A", "Casa")
	addDeadline(t, s, "Rinnovo contratto", 15, "Casa", a)

	assert.Equal(t, 0, s.Deadlines.Upcoming(7))
	assert.Equal(t, 1, s.Deadlines.Upcoming(20))

	removed, err := s.Documents.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	for _, d := range s.Deadlines.List(filter.AllCategories) {
		assert.NotEqual(t, "Rinnovo contratto", d.Title)
	}
}

func TestConcurrent_ReadsNeverSeeDanglingLinks(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, d := range s.Deadlines.List(filter.AllCategories) {
				if d.DocumentID != "" {
					assert.True(t, s.Deadlines.Linked(d) || docGone(s, d.DocumentID))
				}
			}
		}
	}()

	for i := 0; i < 100; i++ {
		doc := addDoc(t, s, "d", "Casa")
		addDeadline(t, s, "a", 1, "Casa", doc)
		addDeadline(t, s, "b", 2, "Casa", doc)
		removed, err := s.Documents.Remove(doc)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
	}
	close(stop)
	wg.Wait()
	assert.Equal(t, 0, s.Deadlines.Count())
}

func docGone(s *Store, docID string) bool {
	_, err := s.Documents.Get(docID)
	return err != nil
}

func TestRemove_ClearsVacatedSlots(t *testing.T) {
	s, _ := newTestStore(t)
	first := addDoc(t, s, "primo", "Casa")
	addDoc(t, s, "secondo", "Casa")
	dl := addDeadline(t, s, "a", 1, "Casa", "")
	addDeadline(t, s, "b", 2, "Casa", "")

	_, err := s.Documents.Remove(first)
	require.NoError(t, err)
	require.NoError(t, s.Deadlines.Remove(dl))

	for _, d := range s.docs[len(s.docs):cap(s.docs)] {
		assert.Equal(t, model.Document{}, d)
	}
	for _, d := range s.deadlines[len(s.deadlines):cap(s.deadlines)] {
		assert.Equal(t, model.Deadline{}, d)
	}
	assert.Greater(t, cap(s.docs), len(s.docs))
}
