package model

import (
	"fmt"
	"time"
)

// DateLayout is the layout used for deadline dates on the command line and
// in frontmatter files.
const DateLayout = "2006-01-02"

// Deadline is a dated obligation. DocumentID is a weak reference: it names
// a document without owning it and is empty when there is no link.
type Deadline struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"-"`
	Date        time.Time `json:"date" yaml:"date"`
	Category    string    `json:"category" yaml:"category"`
	DocumentID  string    `json:"document_id,omitempty" yaml:"document,omitempty"`
}

// DeadlineInput is what a caller supplies when adding a deadline.
type DeadlineInput struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"-"`
	Date        time.Time `json:"date" yaml:"date"`
	Category    string    `json:"category" yaml:"category"`
	DocumentID  string    `json:"document_id,omitempty" yaml:"document,omitempty"`
}

func (in *DeadlineInput) Validate() error {
	if in.Title == "" {
		return fmt.Errorf("deadline title is required")
	}
	if in.Date.IsZero() {
		return fmt.Errorf("deadline date is required")
	}
	return nil
}

// DateOf strips the time of day from t, keeping its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
