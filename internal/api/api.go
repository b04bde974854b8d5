// Package api holds the JSON shapes exchanged between the HTTP server and
// its client.
package api

import (
	"errors"
	"time"

	"github.com/rogersnm/contractme/internal/model"
	"github.com/rogersnm/contractme/internal/store"
)

const BasePath = "/api/v1"

// Error codes carried in ErrorBody.Code.
const (
	CodeNotFound         = "not_found"
	CodeInvalidInput     = "invalid_input"
	CodeInvalidCategory  = "invalid_category"
	CodeInvalidReference = "invalid_reference"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal"
)

type Envelope[T any] struct {
	Data T `json:"data"`
}

type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewError(code, message string) ErrorBody {
	var e ErrorBody
	e.Error.Code = code
	e.Error.Message = message
	return e
}

// CodeFor picks the wire code for a store error.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, store.ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, store.ErrInvalidCategory):
		return CodeInvalidCategory
	case errors.Is(err, store.ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}

// SentinelFor is the inverse of CodeFor. Unknown codes yield nil.
func SentinelFor(code string) error {
	switch code {
	case CodeNotFound:
		return store.ErrNotFound
	case CodeInvalidReference:
		return store.ErrInvalidReference
	case CodeInvalidCategory:
		return store.ErrInvalidCategory
	case CodeInvalidInput:
		return store.ErrInvalidInput
	}
	return nil
}

// CreateDeadlineRequest carries the date as YYYY-MM-DD; the server reads it
// in its own location.
type CreateDeadlineRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	DocumentID  string `json:"document_id,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	DocumentID string `json:"document_id"`
	Answer     string `json:"answer"`
}

type RemovedResponse struct {
	RemovedDeadlines int `json:"removed_deadlines"`
}

type CountResponse struct {
	Count      int `json:"count"`
	WithinDays int `json:"within_days"`
}

// DeadlineView is a deadline annotated for display.
type DeadlineView struct {
	model.Deadline
	DaysRemaining int           `json:"days_remaining"`
	Urgency       model.Urgency `json:"urgency"`
	Linked        bool          `json:"linked"`
}

func NewDeadlineView(d model.Deadline, now time.Time, linked bool) DeadlineView {
	days := model.DaysRemaining(d.Date, now)
	return DeadlineView{
		Deadline:      d,
		DaysRemaining: days,
		Urgency:       model.Classify(days),
		Linked:        linked,
	}
}
