// Package client talks to a running contractme server.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/calendar"
	"github.com/rogersnm/contractme/internal/dashboard"
	"github.com/rogersnm/contractme/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: 30 * time.Second})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// APIError is a non-2xx reply. It unwraps to the matching store sentinel
// so callers can use errors.Is across the wire.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return api.SentinelFor(e.Code)
}

// --- HTTP helpers ---

func (c *Client) doJSON(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+api.BasePath+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting server at %s (is `contractme serve` running?): %w", c.baseURL, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body api.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}

func decodeResponse[T any](resp *http.Response) (T, error) {
	defer resp.Body.Close()
	var zero T

	if resp.StatusCode >= 400 {
		return zero, decodeError(resp)
	}

	var wrapper api.Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	return wrapper.Data, nil
}

func call[T any](c *Client, method, path string, body any) (T, error) {
	resp, err := c.doJSON(method, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeResponse[T](resp)
}

// --- Categories ---

func (c *Client) Categories() ([]string, error) {
	return call[[]string](c, http.MethodGet, "/categories", nil)
}

func (c *Client) AddCategory(name string) ([]string, error) {
	return call[[]string](c, http.MethodPost, "/categories", api.CategoryRequest{Name: name})
}

// --- Documents ---

func (c *Client) AddDocument(meta model.DocumentMeta) (model.Document, error) {
	return call[model.Document](c, http.MethodPost, "/documents", meta)
}

func (c *Client) GetDocument(docID string) (model.Document, error) {
	return call[model.Document](c, http.MethodGet, "/documents/"+url.PathEscape(docID), nil)
}

func (c *Client) ListDocuments(category string) ([]model.Document, error) {
	path := "/documents"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	return call[[]model.Document](c, http.MethodGet, path, nil)
}

// RecentDocuments lists the newest uploads. withinDays is ignored when nil.
func (c *Client) RecentDocuments(limit int, withinDays *int) ([]model.Document, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if withinDays != nil {
		q.Set("within_days", strconv.Itoa(*withinDays))
	}
	return call[[]model.Document](c, http.MethodGet, "/documents/recent?"+q.Encode(), nil)
}

// RemoveDocument deletes a document and reports how many linked deadlines
// went with it.
func (c *Client) RemoveDocument(docID string) (int, error) {
	res, err := call[api.RemovedResponse](c, http.MethodDelete, "/documents/"+url.PathEscape(docID), nil)
	if err != nil {
		return 0, err
	}
	return res.RemovedDeadlines, nil
}

func (c *Client) Ask(docID, question string) (string, error) {
	res, err := call[api.AskResponse](c, http.MethodPost, "/documents/"+url.PathEscape(docID)+"/ask", api.AskRequest{Question: question})
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// --- Deadlines ---

func (c *Client) AddDeadline(in model.DeadlineInput) (api.DeadlineView, error) {
	req := api.CreateDeadlineRequest{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		DocumentID:  in.DocumentID,
	}
	if !in.Date.IsZero() {
		req.Date = in.Date.Format(model.DateLayout)
	}
	return call[api.DeadlineView](c, http.MethodPost, "/deadlines", req)
}

func (c *Client) GetDeadline(deadlineID string) (api.DeadlineView, error) {
	return call[api.DeadlineView](c, http.MethodGet, "/deadlines/"+url.PathEscape(deadlineID), nil)
}

// ListDeadlines returns deadlines ordered by date, optionally filtered by
// category.
func (c *Client) ListDeadlines(category string) ([]api.DeadlineView, error) {
	q := url.Values{}
	q.Set("sort", "date")
	if category != "" {
		q.Set("category", category)
	}
	return call[[]api.DeadlineView](c, http.MethodGet, "/deadlines?"+q.Encode(), nil)
}

func (c *Client) RemoveDeadline(deadlineID string) error {
	resp, err := c.doJSON(http.MethodDelete, "/deadlines/"+url.PathEscape(deadlineID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) Upcoming(withinDays int) (int, error) {
	res, err := call[api.CountResponse](c, http.MethodGet, "/deadlines/upcoming?within_days="+strconv.Itoa(withinDays), nil)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// --- Views ---

func (c *Client) Calendar(year, month int) (*calendar.Grid, error) {
	grid, err := call[calendar.Grid](c, http.MethodGet, fmt.Sprintf("/calendar/%d/%d", year, month), nil)
	if err != nil {
		return nil, err
	}
	return &grid, nil
}

func (c *Client) Dashboard() (*dashboard.Summary, error) {
	sum, err := call[dashboard.Summary](c, http.MethodGet, "/dashboard", nil)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
