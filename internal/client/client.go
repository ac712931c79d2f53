// Package client talks to an eonjeswim server over its JSON API. It
// implements app.Backend so the shell can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient gets a
// 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// BaseURL returns the server origin, used for share links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func calendarPath(token string, parts ...string) string {
	p := "/api/calendars/" + url.PathEscape(token)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// do sends body as JSON and decodes the reply into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) CreateCalendar(ctx context.Context, name string) (*model.Calendar, error) {
	var cal model.Calendar
	if err := c.do(ctx, http.MethodPost, "/api/calendars", map[string]string{"name": name}, &cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

// GetCalendar returns (nil, nil) when no calendar has the token.
func (c *Client) GetCalendar(ctx context.Context, token string) (*model.Calendar, error) {
	var cal model.Calendar
	if err := c.do(ctx, http.MethodGet, calendarPath(token), nil, &cal); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cal, nil
}

func (c *Client) UpdateCalendar(ctx context.Context, token, name, startDate, endDate string) (*model.Calendar, error) {
	var cal model.Calendar
	body := map[string]string{"name": name, "start_date": startDate, "end_date": endDate}
	if err := c.do(ctx, http.MethodPut, calendarPath(token), body, &cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

func (c *Client) ListMembers(ctx context.Context, token string) ([]model.Member, error) {
	var members []model.Member
	if err := c.do(ctx, http.MethodGet, calendarPath(token, "members"), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) CreateMember(ctx context.Context, token, name string) (*model.Member, error) {
	var m model.Member
	if err := c.do(ctx, http.MethodPost, calendarPath(token, "members"), map[string]string{"name": name}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) RenameMember(ctx context.Context, token string, id int64, name string) error {
	path := calendarPath(token, "members", strconv.FormatInt(id, 10))
	return c.do(ctx, http.MethodPut, path, map[string]string{"name": name}, nil)
}

func (c *Client) DeleteMember(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, calendarPath(token, "members", strconv.FormatInt(id, 10)), nil, nil)
}

func (c *Client) SortMembers(ctx context.Context, token string, ids []int64) error {
	return c.do(ctx, http.MethodPut, calendarPath(token, "members", "sort"), map[string][]int64{"ids": ids}, nil)
}

func (c *Client) ListStatuses(ctx context.Context, token string) ([]model.StatusEntry, error) {
	var entries []model.StatusEntry
	if err := c.do(ctx, http.MethodGet, calendarPath(token, "statuses"), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) UpsertStatus(ctx context.Context, token string, memberID int64, date string, kind model.WorkType) error {
	body := map[string]any{"member_id": memberID, "date": date, "work_type": kind}
	return c.do(ctx, http.MethodPut, calendarPath(token, "statuses"), body, nil)
}

// GridResponse is the server-resolved grid for a period.
type GridResponse struct {
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Grid      schedule.Grid `json:"grid"`
}

// Grid fetches the resolved grid. Empty start or end selects the calendar's
// own period.
func (c *Client) Grid(ctx context.Context, token, start, end string) (*GridResponse, error) {
	path := calendarPath(token, "grid")
	if start != "" && end != "" {
		path += "?" + url.Values{"start": {start}, "end": {end}}.Encode()
	}
	var out GridResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches an export (e.g. "export.xlsx") for the period and
// copies it to w.
func (c *Client) Download(ctx context.Context, token, name, start, end string, w io.Writer) error {
	q := url.Values{}
	if start != "" && end != "" {
		q.Set("start", start)
		q.Set("end", end)
	}
	path := calendarPath(token, name)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("copy export: %w", err)
	}
	return nil
}
