package Client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"time"

	"GroundCheck/Draft"
	"GroundCheck/Models"
)

// ErrDraftIncomplete is returned when a draft fails the local submission
// preconditions; the server enforces the same contract.
var ErrDraftIncomplete = errors.New("draft is incomplete: inspector name, division, unit and at least one photo are required")

// Client is the field-app API client. It keeps the session cookie in a jar
// and drives the draft status machine on submission.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Store   *Draft.Store
	Queue   *Draft.Queue
}

// New creates a client with a fresh cookie jar.
func New(baseURL string, store *Draft.Store, queue *Draft.Queue) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
		Store:   store,
		Queue:   queue,
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, username, password string) (Models.User, error) {
	var user Models.User
	body := map[string]string{"username": username, "password": password}
	env, err := c.post(ctx, "/api/auth/login", body)
	if err != nil {
		return user, err
	}
	err = json.Unmarshal(env.User, &user)
	return user, err
}

// Me returns the authenticated session user.
func (c *Client) Me(ctx context.Context) (Models.User, error) {
	var user Models.User
	env, err := c.get(ctx, "/api/auth/me")
	if err != nil {
		return user, err
	}
	err = json.Unmarshal(env.User, &user)
	return user, err
}

// Divisions lists the active divisions.
func (c *Client) Divisions(ctx context.Context) ([]Models.Division, error) {
	env, err := c.get(ctx, "/api/divisions")
	if err != nil {
		return nil, err
	}
	var divisions []Models.Division
	err = json.Unmarshal(env.Data, &divisions)
	return divisions, err
}

// SupervisionUnits lists active units, optionally scoped to one division.
func (c *Client) SupervisionUnits(ctx context.Context, divisionID uint) ([]Models.SupervisionUnit, error) {
	path := "/api/supervision-units"
	if divisionID != 0 {
		path = fmt.Sprintf("%s?divisionId=%d", path, divisionID)
	}
	env, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var units []Models.SupervisionUnit
	err = json.Unmarshal(env.Data, &units)
	return units, err
}

type attachmentBody struct {
	PointNumber int        `json:"pointNumber"`
	Photos      []string   `json:"photos"`
	Notes       string     `json:"notes,omitempty"`
	Latitude    *float64   `json:"lat,omitempty"`
	Longitude   *float64   `json:"lon,omitempty"`
	CapturedAt  *time.Time `json:"capturedAt,omitempty"`
}

type submissionBody struct {
	InspectorName string           `json:"inspectorName"`
	DivisionID    uint             `json:"divisionId"`
	UnitID        uint             `json:"unitId"`
	Notes         string           `json:"notes,omitempty"`
	Attachments   []attachmentBody `json:"attachments"`
}

// SubmitDraft submits the current draft, driving its status machine: saving
// while the request is in flight, saved (and cleared) on acceptance, error on
// rejection. A network-level failure also parks the payload on the offline
// queue; the draft fields are never lost. When the server accepted the
// submission, the created task is returned even if recording the saved state
// fails, so the caller must not resubmit on a non-nil task.
func (c *Client) SubmitDraft(ctx context.Context) (Models.Task, error) {
	var task Models.Task

	d := c.Store.Draft()
	if d.InspectorName == "" || d.DivisionID == 0 || d.UnitID == 0 || len(d.Photos) == 0 {
		return task, ErrDraftIncomplete
	}

	if err := c.Store.BeginSubmit(); err != nil {
		return task, err
	}

	body := submissionBody{
		InspectorName: d.InspectorName,
		DivisionID:    d.DivisionID,
		UnitID:        d.UnitID,
		Notes:         d.Notes,
		Attachments:   groupByPoint(d.Photos),
	}

	env, err := c.post(ctx, "/api/tasks", body)
	if err != nil {
		_ = c.Store.MarkError()
		var apiErr *APIError
		if !errors.As(err, &apiErr) && c.Queue != nil {
			// Network-level failure: keep the submission for a later drain.
			if payload, jsonErr := json.Marshal(body); jsonErr == nil {
				_, _ = c.Queue.Enqueue(Draft.ActionCreateTask, payload)
			}
		}
		return task, err
	}

	if err := json.Unmarshal(env.Data, &task); err != nil {
		_ = c.Store.MarkError()
		return task, err
	}

	if err := c.Store.MarkSaved(task.Number); err != nil {
		return task, err
	}
	return task, nil
}

// Sign submits the signature for a task and returns the raw report payload.
func (c *Client) Sign(ctx context.Context, taskID uint, signatureImage string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"taskId":         taskID,
		"signatureImage": signatureImage,
	}
	env, err := c.post(ctx, "/api/report", body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// groupByPoint folds photo entries into one attachment per point number,
// carrying the coordinates and capture time of the point's first photo.
func groupByPoint(photos []Draft.PhotoEntry) []attachmentBody {
	byPoint := map[int]*attachmentBody{}
	for _, photo := range photos {
		group, ok := byPoint[photo.PointNumber]
		if !ok {
			capturedAt := photo.CapturedAt
			group = &attachmentBody{
				PointNumber: photo.PointNumber,
				Latitude:    photo.Latitude,
				Longitude:   photo.Longitude,
				CapturedAt:  &capturedAt,
			}
			byPoint[photo.PointNumber] = group
		}
		group.Photos = append(group.Photos, photo.Image)
	}

	attachments := make([]attachmentBody, 0, len(byPoint))
	for _, group := range byPoint {
		attachments = append(attachments, *group)
	}
	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].PointNumber < attachments[j].PointNumber
	})
	return attachments
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) get(ctx context.Context, path string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*envelope, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}
