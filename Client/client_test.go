package Client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"GroundCheck/Client"
	"GroundCheck/Draft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Draft.Store, *Draft.Queue) {
	t.Helper()
	dir := t.TempDir()
	store, err := Draft.Open(filepath.Join(dir, "draft.json"))
	require.NoError(t, err)
	queue, err := Draft.OpenQueue(filepath.Join(dir, "queue.json"))
	require.NoError(t, err)
	return store, queue
}

func fillDraft(t *testing.T, store *Draft.Store) {
	t.Helper()
	require.NoError(t, store.SetInspectorName("Krani Uji"))
	require.NoError(t, store.SetDivision(1))
	require.NoError(t, store.SetUnit(2))
	lat, lon := -2.5, 111.7
	require.NoError(t, store.AddPhoto(Draft.PhotoEntry{
		ID: "p1", PointNumber: 1, Image: "data:image/jpeg;base64,YQ==",
		CapturedAt: time.Now(), Latitude: &lat, Longitude: &lon,
	}))
	require.NoError(t, store.AddPhoto(Draft.PhotoEntry{
		ID: "p2", PointNumber: 1, Image: "data:image/jpeg;base64,Yg==",
		CapturedAt: time.Now(),
	}))
	require.NoError(t, store.AddPhoto(Draft.PhotoEntry{
		ID: "p3", PointNumber: 2, Image: "data:image/jpeg;base64,Yw==",
		CapturedAt: time.Now(),
	}))
}

func TestSubmitDraftGroupsPhotosByPoint(t *testing.T) {
	store, queue := newStore(t)
	fillDraft(t, store)

	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tasks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"ID":1,"nomorTask":"SGS-20240615-0001","status":"submitted"}}`))
	}))
	defer server.Close()

	c, err := Client.New(server.URL, store, queue)
	require.NoError(t, err)

	task, err := c.SubmitDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SGS-20240615-0001", task.Number)

	attachments := received["attachments"].([]interface{})
	require.Len(t, attachments, 2)

	first := attachments[0].(map[string]interface{})
	assert.EqualValues(t, 1, first["pointNumber"])
	assert.Len(t, first["photos"], 2)
	// Coordinates come from the point's first photo
	assert.EqualValues(t, -2.5, first["lat"])

	second := attachments[1].(map[string]interface{})
	assert.EqualValues(t, 2, second["pointNumber"])
	assert.Len(t, second["photos"], 1)

	d := store.Draft()
	assert.Equal(t, Draft.StatusSaved, d.Status)
	assert.Equal(t, "SGS-20240615-0001", d.CurrentTask)
	assert.Empty(t, d.Photos)
	assert.Empty(t, queue.Actions())
}

func TestSubmitDraftRejectionKeepsFields(t *testing.T) {
	store, queue := newStore(t)
	fillDraft(t, store)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"At least one point photo required"}`))
	}))
	defer server.Close()

	c, err := Client.New(server.URL, store, queue)
	require.NoError(t, err)

	_, err = c.SubmitDraft(context.Background())
	require.Error(t, err)

	var apiErr *Client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	d := store.Draft()
	assert.Equal(t, Draft.StatusError, d.Status)
	assert.Equal(t, "Krani Uji", d.InspectorName)
	assert.Len(t, d.Photos, 3)
	// Server rejections are not queued for replay; the data is wrong, not the network
	assert.Empty(t, queue.Actions())
}

func TestSubmitDraftNetworkFailureQueues(t *testing.T) {
	store, queue := newStore(t)
	fillDraft(t, store)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable

	c, err := Client.New(server.URL, store, queue)
	require.NoError(t, err)

	_, err = c.SubmitDraft(context.Background())
	require.Error(t, err)

	d := store.Draft()
	assert.Equal(t, Draft.StatusError, d.Status)
	assert.Equal(t, "Krani Uji", d.InspectorName)

	actions := queue.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, Draft.ActionCreateTask, actions[0].Type)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(actions[0].Payload, &payload))
	assert.Equal(t, "Krani Uji", payload["inspectorName"])
}

func TestSubmitDraftIncompleteFailsLocally(t *testing.T) {
	store, queue := newStore(t)
	require.NoError(t, store.SetInspectorName("Krani Uji"))

	c, err := Client.New("http://localhost:0", store, queue)
	require.NoError(t, err)

	_, err = c.SubmitDraft(context.Background())
	assert.ErrorIs(t, err, Client.ErrDraftIncomplete)
	// Never even entered saving
	assert.Equal(t, Draft.StatusDraft, store.Draft().Status)
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	store, queue := newStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "sgs_token", Value: "token-123", Path: "/"})
			_, _ = w.Write([]byte(`{"success":true,"user":{"username":"admin","role":"admin"}}`))
		case "/api/auth/me":
			cookie, err := r.Cookie("sgs_token")
			if err != nil || cookie.Value != "token-123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"Unauthorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"user":{"username":"admin","role":"admin"}}`))
		}
	}))
	defer server.Close()

	c, err := Client.New(server.URL, store, queue)
	require.NoError(t, err)

	user, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)
}
