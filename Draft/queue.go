package Draft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action types for queued offline work.
const (
	ActionCreateTask = "create_task"
	ActionSignTask   = "sign_task"
)

// Action is one deferred API call, captured while offline.
type Action struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Queue is the persisted offline action queue. Actions accumulate while the
// server is unreachable; draining is left to the caller, there is no
// automatic background sync.
type Queue struct {
	mu      sync.Mutex
	path    string
	actions []Action
}

// OpenQueue loads the queue from path, or starts empty if the file is absent.
func OpenQueue(path string) (*Queue, error) {
	q := &Queue{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return q, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}
	if err := json.Unmarshal(data, &q.actions); err != nil {
		return nil, fmt.Errorf("corrupt queue file: %w", err)
	}
	return q, nil
}

// Enqueue appends an action and returns its generated identifier.
func (q *Queue) Enqueue(actionType string, payload json.RawMessage) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	action := Action{
		ID:        uuid.NewString(),
		Type:      actionType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	q.actions = append(q.actions, action)
	return action.ID, q.save()
}

// Actions returns a copy of the pending actions in enqueue order.
func (q *Queue) Actions() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Action(nil), q.actions...)
}

// Remove deletes an action by identifier.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, action := range q.actions {
		if action.ID == id {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return q.save()
		}
	}
	return nil
}

// Clear drops every pending action.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = nil
	return q.save()
}

// Drain applies handler to each pending action in order, removing the ones it
// accepts. It stops at the first failure so ordering is preserved for the
// next attempt.
func (q *Queue) Drain(handler func(Action) error) error {
	for _, action := range q.Actions() {
		if err := handler(action); err != nil {
			return err
		}
		if err := q.Remove(action.ID); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queue) save() error {
	data, err := json.MarshalIndent(q.actions, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(q.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(q.path, data, 0644)
}
