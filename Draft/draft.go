package Draft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status is the draft submission state.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// PhotoEntry is one captured photo, tagged with its collection point.
type PhotoEntry struct {
	ID          string    `json:"id"`
	PointNumber int       `json:"pointNumber"`
	Image       string    `json:"image"`
	CapturedAt  time.Time `json:"capturedAt"`
	Latitude    *float64  `json:"lat,omitempty"`
	Longitude   *float64  `json:"lon,omitempty"`
}

// Draft is the locally held inspection draft.
type Draft struct {
	InspectorName string       `json:"inspectorName"`
	DivisionID    uint         `json:"divisionId"`
	UnitID        uint         `json:"unitId"`
	Notes         string       `json:"notes"`
	Photos        []PhotoEntry `json:"photos"`
	Status        Status       `json:"status"`
	CurrentTask   string       `json:"currentTask"`
	ActivePanel   Panel        `json:"activePanel"`
}

// Store holds the draft with an explicit serialization boundary: the draft is
// loaded from its file once at open and written back after every mutation, so
// it survives process restarts.
type Store struct {
	mu    sync.Mutex
	path  string
	draft Draft
}

// Open loads the draft from path, or starts a fresh one if the file is absent.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		draft: Draft{Status: StatusDraft},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	if err := json.Unmarshal(data, &s.draft); err != nil {
		return nil, fmt.Errorf("corrupt draft file: %w", err)
	}
	if s.draft.Status == "" {
		s.draft.Status = StatusDraft
	}
	return s, nil
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := s.draft
	copied.Photos = append([]PhotoEntry(nil), s.draft.Photos...)
	return copied
}

// SetInspectorName updates the inspector display name.
func (s *Store) SetInspectorName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.InspectorName = name
	return s.save()
}

// SetDivision selects a division and clears the dependent unit selection.
func (s *Store) SetDivision(divisionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.DivisionID = divisionID
	s.draft.UnitID = 0
	return s.save()
}

// SetUnit selects a supervision unit.
func (s *Store) SetUnit(unitID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.UnitID = unitID
	return s.save()
}

// SetNotes updates the free-text notes.
func (s *Store) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Notes = notes
	return s.save()
}

// SetActivePanel records the selected UI panel.
func (s *Store) SetActivePanel(panel Panel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ActivePanel = panel
	return s.save()
}

// AddPhoto appends a captured photo entry.
func (s *Store) AddPhoto(entry PhotoEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Photos = append(s.draft.Photos, entry)
	return s.save()
}

// RemovePhoto removes a photo entry by its identifier, whatever its point
// grouping. Reports whether an entry was removed.
func (s *Store) RemovePhoto(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, photo := range s.draft.Photos {
		if photo.ID == id {
			s.draft.Photos = append(s.draft.Photos[:i], s.draft.Photos[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

// NextPointNumber returns one greater than the highest point number present,
// or 1 when no photos exist.
func (s *Store) NextPointNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 1
	for _, photo := range s.draft.Photos {
		if photo.PointNumber >= next {
			next = photo.PointNumber + 1
		}
	}
	return next
}

// BeginSubmit moves the draft into the saving state. Only a draft or a failed
// submission may be (re)submitted.
func (s *Store) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Status != StatusDraft && s.draft.Status != StatusError {
		return fmt.Errorf("cannot submit from status %q", s.draft.Status)
	}
	s.draft.Status = StatusSaving
	return s.save()
}

// MarkSaved records a server-accepted submission: the draft fields are cleared
// and the created task number is remembered.
func (s *Store) MarkSaved(taskNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Status != StatusSaving {
		return fmt.Errorf("cannot mark saved from status %q", s.draft.Status)
	}
	panel := s.draft.ActivePanel
	s.draft = Draft{Status: StatusSaved, CurrentTask: taskNumber, ActivePanel: panel}
	return s.save()
}

// MarkError records a rejected or failed submission. Fields stay intact for a
// retry.
func (s *Store) MarkError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Status != StatusSaving {
		return fmt.Errorf("cannot mark error from status %q", s.draft.Status)
	}
	s.draft.Status = StatusError
	return s.save()
}

// Reset clears all fields and returns to the draft state. Valid from any state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	panel := s.draft.ActivePanel
	s.draft = Draft{Status: StatusDraft, ActivePanel: panel}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.draft, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0644)
}
