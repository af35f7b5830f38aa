package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ResumeStore persists the last processed backend event id so a restarted
// process can replay only the events it missed instead of rewalking the
// whole tree. The file is guarded by an advisory lock: multiple processes
// may watch the same root, and a torn token is worse than none (it would
// silently skip history).
type ResumeStore struct {
	path string
	lock *flock.Flock
}

// resumeToken is the on-disk format.
type resumeToken struct {
	EventID uint64    `json:"event_id"`
	Root    string    `json:"root"`
	SavedAt time.Time `json:"saved_at"`
}

// NewResumeStore creates a store persisting to path.
func NewResumeStore(path string) *ResumeStore {
	return &ResumeStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the token file location.
func (s *ResumeStore) Path() string {
	return s.path
}

// Load reads the persisted event id for root. ok is false when no usable
// token exists: missing file, unreadable content, or a token recorded for a
// different root.
func (s *ResumeStore) Load(root string) (id uint64, ok bool, err error) {
	if err := s.lock.Lock(); err != nil {
		return 0, false, fmt.Errorf("lock resume token: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read resume token: %w", err)
	}

	var tok resumeToken
	if err := json.Unmarshal(data, &tok); err != nil {
		// A corrupt token is not fatal, it only costs a full rewalk.
		return 0, false, nil
	}
	if tok.Root != root || tok.EventID == 0 {
		return 0, false, nil
	}
	return tok.EventID, true, nil
}

// Save atomically persists id for root.
func (s *ResumeStore) Save(root string, id uint64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock resume token: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.Marshal(resumeToken{
		EventID: id,
		Root:    root,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write resume token: %w", err)
	}
	return os.Rename(tmp, s.path)
}
