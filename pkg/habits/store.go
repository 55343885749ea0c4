// Package habits provides Aura's habit and activity tracking engine.
//
// State lives in a single JSON document mapping user IDs to per-user
// records. Every operation is a whole-document read-modify-write: the
// document is fully deserialized before any read and fully serialized
// after any write, never partially updated. The same file is read
// directly by the dashboard, so it must stay plain indented JSON.
package habits

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Habit is a single tracked habit with its completion streak.
type Habit struct {
	Streak        int    `json:"streak"`
	LastCompleted string `json:"lastCompleted"` // calendar date, YYYY-MM-DD
	Description   string `json:"description"`
}

// Activity is one logged activity entry. Entries are append-only.
type Activity struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Details string `json:"details"`
	Mood    string `json:"mood,omitempty"`
}

// VideoRecommendation is one persisted research result, most recent first.
type VideoRecommendation struct {
	Date         string `json:"date"`
	Query        string `json:"query"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	VideoID      string `json:"videoId"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Preferences holds a user's interests and goals.
type Preferences struct {
	Interests []string `json:"interests"`
	Goals     []string `json:"goals"`
}

// UserRecord is everything tracked for one user.
type UserRecord struct {
	Name                 string                `json:"name"`
	Habits               map[string]Habit      `json:"habits"`
	Activities           []Activity            `json:"activities"`
	VideoRecommendations []VideoRecommendation `json:"videoRecommendations,omitempty"`
	Preferences          Preferences           `json:"preferences"`
}

// Document is the full state document, keyed by user ID.
type Document map[string]UserRecord

// Store abstracts document persistence so the engine can be tested
// against in-memory or fault-injecting implementations. Implementations
// must preserve the whole-document contract: Load returns the complete
// document, Save replaces it entirely.
type Store interface {
	Load() (Document, error)
	Save(doc Document) error
}

// FileStore persists the document as one JSON file at a fixed path.
//
// There is no locking: two concurrent load-mutate-save cycles on the
// same user can lose an update (last writer wins). That is an accepted
// hazard for this single-household deployment, not a guarantee.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and parses the full document. An unreadable or unparsable
// file degrades to an empty document with a warning — the daemon must
// keep answering even when state is missing or corrupt.
func (s *FileStore) Load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		slog.Warn("state document unreadable, treating as empty", "path", s.path, "error", err)
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("state document unparsable, treating as empty", "path", s.path, "error", err)
		return Document{}, nil
	}
	return doc, nil
}

// Save writes the full document, replacing the previous contents.
// At-most-once per call: failures are returned for the caller to log,
// never retried here.
func (s *FileStore) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
