package habits

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "habits.json"))

	doc := Document{
		"@bob:matrix.example.com": {
			Name: "Bob",
			Habits: map[string]Habit{
				"take_pills": {Streak: 3, LastCompleted: "2025-06-14", Description: "take_pills"},
			},
			Activities: []Activity{{Date: "2025-06-14", Type: "exercise", Details: "ran"}},
			Preferences: Preferences{
				Interests: []string{"running"},
				Goals:     []string{"marathon"},
			},
		},
	}
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	user := loaded["@bob:matrix.example.com"]
	if user.Name != "Bob" {
		t.Errorf("Name = %q, want Bob", user.Name)
	}
	if user.Habits["take_pills"].Streak != 3 {
		t.Errorf("Streak = %d, want 3", user.Habits["take_pills"].Streak)
	}
}

func TestFileStoreMissingFileDegradesToEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("doc = %v, want empty", doc)
	}
}

func TestFileStoreCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load should not error on corrupt file: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("doc = %v, want empty", doc)
	}
}

func TestFileStoreWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	store := NewFileStore(path)
	if err := store.Save(Document{"u": {Name: "U"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// The dashboard reads this file directly — keep it human-readable.
	if !contains(string(data), "\n  ") {
		t.Errorf("expected indented JSON, got: %s", data)
	}
}
