package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-labs/aura/pkg/habits"
)

const testUser = "@alice:matrix.example.com"

func newTestRegistry(t *testing.T, yt *YouTubeClient) (*Registry, *habits.Engine) {
	t.Helper()
	store := habits.NewFileStore(filepath.Join(t.TempDir(), "habits.json"))
	doc := habits.Document{
		testUser: {
			Name: "Alice",
			Habits: map[string]habits.Habit{
				"take_pills": {Streak: 3, LastCompleted: "2025-06-14", Description: "take_pills"},
				"meditation": {Streak: 7, LastCompleted: "2025-06-14", Description: "meditation"},
			},
		},
	}
	if err := store.Save(doc); err != nil {
		t.Fatalf("seed: %v", err)
	}
	engine := habits.NewEngine(store)
	return NewRegistry(engine, yt), engine
}

func TestExecuteUnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "selfDestruct", map[string]any{"userId": testUser})
	if res.Success {
		t.Error("unknown tool should fail")
	}
	if want := `Tool "selfDestruct" not found`; res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}
}

func TestExecuteLogActivity(t *testing.T) {
	r, engine := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "logActivity", map[string]any{
		"userId":  testUser,
		"type":    "exercise",
		"details": "5k run",
		"mood":    "positive",
	})
	if !res.Success {
		t.Fatalf("logActivity failed: %q", res.Message)
	}

	user, _ := engine.UserData(testUser)
	if len(user.Activities) != 1 || user.Activities[0].Details != "5k run" {
		t.Errorf("activity not persisted: %+v", user.Activities)
	}
}

func TestExecuteUpdateHabitCarriesStreak(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "updateHabit", map[string]any{
		"userId":    testUser,
		"habitName": "take_pills",
	})
	if !res.Success {
		t.Fatalf("updateHabit failed: %q", res.Message)
	}
	if res.Streak == nil {
		t.Fatal("updateHabit result missing streak")
	}
}

func TestExecuteGetHabitStatusSorted(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "getHabitStatus", map[string]any{"userId": testUser})
	if !res.Success {
		t.Fatalf("getHabitStatus failed: %q", res.Message)
	}
	medIdx := strings.Index(res.Message, "**meditation**: 7 day streak")
	pillIdx := strings.Index(res.Message, "**take_pills**: 3 day streak")
	if medIdx < 0 || pillIdx < 0 {
		t.Fatalf("status missing habit lines:\n%s", res.Message)
	}
	if medIdx > pillIdx {
		t.Error("habit lines not sorted by name")
	}
	if !strings.Contains(res.Message, "Keep up the great work! 🎯") {
		t.Errorf("status missing closer:\n%s", res.Message)
	}
}

func TestExecuteGetHabitStatusUnknownUser(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	res := r.Execute(context.Background(), "getHabitStatus", map[string]any{"userId": "@nobody:x"})
	if res.Success || res.Message != "User data not found" {
		t.Errorf("unknown user: got %+v", res)
	}
}

func TestResearchWithVideoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if got := req.URL.Query().Get("q"); got != "ultramarathon beginner guide training tips" {
			t.Errorf("query not enhanced: %q", got)
		}
		fmt.Fprint(w, `{"items": [{"id": {"videoId": "abc123"}, "snippet": {
			"title": "Ultra 101", "channelTitle": "Trail Channel",
			"publishedAt": "2025-05-01T10:00:00Z",
			"thumbnails": {"medium": {"url": "https://img.example/abc123.jpg"}}}}]}`)
	}))
	defer srv.Close()

	yt := NewYouTube("test-key")
	yt.baseURL = srv.URL
	r, engine := newTestRegistry(t, yt)

	res := r.Execute(context.Background(), "research", map[string]any{
		"userId": testUser,
		"topic":  "ultramarathon gear",
	})
	if !res.Success {
		t.Fatalf("research failed: %q", res.Message)
	}
	for _, want := range []string{"Ultra 101", "Trail Channel", "https://www.youtube.com/watch?v=abc123", "Happy learning! 🚀"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("reply missing %q:\n%s", want, res.Message)
		}
	}

	user, _ := engine.UserData(testUser)
	if len(user.VideoRecommendations) != 1 || user.VideoRecommendations[0].VideoID != "abc123" {
		t.Errorf("recommendation not persisted: %+v", user.VideoRecommendations)
	}
}

func TestResearchFallsBackToCannedAnswer(t *testing.T) {
	// No API key configured — canned table serves known topics.
	r, _ := newTestRegistry(t, NewYouTube(""))

	res := r.Execute(context.Background(), "research", map[string]any{
		"userId": testUser,
		"topic":  "Ultramarathon Podcasts please",
	})
	if !res.Success {
		t.Fatalf("research must not fail: %q", res.Message)
	}
	if !strings.Contains(res.Message, "The Ultrarunning Podcast") {
		t.Errorf("canned answer not served:\n%s", res.Message)
	}
}

func TestResearchSearchErrorDegradesToCanned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	yt := NewYouTube("test-key")
	yt.baseURL = srv.URL
	r, _ := newTestRegistry(t, yt)

	res := r.Execute(context.Background(), "research", map[string]any{
		"userId": testUser,
		"topic":  "pills for energy",
	})
	if !res.Success {
		t.Fatalf("research must degrade, not fail: %q", res.Message)
	}
	if !strings.Contains(res.Message, "I'd be happy to research") {
		t.Errorf("generic fallback not served:\n%s", res.Message)
	}
}

func TestEnhanceQuery(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"ultramarathon gear", "ultramarathon beginner guide training tips"},
		{"Strength Training at home", "strength training beginner guide"},
		{"sourdough baking", "sourdough baking guide tutorial"},
		{"knitting tips", "knitting tips"},
	}
	for _, tt := range tests {
		if got := EnhanceQuery(tt.topic); got != tt.want {
			t.Errorf("EnhanceQuery(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
