package habits

import (
	"strings"
	"testing"
)

func TestSuggestionTimeBands(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{7, "breakfast"},
		{11, "Midday check-in"},
		{19, "wraps up"},
	}
	for _, tt := range tests {
		got := suggestionFor("take_pills", tt.hour, nil)
		if !strings.Contains(got, tt.want) {
			t.Errorf("suggestionFor(take_pills, %d) = %q, want substring %q", tt.hour, got, tt.want)
		}
	}
}

func TestSuggestionInterestMatch(t *testing.T) {
	plain := suggestionFor("morning_run", 8, []string{"cooking"})
	matched := suggestionFor("morning_run", 8, []string{"trail running"})

	if plain == matched {
		t.Error("interest match should change the suggestion")
	}
	if !strings.Contains(matched, "running goals") {
		t.Errorf("matched suggestion missing personal tail: %q", matched)
	}
}

func TestSuggestionUnknownHabitFallsBack(t *testing.T) {
	got := suggestionFor("practice_guitar", 11, nil)
	if !strings.Contains(got, "practice guitar") {
		t.Errorf("fallback should substitute habit name with spaces: %q", got)
	}
}

func TestSuggestionDeterministic(t *testing.T) {
	a := suggestionFor("meditation", 12, []string{"mindfulness"})
	b := suggestionFor("meditation", 12, []string{"mindfulness"})
	if a != b {
		t.Errorf("suggestion not deterministic: %q vs %q", a, b)
	}
}
