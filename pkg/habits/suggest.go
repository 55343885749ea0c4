package habits

import "strings"

// Hour bands for suggestion wording: before 10:00, 10:00–13:59, 14:00+.
const (
	bandMorning = iota
	bandMidday
	bandEvening
)

// suggestionEntry holds per-band wording for one habit, plus an optional
// interest keyword that unlocks a more personal closing line.
type suggestionEntry struct {
	bands        [3]string
	interest     string
	interestTail string
}

// suggestionTable maps known habit names to their time-banded suggestions.
// Habit names the model invents fall back to the generic template below.
var suggestionTable = map[string]suggestionEntry{
	"take_pills": {
		bands: [3]string{
			"Take your pills with breakfast so they're out of the way early 💊",
			"Midday check-in: your pills are still waiting for you 💊",
			"Before the day wraps up, don't forget your pills 💊",
		},
		interest:     "health",
		interestTail: " Staying on top of this is a big part of your health goals.",
	},
	"meditation": {
		bands: [3]string{
			"A short meditation now would set the tone for the whole day 🧘",
			"A ten-minute breathing break beats a coffee slump 🧘",
			"Unwind with an evening meditation before bed 🧘",
		},
		interest:     "mindfulness",
		interestTail: " You've said mindfulness matters to you — this is the moment.",
	},
	"morning_run": {
		bands: [3]string{
			"Perfect time to lace up for your morning run 🏃",
			"The run window isn't closed yet — even a short jog counts 🏃",
			"A brisk evening run or walk can still save today's streak 🏃",
		},
		interest:     "running",
		interestTail: " Your running goals will thank you!",
	},
	"read_book": {
		bands: [3]string{
			"A few pages with your morning coffee is an easy win 📖",
			"Lunch break is a great slot for a reading session 📖",
			"Swap some screen time for your book tonight 📖",
		},
	},
	"stretching": {
		bands: [3]string{
			"Loosen up with your stretching routine before the day gets busy",
			"A quick stretch now will undo the morning's desk time",
			"Evening stretching helps you sleep better — worth five minutes",
		},
		interest:     "fitness",
		interestTail: " Flexibility work supports everything else you train.",
	},
	"drink_water": {
		bands: [3]string{
			"Start the day with a big glass of water 💧",
			"Hydration check: have some water with lunch 💧",
			"Catch up on water before the evening — your body will notice 💧",
		},
	},
}

// genericSuggestions is the fallback template, with the habit name
// substituted (underscores become spaces).
var genericSuggestions = [3]string{
	"Morning is a great time to get \"%s\" done!",
	"Quick midday reminder: \"%s\" hasn't happened yet today.",
	"There's still time today for \"%s\"!",
}

func hourBand(hour int) int {
	switch {
	case hour < 10:
		return bandMorning
	case hour < 14:
		return bandMidday
	default:
		return bandEvening
	}
}

// suggestionFor picks the suggestion text for a missed habit.
// Deterministic: same inputs always yield the same text.
func suggestionFor(habitName string, hour int, interests []string) string {
	band := hourBand(hour)

	entry, ok := suggestionTable[habitName]
	if !ok {
		pretty := strings.ReplaceAll(habitName, "_", " ")
		return strings.Replace(genericSuggestions[band], "%s", pretty, 1)
	}

	text := entry.bands[band]
	if entry.interest != "" && entry.interestTail != "" && matchesInterest(entry.interest, interests) {
		text += entry.interestTail
	}
	return text
}

func matchesInterest(keyword string, interests []string) bool {
	for _, interest := range interests {
		if strings.Contains(strings.ToLower(interest), keyword) {
			return true
		}
	}
	return false
}
