package habits

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Outcome tags what UpdateHabit did, so callers can format replies
// without inspecting message text.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCreated
	OutcomeContinued
	OutcomeReset
	OutcomeAlreadyDone
)

// UpdateResult is the result of a habit completion.
type UpdateResult struct {
	Success   bool
	Message   string
	NewStreak int
	Outcome   Outcome
}

// Result is the generic success/message pair for non-streak operations.
type Result struct {
	Success bool
	Message string
}

// MissedCheck reports which habits have not been completed today.
type MissedCheck struct {
	HasMissedHabits bool
	MissedHabits    []string
	Suggestions     []string
}

// maxVideoRecommendations caps the per-user recommendation history.
const maxVideoRecommendations = 20

// Engine implements the streak and activity bookkeeping over a Store.
// The clock is injectable so day-boundary behavior is testable.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// SetClock overrides the engine clock. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// today returns the current calendar date as YYYY-MM-DD.
func (e *Engine) today() string {
	return e.now().Format("2006-01-02")
}

// daysBetween returns the whole calendar days from one YYYY-MM-DD date
// to another. Unparsable dates count as "long ago" so a corrupt entry
// resets rather than wedges the habit.
func daysBetween(from, to string) int {
	a, errA := time.Parse("2006-01-02", from)
	b, errB := time.Parse("2006-01-02", to)
	if errA != nil || errB != nil {
		return 1 << 20
	}
	return int(b.Sub(a).Hours() / 24)
}

// UpdateHabit marks a habit complete for today.
//
// Streak rules on the calendar-day gap since lastCompleted:
//
//	0  — already done today; no mutation, success with current streak
//	1  — continuation; streak += 1
//	>1 — broken streak; reset to 1
//	<0 — lastCompleted is in the future (clock skew); reset to 1
func (e *Engine) UpdateHabit(userID, habitName string) UpdateResult {
	doc, err := e.store.Load()
	if err != nil {
		slog.Error("load state failed", "error", err)
		return UpdateResult{Message: "User not found"}
	}
	today := e.today()

	user, ok := doc[userID]
	if !ok {
		return UpdateResult{Message: "User not found"}
	}
	if user.Habits == nil {
		user.Habits = make(map[string]Habit)
	}

	var outcome Outcome
	habit, exists := user.Habits[habitName]
	if !exists {
		habit = Habit{Streak: 1, LastCompleted: today, Description: habitName}
		outcome = OutcomeCreated
	} else {
		switch diff := daysBetween(habit.LastCompleted, today); {
		case diff == 0:
			return UpdateResult{
				Success:   true,
				Message:   fmt.Sprintf("Habit already completed today. Current streak: %d days", habit.Streak),
				NewStreak: habit.Streak,
				Outcome:   OutcomeAlreadyDone,
			}
		case diff == 1:
			habit.Streak++
			habit.LastCompleted = today
			outcome = OutcomeContinued
		case diff < 0:
			// Future lastCompleted means the clock moved backwards or the
			// document was edited by hand. Treated as a broken streak.
			slog.Warn("habit lastCompleted is in the future, resetting streak",
				"user", userID, "habit", habitName, "last", habit.LastCompleted)
			habit.Streak = 1
			habit.LastCompleted = today
			outcome = OutcomeReset
		default:
			habit.Streak = 1
			habit.LastCompleted = today
			outcome = OutcomeReset
		}
	}

	user.Habits[habitName] = habit
	doc[userID] = user
	if err := e.store.Save(doc); err != nil {
		slog.Error("save state failed", "user", userID, "habit", habitName, "error", err)
	}

	return UpdateResult{
		Success:   true,
		Message:   "Habit updated successfully",
		NewStreak: habit.Streak,
		Outcome:   outcome,
	}
}

// LogActivity appends an activity entry for today. The type is free-form;
// anything the model produces is accepted.
func (e *Engine) LogActivity(userID, activityType, details, mood string) Result {
	doc, err := e.store.Load()
	if err != nil {
		slog.Error("load state failed", "error", err)
		return Result{Message: "User not found"}
	}

	user, ok := doc[userID]
	if !ok {
		return Result{Message: "User not found"}
	}

	user.Activities = append(user.Activities, Activity{
		Date:    e.today(),
		Type:    activityType,
		Details: details,
		Mood:    mood,
	})
	doc[userID] = user
	if err := e.store.Save(doc); err != nil {
		slog.Error("save state failed", "user", userID, "error", err)
	}

	return Result{Success: true, Message: "Activity logged successfully"}
}

// LogVideoRecommendation prepends a research result to the user's
// recommendation history, evicting the oldest beyond the cap.
func (e *Engine) LogVideoRecommendation(userID, query string, rec VideoRecommendation) Result {
	doc, err := e.store.Load()
	if err != nil {
		slog.Error("load state failed", "error", err)
		return Result{Message: "User not found"}
	}

	user, ok := doc[userID]
	if !ok {
		return Result{Message: "User not found"}
	}

	rec.Date = e.today()
	rec.Query = query
	user.VideoRecommendations = append([]VideoRecommendation{rec}, user.VideoRecommendations...)
	if len(user.VideoRecommendations) > maxVideoRecommendations {
		user.VideoRecommendations = user.VideoRecommendations[:maxVideoRecommendations]
	}
	doc[userID] = user
	if err := e.store.Save(doc); err != nil {
		slog.Error("save state failed", "user", userID, "error", err)
	}

	return Result{Success: true, Message: "Video recommendation saved"}
}

// MissedHabitsToday lists the user's habits not yet completed today,
// with a suggestion for each. Suggestions are a pure function of
// (habit name, current hour, interests) — no model call, no randomness.
func (e *Engine) MissedHabitsToday(userID string) MissedCheck {
	doc, err := e.store.Load()
	if err != nil {
		slog.Error("load state failed", "error", err)
		return MissedCheck{}
	}
	user, ok := doc[userID]
	if !ok {
		return MissedCheck{}
	}

	today := e.today()
	hour := e.now().Hour()

	names := make([]string, 0, len(user.Habits))
	for name := range user.Habits {
		names = append(names, name)
	}
	sort.Strings(names)

	var check MissedCheck
	for _, name := range names {
		if user.Habits[name].LastCompleted == today {
			continue
		}
		check.MissedHabits = append(check.MissedHabits, name)
		check.Suggestions = append(check.Suggestions, suggestionFor(name, hour, user.Preferences.Interests))
	}
	check.HasMissedHabits = len(check.MissedHabits) > 0
	return check
}

// FormatMissedHabitsMessage renders the reminder message, or an empty
// string when nothing was missed.
func (e *Engine) FormatMissedHabitsMessage(missed, suggestions []string) string {
	if len(missed) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("🔔 Quick reminder — a few habits are still open today:\n\n")
	for _, s := range suggestions {
		sb.WriteString("• ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("\nSmall steps keep streaks alive! 💪")
	return sb.String()
}

// ContextForUser renders a one-line summary of the user's state for the
// model prompt. Unknown users get a fixed sentinel.
func (e *Engine) ContextForUser(userID string) string {
	user, ok := e.UserData(userID)
	if !ok {
		return "No user data found"
	}

	names := make([]string, 0, len(user.Habits))
	for name := range user.Habits {
		names = append(names, name)
	}
	sort.Strings(names)

	habitParts := make([]string, 0, len(names))
	for _, name := range names {
		h := user.Habits[name]
		habitParts = append(habitParts, fmt.Sprintf("%s: %d day streak (last: %s)", name, h.Streak, h.LastCompleted))
	}

	recent := user.Activities
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	activityParts := make([]string, 0, len(recent))
	for _, a := range recent {
		activityParts = append(activityParts, fmt.Sprintf("%s: %s - %s", a.Date, a.Type, a.Details))
	}

	return fmt.Sprintf("User: %s. Current habits: %s. Recent activities: %s. Interests: %s. Goals: %s.",
		user.Name,
		strings.Join(habitParts, ", "),
		strings.Join(activityParts, "; "),
		strings.Join(user.Preferences.Interests, ", "),
		strings.Join(user.Preferences.Goals, ", "),
	)
}

// UserData returns the record for a user, if present.
func (e *Engine) UserData(userID string) (UserRecord, bool) {
	doc, err := e.store.Load()
	if err != nil {
		slog.Error("load state failed", "error", err)
		return UserRecord{}, false
	}
	user, ok := doc[userID]
	return user, ok
}
