// Package tools implements Aura's fixed tool catalogue: the named
// operations the model may invoke on a user's behalf.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aura-labs/aura/pkg/habits"
)

// Result is the outcome of one tool execution.
type Result struct {
	Success bool
	Message string

	// Streak is set only by updateHabit, for streak-tiered formatting.
	Streak *int

	// AlreadyDone is set by updateHabit when the habit was completed
	// earlier today, so the reply formatter can phrase it differently.
	AlreadyDone bool
}

// Registry dispatches tool invocations by name. The catalogue is fixed:
// logActivity, updateHabit, research, getHabitStatus.
type Registry struct {
	engine  *habits.Engine
	youtube *YouTubeClient
}

// NewRegistry creates a registry over the habit engine and video search
// client.
func NewRegistry(engine *habits.Engine, youtube *YouTubeClient) *Registry {
	return &Registry{engine: engine, youtube: youtube}
}

// Execute runs the named tool with the given arguments. Unknown names
// and bad arguments come back as failed Results, never as panics — one
// bad call in a batch must not take down the rest.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) Result {
	slog.Info("executing tool", "tool", name)

	switch name {
	case "logActivity":
		return r.logActivity(args)
	case "updateHabit":
		return r.updateHabit(args)
	case "research":
		return r.research(ctx, args)
	case "getHabitStatus":
		return r.getHabitStatus(args)
	default:
		return Result{Success: false, Message: fmt.Sprintf("Tool %q not found", name)}
	}
}

func (r *Registry) logActivity(args map[string]any) Result {
	res := r.engine.LogActivity(
		argString(args, "userId"),
		argString(args, "type"),
		argString(args, "details"),
		argString(args, "mood"),
	)
	return Result{Success: res.Success, Message: res.Message}
}

func (r *Registry) updateHabit(args map[string]any) Result {
	res := r.engine.UpdateHabit(argString(args, "userId"), argString(args, "habitName"))
	streak := res.NewStreak
	return Result{
		Success:     res.Success,
		Message:     res.Message,
		Streak:      &streak,
		AlreadyDone: res.Outcome == habits.OutcomeAlreadyDone,
	}
}

func (r *Registry) research(ctx context.Context, args map[string]any) Result {
	userID := argString(args, "userId")
	topic := argString(args, "topic")

	if r.youtube != nil && r.youtube.Configured() {
		query := EnhanceQuery(topic)
		videos, err := r.youtube.Search(ctx, query, 1)
		if err != nil {
			slog.Warn("video search failed, using canned answer", "topic", topic, "error", err)
		} else if len(videos) > 0 {
			v := videos[0]
			r.engine.LogVideoRecommendation(userID, query, habits.VideoRecommendation{
				Title:        v.Title,
				ChannelTitle: v.ChannelTitle,
				PublishedAt:  v.PublishedAt,
				VideoID:      v.VideoID,
				URL:          "https://www.youtube.com/watch?v=" + v.VideoID,
				ThumbnailURL: v.ThumbnailURL,
			})
			return Result{Success: true, Message: FormatVideoResult(v, topic)}
		}
	}

	return Result{Success: true, Message: cannedResearchAnswer(topic)}
}

func (r *Registry) getHabitStatus(args map[string]any) Result {
	user, ok := r.engine.UserData(argString(args, "userId"))
	if !ok {
		return Result{Success: false, Message: "User data not found"}
	}

	names := make([]string, 0, len(user.Habits))
	for name := range user.Habits {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("• **%s**: %d day streak", name, user.Habits[name].Streak))
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Here are your current habits:\n\n%s\n\nKeep up the great work! 🎯", strings.Join(lines, "\n")),
	}
}

// cannedAnswers serves common research topics when video search is
// unavailable, keyed by topic substring.
var cannedAnswers = []struct {
	keyword string
	answer  string
}{
	{
		"ultramarathon podcasts",
		"Here are some great ultramarathon podcasts:\n\n1. **The Ultrarunning Podcast** - Interviews with elite ultrarunners\n2. **Trails and Tribulations** - Stories from the trail running community\n3. **Endurance Planet** - Training tips and race reports\n\nWould you like me to find specific episodes on any topic?",
	},
	{
		"running training",
		"Here's a basic training plan:\n\n**Week 1-2:** Build base (3-4 runs/week, easy pace)\n**Week 3-4:** Add tempo runs (1x/week)\n**Week 5-6:** Include intervals\n**Week 7:** Taper for race\n\nRemember: 80% easy, 20% hard!",
	},
	{
		"healthy breakfast",
		"Here are some nutritious breakfast ideas:\n\n• **Overnight oats** with berries and nuts\n• **Greek yogurt** with granola and honey\n• **Avocado toast** with eggs\n• **Smoothie bowl** with protein powder\n\nAll provide sustained energy for your day!",
	},
}

func cannedResearchAnswer(topic string) string {
	lower := strings.ToLower(topic)
	for _, c := range cannedAnswers {
		if strings.Contains(lower, c.keyword) {
			return c.answer
		}
	}
	return fmt.Sprintf("I'd be happy to research %q for you! For this demo, I have pre-loaded responses for ultramarathon podcasts, running training, and healthy breakfast ideas. In the full version, I would search the web for the latest information on your topic.", topic)
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
