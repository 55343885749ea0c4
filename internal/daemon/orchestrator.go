package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aura-labs/aura/internal/intent"
	"github.com/aura-labs/aura/internal/llm"
	"github.com/aura-labs/aura/internal/tools"
	"github.com/aura-labs/aura/pkg/channel"
)

// systemPromptTemplate primes the model for intent dispatch. The %s slot
// carries the user's current habits, activities, and preferences.
const systemPromptTemplate = `You are Aura, an intelligent life copilot assistant that helps users track their habits, log activities, and research information. You are conversational, supportive, and proactive in helping users build better habits and achieve their goals.

Your primary goal is to understand what the user wants to do and decide which tool to call, or provide helpful conversational responses when no tool is needed.

CURRENT USER CONTEXT:
%s

AVAILABLE TOOLS:
You can call MULTIPLE tools per response if the user mentions multiple activities. Here are the tools available to you:

1. **logActivity** - Use when the user mentions doing an activity, eating something, or wants to log what they did
   - Parameters: type (string), details (string), mood (optional string)
   - Types include: "exercise", "nutrition", "work", "social", "health", "entertainment", "learning"
   - Call this when user says things like: "I went for a run", "I ate breakfast", "I had a great meeting"

2. **updateHabit** - Use when the user mentions completing a habit or routine they want to track
   - Parameters: habitName (string)
   - Call this when user says: "I took my pills", "I meditated", "I did my morning routine"
   - Habit names should be simple: "take_pills", "meditation", "morning_run", "read_book", etc.

3. **research** - Use when the user asks for information, recommendations, or wants you to find something
   - Parameters: topic (string)
   - Call this when user asks: "Find me podcasts about...", "What are good exercises for...", "Tell me about..."

4. **getHabitStatus** - Use when the user wants to see their current habits and streaks
   - Parameters: (no parameters needed)
   - Call this when user asks: "How are my habits?", "Show me my streaks", "What's my progress?"

DECISION MAKING RULES:
- If the user is logging something they did (past tense), use **logActivity**
- If the user is marking a habit as complete (present tense), use **updateHabit**
- If the user is asking for information or research, use **research**
- If the user wants to see their progress, use **getHabitStatus**
- If none of these apply, respond conversationally without calling a tool

RESPONSE FORMAT:
- If calling ONE tool, respond with: TOOL_CALL: {"name": "toolName", "arguments": {...}}
- If calling MULTIPLE tools, respond with: TOOL_CALLS: [{"name": "toolName1", "arguments": {...}}, {"name": "toolName2", "arguments": {...}}]
- If not calling any tools, respond conversationally and helpfully

PERSONALITY:
- Be encouraging and supportive about habits and streaks
- Celebrate achievements ("Great job on your 7-day streak!")
- Gently remind about missed habits without being pushy
- Be enthusiastic about helping with research
- Use emojis sparingly but effectively (🎯, ✅, 🏃‍♂️, 💊)

EXAMPLES:

User: "I just took my daily vitamins"
Response: TOOL_CALL: {"name": "updateHabit", "arguments": {"habitName": "take_pills"}}

User: "I had oatmeal and berries for breakfast, feeling good"
Response: TOOL_CALL: {"name": "logActivity", "arguments": {"type": "nutrition", "details": "Had oatmeal and berries for breakfast", "mood": "positive"}}

User: "Find me some ultramarathon podcasts"
Response: TOOL_CALL: {"name": "research", "arguments": {"topic": "ultramarathon podcasts"}}

User: "How are my habits going?"
Response: TOOL_CALL: {"name": "getHabitStatus", "arguments": {}}

User: "I took my vitamins and went for a 5k run this morning"
Response: TOOL_CALLS: [{"name": "updateHabit", "arguments": {"habitName": "take_pills"}}, {"name": "logActivity", "arguments": {"type": "exercise", "details": "Went for a 5k run this morning", "mood": "positive"}}]

Remember: You can call multiple tools if the user mentions multiple activities or habits in one message.`

const errorReply = "Sorry, I encountered an error processing your message. Please try again!"

// onMessage handles one incoming message end to end: classify, infer
// intent, execute tools, reply, and maybe schedule a reminder. One bad
// message never takes down the sync loop.
func (d *Daemon) onMessage(ctx context.Context, msg channel.Message) error {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic handling message", "panic", r, "sender", msg.SenderID)
			d.reply(ctx, msg.RoomID, errorReply)
		}
	}()

	start := time.Now()
	slog.Info("processing message",
		"source", msg.Source,
		"sender", msg.SenderID,
		"kind", msg.Kind,
	)
	d.events.Publish(Event{Type: EventChat, Role: "user", Content: msg.Content})

	req, handled := d.buildRequest(ctx, msg)
	if handled {
		return nil
	}

	if !d.router.HasProvider() {
		d.reply(ctx, msg.RoomID, errorReply)
		return nil
	}

	d.ch.SendTyping(ctx, msg.RoomID, true)
	defer d.ch.SendTyping(ctx, msg.RoomID, false)

	req.System = fmt.Sprintf(systemPromptTemplate, d.engine.ContextForUser(msg.SenderID))

	resp, err := d.router.Complete(ctx, req)
	if err != nil {
		slog.Error("model completion failed", "error", err)
		d.events.Publish(Event{Type: EventError, Message: err.Error()})
		d.reply(ctx, msg.RoomID, errorReply)
		return nil
	}

	parsed := intent.Parse(resp.Content, msg.SenderID)
	reply := d.dispatch(ctx, msg, parsed)
	d.reply(ctx, msg.RoomID, reply)

	slog.Info("response ready",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"len", len(reply),
	)
	return nil
}

// buildRequest classifies the message and assembles the model request.
// For unsupported kinds and media failures it sends the apology itself
// and reports handled=true.
func (d *Daemon) buildRequest(ctx context.Context, msg channel.Message) (req llm.CompletionRequest, handled bool) {
	cfg := d.config.LLM.Gemini
	req.MaxTokens = cfg.MaxOutput
	req.Temperature = cfg.Temperature

	switch msg.Kind {
	case channel.KindText:
		req.Prompt = fmt.Sprintf("User message: %q", msg.Content)
		return req, false

	case channel.KindVoice:
		if !msg.HasMedia {
			slog.Warn("voice message has no media", "sender", msg.SenderID)
			d.reply(ctx, msg.RoomID, "I received a voice message but couldn't access the audio. Please try sending it again.")
			return req, true
		}
		audio, err := d.ch.DownloadMedia(ctx, msg)
		if err != nil {
			slog.Error("audio download failed", "error", err)
			d.reply(ctx, msg.RoomID, "Sorry, I had trouble processing your voice message. Could you try again?")
			return req, true
		}
		req.Prompt = "Please process this audio message:"
		req.Audio = audio
		req.AudioMIMEType = msg.MediaMIMEType
		if req.AudioMIMEType == "" {
			req.AudioMIMEType = "audio/ogg"
		}
		return req, false

	default:
		d.reply(ctx, msg.RoomID, "I can only process text messages and voice notes right now. Please try one of those!")
		return req, true
	}
}

// dispatch executes the parsed intent and formats the reply.
func (d *Daemon) dispatch(ctx context.Context, msg channel.Message, parsed intent.Response) string {
	switch {
	case len(parsed.ToolCalls) > 0:
		slog.Info("executing tool batch", "count", len(parsed.ToolCalls))
		reply := d.executeBatch(ctx, parsed.ToolCalls)
		if anyResearch(parsed.ToolCalls) {
			d.scheduleReminder(msg.SenderID, msg.RoomID)
		}
		return reply

	case parsed.ToolCall != nil:
		call := parsed.ToolCall
		slog.Info("executing tool", "tool", call.Name)
		result := d.registry.Execute(ctx, call.Name, call.Arguments)
		d.events.Publish(Event{Type: EventTool, Tool: call.Name, Message: result.Message})
		if call.Name == "research" {
			d.scheduleReminder(msg.SenderID, msg.RoomID)
		}
		if !result.Success {
			return "❌ " + result.Message
		}
		return formatSuccess(call.Name, result)

	case parsed.Text != "":
		return parsed.Text

	default:
		return "I'm not sure how to help with that. Could you try rephrasing your message?"
	}
}

// executeBatch runs every call in order and aggregates the replies:
// successes joined by blank lines, failures appended with an ❌ prefix.
// A failed call never stops the rest of the batch.
func (d *Daemon) executeBatch(ctx context.Context, calls []intent.Invocation) string {
	var successes, failures []string
	for _, call := range calls {
		result := d.registry.Execute(ctx, call.Name, call.Arguments)
		d.events.Publish(Event{Type: EventTool, Tool: call.Name, Message: result.Message})
		if result.Success {
			successes = append(successes, formatSuccess(call.Name, result))
		} else {
			failures = append(failures, "❌ "+result.Message)
		}
	}

	reply := ""
	for i, s := range successes {
		if i > 0 {
			reply += "\n\n"
		}
		reply += s
	}
	if len(failures) > 0 {
		if reply != "" {
			reply += "\n\n"
		}
		for i, f := range failures {
			if i > 0 {
				reply += "\n"
			}
			reply += f
		}
	}
	if reply == "" {
		reply = "All tasks completed!"
	}
	return reply
}

// formatSuccess renders one successful tool result as a chat reply.
func formatSuccess(toolName string, result tools.Result) string {
	switch toolName {
	case "updateHabit":
		streak := 0
		if result.Streak != nil {
			streak = *result.Streak
		}
		emoji := "✅"
		switch {
		case streak >= 7:
			emoji = "🔥"
		case streak >= 3:
			emoji = "⭐"
		}
		if result.AlreadyDone {
			return fmt.Sprintf("%s %s - Keep it up!", emoji, result.Message)
		}
		return fmt.Sprintf("%s Awesome! Your streak is now %d days strong!", emoji, streak)

	case "logActivity":
		return "📝 Activity logged! Keep tracking your progress."

	default:
		// research and getHabitStatus pass their message through unchanged
		return result.Message
	}
}

func anyResearch(calls []intent.Invocation) bool {
	for _, call := range calls {
		if call.Name == "research" {
			return true
		}
	}
	return false
}

// scheduleReminder queues a missed-habit nudge after the configured
// delay so it does not race the primary reply. Best-effort: failures
// are logged, never surfaced.
func (d *Daemon) scheduleReminder(userID, roomID string) {
	ctx := d.runCtx
	if ctx == nil {
		ctx = context.Background()
	}

	d.scheduler.Schedule(ctx, roomID, d.config.ReminderDelayDuration(), func(ctx context.Context) error {
		check := d.engine.MissedHabitsToday(userID)
		if !check.HasMissedHabits {
			return nil
		}
		msg := d.engine.FormatMissedHabitsMessage(check.MissedHabits, check.Suggestions)
		if msg == "" {
			return nil
		}
		slog.Info("sending habit reminder", "user", userID, "missed", len(check.MissedHabits))
		d.events.Publish(Event{Type: EventReminder, Message: msg})
		return d.ch.Send(ctx, channel.Response{RoomID: roomID, Content: msg})
	})
}

// reply sends a response back over the channel, logging failures.
func (d *Daemon) reply(ctx context.Context, roomID, content string) {
	d.events.Publish(Event{Type: EventChat, Role: "assistant", Content: content})
	if err := d.ch.Send(ctx, channel.Response{RoomID: roomID, Content: content}); err != nil {
		slog.Error("failed to send response", "room", roomID, "error", err)
	}
}
