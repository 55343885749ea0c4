// Package intent extracts tool invocations from raw model output.
//
// The model signals intent with inline markup: "TOOL_CALL:" followed by a
// JSON object for a single tool, or "TOOL_CALLS:" followed by a JSON list
// for a batch. Anything else is a conversational reply passed through
// verbatim.
package intent

import (
	"encoding/json"
	"log/slog"
	"regexp"
)

// Invocation is one tool call requested by the model.
type Invocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is the parsed form of one model reply. Exactly one of
// ToolCalls, ToolCall, or Text is populated.
type Response struct {
	ToolCalls []Invocation
	ToolCall  *Invocation
	Text      string
}

var (
	toolCallsRe = regexp.MustCompile(`TOOL_CALLS:\s*(\[.*\])`)
	toolCallRe  = regexp.MustCompile(`TOOL_CALL:\s*(\{.*\})`)
)

// Parse classifies raw model output. The batch marker is checked before
// the single marker — "TOOL_CALLS:" contains "TOOL_CALL:" as a substring,
// so order matters. Malformed JSON after a marker is logged and the whole
// reply degrades to conversational text.
//
// The caller's userID is force-set on every invocation's arguments,
// overwriting anything the model put there. Identity comes from the
// transport, never from model output.
func Parse(text, userID string) Response {
	if m := toolCallsRe.FindStringSubmatch(text); m != nil {
		var calls []Invocation
		if err := json.Unmarshal([]byte(m[1]), &calls); err != nil {
			slog.Error("failed to parse tool call batch", "error", err, "raw", m[1])
			return Response{Text: text}
		}
		for i := range calls {
			if calls[i].Arguments == nil {
				calls[i].Arguments = make(map[string]any)
			}
			calls[i].Arguments["userId"] = userID
		}
		return Response{ToolCalls: calls}
	}

	if m := toolCallRe.FindStringSubmatch(text); m != nil {
		var call Invocation
		if err := json.Unmarshal([]byte(m[1]), &call); err != nil {
			slog.Error("failed to parse tool call", "error", err, "raw", m[1])
			return Response{Text: text}
		}
		if call.Arguments == nil {
			call.Arguments = make(map[string]any)
		}
		call.Arguments["userId"] = userID
		return Response{ToolCall: &call}
	}

	return Response{Text: text}
}
