package intent

import "testing"

const userID = "@alice:matrix.example.com"

func TestParseSingleToolCall(t *testing.T) {
	raw := `TOOL_CALL: {"name": "updateHabit", "arguments": {"habitName": "take_pills"}}`

	resp := Parse(raw, userID)
	if resp.ToolCall == nil {
		t.Fatalf("expected single tool call, got %+v", resp)
	}
	if resp.ToolCall.Name != "updateHabit" {
		t.Errorf("Name = %q, want updateHabit", resp.ToolCall.Name)
	}
	if got := resp.ToolCall.Arguments["habitName"]; got != "take_pills" {
		t.Errorf("habitName = %v, want take_pills", got)
	}
	if got := resp.ToolCall.Arguments["userId"]; got != userID {
		t.Errorf("userId = %v, want %q", got, userID)
	}
}

func TestParseBatchToolCalls(t *testing.T) {
	raw := `TOOL_CALLS: [{"name": "updateHabit", "arguments": {"habitName": "take_pills"}}, {"name": "logActivity", "arguments": {"type": "exercise", "details": "5k run"}}]`

	resp := Parse(raw, userID)
	if len(resp.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls, got %+v", resp)
	}
	if resp.ToolCall != nil || resp.Text != "" {
		t.Errorf("batch response should not carry single call or text: %+v", resp)
	}
	for i, call := range resp.ToolCalls {
		if got := call.Arguments["userId"]; got != userID {
			t.Errorf("call %d userId = %v, want %q", i, got, userID)
		}
	}
}

// "TOOL_CALLS:" contains "TOOL_CALL:" as a substring — the batch form
// must win.
func TestParseBatchBeatsSingleMarker(t *testing.T) {
	raw := `TOOL_CALLS: [{"name": "getHabitStatus", "arguments": {}}]`

	resp := Parse(raw, userID)
	if len(resp.ToolCalls) != 1 || resp.ToolCall != nil {
		t.Fatalf("batch marker parsed as single call: %+v", resp)
	}
}

func TestParseOverridesModelSuppliedUserID(t *testing.T) {
	raw := `TOOL_CALL: {"name": "getHabitStatus", "arguments": {"userId": "@mallory:evil.example"}}`

	resp := Parse(raw, userID)
	if resp.ToolCall == nil {
		t.Fatal("expected tool call")
	}
	if got := resp.ToolCall.Arguments["userId"]; got != userID {
		t.Errorf("userId = %v, want caller identity %q", got, userID)
	}
}

func TestParseNilArgumentsGetUserID(t *testing.T) {
	raw := `TOOL_CALL: {"name": "getHabitStatus"}`

	resp := Parse(raw, userID)
	if resp.ToolCall == nil {
		t.Fatal("expected tool call")
	}
	if got := resp.ToolCall.Arguments["userId"]; got != userID {
		t.Errorf("userId = %v, want %q", got, userID)
	}
}

func TestParseMalformedJSONFallsBackToText(t *testing.T) {
	raw := `TOOL_CALL: {"name": "updateHabit", "arguments":`

	resp := Parse(raw, userID)
	if resp.Text != raw {
		t.Errorf("malformed markup should degrade to text, got %+v", resp)
	}
}

func TestParsePlainText(t *testing.T) {
	raw := "Hey there! I'm doing great and ready to help you with your day."

	resp := Parse(raw, userID)
	if resp.Text != raw || resp.ToolCall != nil || len(resp.ToolCalls) != 0 {
		t.Errorf("plain text misparsed: %+v", resp)
	}
}

func TestParseMarkerMidSentence(t *testing.T) {
	raw := `Sure! TOOL_CALL: {"name": "research", "arguments": {"topic": "ultramarathon podcasts"}}`

	resp := Parse(raw, userID)
	if resp.ToolCall == nil || resp.ToolCall.Name != "research" {
		t.Fatalf("marker with leading prose not extracted: %+v", resp)
	}
}
