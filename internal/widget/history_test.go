package widget

import "testing"

func TestHistoryAppendPreservesOrder(t *testing.T) {
	h := NewHistory()
	h.Append(Message{Role: RoleUser, Text: "first"})
	h.Append(Message{Role: RoleAssistant, Text: "second"})
	h.Append(Message{Role: RoleUser, Text: "third"})

	messages := h.Messages()
	want := []string{"first", "second", "third"}
	if len(messages) != len(want) {
		t.Fatalf("length = %d, want %d", len(messages), len(want))
	}
	for i, text := range want {
		if messages[i].Text != text {
			t.Errorf("messages[%d].Text = %q, want %q", i, messages[i].Text, text)
		}
	}
}

func TestHistoryEmptyIsObservable(t *testing.T) {
	h := NewHistory()
	if !h.Empty() {
		t.Error("new history should be empty")
	}
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history should report absence")
	}

	h.Append(Message{Role: RoleUser, Text: "hi"})
	if h.Empty() {
		t.Error("history with a message should not be empty")
	}
	last, ok := h.Last()
	if !ok || last.Text != "hi" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestHistoryRevisionTracksAppends(t *testing.T) {
	h := NewHistory()
	if h.Revision() != 0 {
		t.Fatalf("initial revision = %d, want 0", h.Revision())
	}

	h.Append(Message{Role: RoleUser, Text: "a"})
	h.Append(Message{Role: RoleAssistant, Text: "b"})
	if h.Revision() != 2 {
		t.Errorf("revision = %d, want 2", h.Revision())
	}
}

func TestHistoryAppendStampsTimestamp(t *testing.T) {
	h := NewHistory()
	stored := h.Append(Message{Role: RoleUser, Text: "hi"})
	if stored.Timestamp == "" {
		t.Error("append did not stamp a timestamp")
	}

	// A caller-provided timestamp is kept as-is.
	stored = h.Append(Message{Role: RoleUser, Text: "hi", Timestamp: "09:30"})
	if stored.Timestamp != "09:30" {
		t.Errorf("timestamp = %q, want caller's value", stored.Timestamp)
	}
}

func TestHistoryMessagesReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Append(Message{Role: RoleUser, Text: "original"})

	messages := h.Messages()
	messages[0].Text = "mutated"

	fresh := h.Messages()
	if fresh[0].Text != "original" {
		t.Error("mutating the returned slice affected the store")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Append(Message{Role: RoleUser, Text: "hi"})
	rev := h.Revision()

	h.Clear()
	if !h.Empty() {
		t.Error("history not empty after Clear")
	}
	if h.Revision() <= rev {
		t.Error("Clear should advance the revision")
	}
}
