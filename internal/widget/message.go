package widget

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single exchanged utterance.
// Messages are immutable once appended to a History.
type Message struct {
	Role      Role     `json:"role"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`         // formatted local time, set at append
	Sources   []string `json:"sources,omitempty"` // citations on annotated assistant replies
}

// timestampFormat matches the compact clock display the widget renders.
const timestampFormat = "15:04"

func stampNow() string {
	return time.Now().Format(timestampFormat)
}
