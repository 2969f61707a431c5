package chat

import "time"

// Message senders.
const (
	SenderUser  = "user"
	SenderDaisy = "daisy"
)

// Message types.
const (
	TypeChat   = "chat"
	TypeGame   = "game"
	TypeSystem = "system"
)

// Message is one entry in the conversation transcript. Immutable once
// appended to a session.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Type      string    `json:"type"`
	Emotion   string    `json:"emotion,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
