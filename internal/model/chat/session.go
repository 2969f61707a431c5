package chat

import (
	"time"

	"github.com/google/uuid"
)

// Hunger level bounds. 0 means starving, MaxHunger means full; the
// background timer decrements toward 0 and feeding increments.
const (
	MinHunger          = 0
	MaxHunger          = 5
	HungerWarnLevel    = 2
	DefaultHungerLevel = 3
)

// Session is the full mutable state of one conversation. It is owned by
// a single session service; callers must not mutate it concurrently.
type Session struct {
	Messages       []Message `json:"messages"`
	CurrentEmotion string    `json:"currentEmotion"`
	HungerLevel    int       `json:"hungerLevel"`
	HasGreeted     bool      `json:"hasGreeted"`
	UserName       string    `json:"userName"`
	StoryIndex     int       `json:"storyIndex"`
	LastSaved      time.Time `json:"lastSaved,omitempty"`
}

// NewSession returns a fresh session with default emotion and hunger.
func NewSession() *Session {
	return &Session{
		Messages:       make([]Message, 0, 16),
		CurrentEmotion: EmotionHappy,
		HungerLevel:    DefaultHungerLevel,
	}
}

// Append adds a message to the transcript and returns it. Daisy
// messages carry their emotion and update the session's current one.
func (s *Session) Append(text, sender, msgType, emotion string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Type:      msgType,
		CreatedAt: time.Now().UTC(),
	}
	if sender == SenderDaisy {
		msg.Emotion = emotion
		if ValidEmotion(emotion) {
			s.CurrentEmotion = emotion
		}
	}
	s.Messages = append(s.Messages, msg)
	return msg
}

// AdjustHunger applies delta and clamps to [MinHunger, MaxHunger].
func (s *Session) AdjustHunger(delta int) {
	s.HungerLevel = ClampHunger(s.HungerLevel + delta)
}

// ClampHunger forces a hunger value into the legal range.
func ClampHunger(level int) int {
	if level < MinHunger {
		return MinHunger
	}
	if level > MaxHunger {
		return MaxHunger
	}
	return level
}
