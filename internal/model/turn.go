package model

import "time"

// SpeakerUser identifies the visitor side of a conversation. Agent turns
// use the configured agent name as the speaker.
const SpeakerUser = "user"

// ConversationTurn is a single message in a session's history, ordered by
// timestamp. Intent is set on user turns only.
type ConversationTurn struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Intent    string    `json:"intent,omitempty"`
}
