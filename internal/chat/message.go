// Package chat holds the conversation state and the turn state machine that
// streams a model reply into a placeholder message.
package chat

import (
	"github.com/google/uuid"

	"github.com/diogo/healthchat/internal/models"
)

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one conversational turn. ID is the only lookup key and never
// changes; Sender is fixed at creation; Text grows while a reply streams.
type Message struct {
	ID     string
	Text   string
	Sender Sender
}

// IsUser reports whether the user authored the message
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IDFunc generates a fresh message id for a sender
type IDFunc func(Sender) string

// NewID returns "<sender>-<uuid>"
func NewID(sender Sender) string {
	return string(sender) + "-" + uuid.NewString()
}

// Greeting returns the seeded bot greeting
func Greeting() Message {
	return Message{
		ID:     models.GreetingID,
		Text:   models.GreetingText,
		Sender: SenderBot,
	}
}
