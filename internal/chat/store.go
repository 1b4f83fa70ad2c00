package chat

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrDuplicateID is returned when appending a message whose id is taken
var ErrDuplicateID = errors.New("duplicate message id")

// EventKind says how the conversation changed
type EventKind int

const (
	EventAppended EventKind = iota
	EventUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event describes one mutation of the Store
type Event struct {
	Kind    EventKind
	Message Message
	Index   int
}

// Store is the ordered conversation. Insertion order is display order.
// Messages are only appended or have their text replaced in place.
//
// Store is not safe for concurrent use; it is mutated from a single event
// loop.
type Store struct {
	messages  []Message
	index     map[string]int
	listeners []func(Event)
}

// NewStore creates a store seeded with the given messages
func NewStore(seed ...Message) *Store {
	s := &Store{
		messages: make([]Message, 0, len(seed)+16),
		index:    make(map[string]int, len(seed)+16),
	}
	for _, m := range seed {
		if err := s.Append(m); err != nil {
			log.Warn().Err(err).Str("id", m.ID).Msg("dropping seed message")
		}
	}
	return s
}

// Subscribe registers fn to be called after every mutation
func (s *Store) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Append adds a message at the end of the conversation
func (s *Store) Append(m Message) error {
	if m.ID == "" {
		return fmt.Errorf("message id is required")
	}
	if _, exists := s.index[m.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
	}

	s.index[m.ID] = len(s.messages)
	s.messages = append(s.messages, m)
	s.notify(Event{Kind: EventAppended, Message: m, Index: len(s.messages) - 1})
	return nil
}

// UpdateText replaces the text of the message with the given id. It returns
// false if no such message exists, which the turn controller never causes.
func (s *Store) UpdateText(id, text string) bool {
	i, ok := s.index[id]
	if !ok {
		log.Error().Str("id", id).Msg("update for unknown message id")
		return false
	}

	s.messages[i].Text = text
	s.notify(Event{Kind: EventUpdated, Message: s.messages[i], Index: i})
	return true
}

// Get returns the message with the given id
func (s *Store) Get(id string) (Message, bool) {
	i, ok := s.index[id]
	if !ok {
		return Message{}, false
	}
	return s.messages[i], true
}

// Messages returns a copy of the conversation in display order
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	return len(s.messages)
}

// Last returns the most recent message from sender
func (s *Store) Last(sender Sender) (Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == sender {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

func (s *Store) notify(ev Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}
