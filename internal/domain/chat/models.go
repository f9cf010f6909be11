package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Message is one turn in the assistant conversation. Data carries the parsed
// extraction on assistant turns that produced one; it is display-only and
// never re-validated.
type Message struct {
	ID     string
	Text   string
	IsUser bool
	Data   *Extraction
}

// Conversation is the append-only in-memory transcript of one chat session.
// It lives as long as the session and is never persisted.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a transcript seeded with the assistant greeting.
func NewConversation(greeting string) *Conversation {
	c := &Conversation{}
	c.Append(greeting, false, nil)
	return c
}

// Append adds a message at the end of the transcript and returns it.
func (c *Conversation) Append(text string, isUser bool, data *Extraction) Message {
	msg := Message{
		ID:     uuid.NewString(),
		Text:   text,
		IsUser: isUser,
		Data:   data,
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg
}

// Messages returns a snapshot of the transcript in chronological order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len reports the number of messages in the transcript.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
