// Package session keeps per-conversation message history for the chat API.
//
// Sessions live in process memory and are keyed by UUID. History is
// trimmed to a configurable window so long conversations do not grow
// the prompt without bound.
package session

import (
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// History encapsulates conversation history with thread-safe access.
//
// The zero value is not useful. Use NewHistory to create instances.
type History struct {
	mu       sync.RWMutex
	messages []*ai.Message
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{messages: make([]*ai.Message, 0)}
}

// NewHistoryFromMessages creates a History seeded with messages.
// Makes a defensive copy to prevent external modification.
func NewHistoryFromMessages(messages []*ai.Message) *History {
	h := NewHistory()
	h.SetMessages(messages)
	return h
}

// SetMessages replaces all messages in the history.
// Makes a defensive copy to prevent external modification.
func (h *History) SetMessages(messages []*ai.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]*ai.Message, len(messages))
	copy(h.messages, messages)
}

// Messages returns a copy of all messages for thread-safe access.
func (h *History) Messages() []*ai.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]*ai.Message, len(h.messages))
	copy(result, h.messages)
	return result
}

// Add appends a user message and the assistant's reply as a pair.
func (h *History) Add(userInput, assistantResponse string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages,
		ai.NewUserMessage(ai.NewTextPart(userInput)),
		ai.NewModelMessage(ai.NewTextPart(assistantResponse)),
	)
}

// AddMessage appends a single message. A nil msg is ignored.
func (h *History) AddMessage(msg *ai.Message) {
	if msg == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// Count returns the number of messages.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear removes all messages.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]*ai.Message, 0)
}

// Trim drops the oldest messages until at most max remain.
// Trimming keeps whole messages only. max <= 0 is a no-op.
func (h *History) Trim(max int) {
	if max <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.messages) <= max {
		return
	}
	trimmed := make([]*ai.Message, max)
	copy(trimmed, h.messages[len(h.messages)-max:])
	h.messages = trimmed
}

// Session is a single conversation with its listener context.
type Session struct {
	ID        uuid.UUID
	History   *History
	Genre     string
	Province  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
