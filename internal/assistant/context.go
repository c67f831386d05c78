package assistant

import "github.com/firebase/genkit/go/ai"

// AgentContext is optional per-request state supplied by the caller: who is
// asking, what has been said so far, and any active catalogue filters.
// The caller owns it; the core reads it and never mutates it.
type AgentContext struct {
	UserID   string
	History  []*ai.Message
	Genre    string
	Province string
}

// history returns the conversation history, tolerating a nil context.
func (c *AgentContext) history() []*ai.Message {
	if c == nil {
		return nil
	}
	return c.History
}

// deepCopyMessages copies messages including their Content slices.
// Genkit renders messages in place, so sharing message objects between
// concurrent generate calls would race.
func deepCopyMessages(messages []*ai.Message) []*ai.Message {
	if len(messages) == 0 {
		return nil
	}
	copied := make([]*ai.Message, len(messages))
	for i, msg := range messages {
		m := *msg
		m.Content = make([]*ai.Part, len(msg.Content))
		copy(m.Content, msg.Content)
		copied[i] = &m
	}
	return copied
}
