// Package broadcast delivers state-change notifications to tournament viewers.
package broadcast

import "sync"

// Publisher sends a payload to every subscriber of channel.
// Implementations must not block the caller and must not retry.
type Publisher interface {
	Publish(channel, event string, payload any)
}

// Nop discards every notification. Used when broadcasting is disabled.
type Nop struct{}

func (Nop) Publish(string, string, any) {}

// Message is one notification captured by a Recorder.
type Message struct {
	Channel string
	Event   string
	Payload any
}

// Recorder keeps every published notification in memory, in publish order.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(channel, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Channel: channel, Event: event, Payload: payload})
}

// Messages returns a copy of what has been published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Reset forgets all recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
