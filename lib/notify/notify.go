// Package notify is the user-visible notification channel. Vendor
// adapters publish API errors here in addition to returning them, so
// the surface the user watches sees every vendor complaint while the
// calling code keeps its own control flow.
package notify

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is one notification. Level is "error" for vendor API failures;
// adapters do not publish anything else today.
type Event struct {
	Id       string    `json:"id"`
	Level    string    `json:"level"`
	Provider string    `json:"provider"`
	Message  string    `json:"message"`
	Info     string    `json:"info,omitempty"`
	At       time.Time `json:"at"`
}

// Center is a bounded in-memory ring of recent events. Oldest events
// fall off once capacity is reached.
type Center struct {
	mu     sync.Mutex
	events []Event
	cap    int
}

// NewCenter creates a notification center holding at most capacity
// events. Capacity below 1 defaults to 100.
func NewCenter(capacity int) *Center {
	if capacity < 1 {
		capacity = 100
	}
	return &Center{cap: capacity}
}

// Publish records a vendor error notification. Implements the
// agent.Notifier interface.
func (c *Center) Publish(provider, message, info string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, Event{
		Id:       ulid.Make().String(),
		Level:    "error",
		Provider: provider,
		Message:  message,
		Info:     info,
		At:       time.Now().UTC(),
	})
	if len(c.events) > c.cap {
		c.events = c.events[len(c.events)-c.cap:]
	}
}

// Events returns a snapshot of recent events, newest last.
func (c *Center) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
