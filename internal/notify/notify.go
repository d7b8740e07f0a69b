// Package notify holds the transient user-facing banner state. One slot,
// last message wins, auto-expires after a fixed window; a second message
// inside the window simply replaces the first.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a banner stays visible before self-clearing.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

type Center struct {
	mu      sync.Mutex
	current Message
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Center)

// WithTTL overrides the expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func New(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Success publishes a success banner. Safe on a nil Center.
func (c *Center) Success(text string) {
	c.publish(Message{Kind: KindSuccess, Text: text})
}

// Error publishes an error banner. Safe on a nil Center.
func (c *Center) Error(text string) {
	c.publish(Message{Kind: KindError, Text: text})
}

func (c *Center) publish(msg Message) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = msg
	c.expires = c.now().Add(c.ttl)
}

// Current returns the active banner, if any is still within its window.
func (c *Center) Current() (Message, bool) {
	if c == nil {
		return Message{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expires.IsZero() || !c.now().Before(c.expires) {
		return Message{}, false
	}
	return c.current, true
}
