// Package notify holds the transient toast stack and the single modal surface.
package notify

import (
	"slices"
	"sync"
	"time"
)

// Severity of a toast.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Toast is one transient notification.
type Toast struct {
	ID        uint64
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// Modal is the single overlay surface.
type Modal struct {
	Title string
	Body  string
}

// Center owns the toast stack and the modal.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nextID uint64
	toasts []Toast
	modal  *Modal
}

// Option configures a Center.
type Option func(*Center)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// New returns a Center whose toasts live for ttl.
func New(ttl time.Duration, opts ...Option) *Center {
	c := &Center{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL is how long a toast stays visible.
func (c *Center) TTL() time.Duration { return c.ttl }

// Notify appends a toast. Older toasts are left alone.
func (c *Center) Notify(msg string, severity Severity) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := Toast{
		ID:        c.nextID,
		Message:   msg,
		Severity:  severity,
		ExpiresAt: c.now().Add(c.ttl),
	}
	c.toasts = append(c.toasts, t)
	return t
}

// Expire removes one toast. It reports whether the toast was still present.
func (c *Center) Expire(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	c.toasts = slices.Delete(c.toasts, i, i+1)
	return true
}

// Active returns the toasts not yet expired at now, oldest first.
func (c *Center) Active(now time.Time) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Toast
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			out = append(out, t)
		}
	}
	return out
}

// Prune drops expired toasts and returns how many were removed.
func (c *Center) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.toasts)
	c.toasts = slices.DeleteFunc(c.toasts, func(t Toast) bool { return !now.Before(t.ExpiresAt) })
	return before - len(c.toasts)
}

// ShowModal opens a modal, replacing any open one.
func (c *Center) ShowModal(title, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = &Modal{Title: title, Body: body}
}

// CloseModal closes the modal if one is open.
func (c *Center) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = nil
}

// Modal returns a copy of the open modal, or nil.
func (c *Center) Modal() *Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == nil {
		return nil
	}
	m := *c.modal
	return &m
}
