// Package views keeps interactive message components alive between the
// interaction that created them and the button presses that follow.
package views

import (
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// TTL bounds how long a view stays addressable. Discord interaction tokens
// expire after fifteen minutes, after which a view can no longer edit its
// message anyway.
const TTL = 15 * time.Minute

type entry struct {
	kind    string
	owner   string
	view    any
	created time.Time
}

// Registry maps view ids to live views.
type Registry struct {
	views map[string]*entry
	mu    sync.RWMutex
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string]*entry),
		now:   time.Now,
	}
}

// Add stores v under a fresh id and returns the id. Expired views are
// dropped on the way.
func (r *Registry) Add(kind, owner string, v any) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.views {
		if now.Sub(e.created) > TTL {
			delete(r.views, id)
		}
	}

	id := shortuuid.New()
	r.views[id] = &entry{kind: kind, owner: owner, view: v, created: now}
	return id
}

// Get returns the view stored under id along with its owner.
func (r *Registry) Get(id string) (view any, owner string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, exists := r.views[id]
	if !exists || r.now().Sub(e.created) > TTL {
		return nil, "", false
	}
	return e.view, e.owner, true
}

// Replace swaps the view stored under id, keeping its owner and age.
func (r *Registry) Replace(id string, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, exists := r.views[id]
	if !exists {
		return false
	}
	e.view = v
	return true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Lookup is Get with a type assertion.
func Lookup[T any](r *Registry, id string) (T, string, bool) {
	var zero T
	v, owner, ok := r.Get(id)
	if !ok {
		return zero, "", false
	}
	t, ok := v.(T)
	if !ok {
		return zero, "", false
	}
	return t, owner, true
}

// CustomID builds a component custom id of the form kind:view:action.
func CustomID(kind, viewID, action string) string {
	return kind + ":" + viewID + ":" + action
}

// ParseCustomID splits a custom id built by CustomID.
func ParseCustomID(customID string) (kind, viewID, action string, ok bool) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
