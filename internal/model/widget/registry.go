package widget

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out sessions by id, creating them on first use.
type Registry struct {
	converter converter
	store     valuesStore
	generate  func() int

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(converter converter, store valuesStore, generate func() int) *Registry {
	return &Registry{
		converter: converter,
		store:     store,
		generate:  generate,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a session with a fresh random id.
func (r *Registry) Create() *Session {
	return r.Get(uuid.New().String())
}

// Lookup returns the session with id only if it already exists.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = newSession(id, r.converter, r.store, r.generate)
		r.sessions[id] = s
	}
	return s
}
