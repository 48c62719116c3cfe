package voice

import (
	"sync"

	"github.com/seu-repo/voxwallet/internal/ports"
)

// Registry hands out one assistant per user, created on first use. Every
// websocket connection and REST call from the same user drives the same
// dialogue, so a transfer started on the phone can be confirmed on the
// desktop.
type Registry struct {
	mu      sync.Mutex
	factory func(userID string) ports.Assistant
	active  map[string]ports.Assistant
}

func NewRegistry(factory func(userID string) ports.Assistant) *Registry {
	return &Registry{
		factory: factory,
		active:  make(map[string]ports.Assistant),
	}
}

func (r *Registry) Get(userID string) ports.Assistant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assistant, ok := r.active[userID]; ok {
		return assistant
	}
	assistant := r.factory(userID)
	r.active[userID] = assistant
	return assistant
}

// Remove drops a user's session, abandoning any dialogue state. Called
// on logout.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, userID)
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
