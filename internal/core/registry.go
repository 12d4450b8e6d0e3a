package core

import "sync"

// Status is a connection's advertised media state.
type Status struct {
	Muted    bool
	VideoOff bool
}

// Identity is what the registry knows about one live connection.
type Identity struct {
	ConnectionID string
	DisplayName  string
	Status       Status
}

type registryEntry struct {
	displayName string
	status      Status
	// named is set once the connection has entered a room and chosen
	// a display name; status updates before that are ignored.
	named bool
}

// Registry owns identity and status for every live connection. Callers
// never touch the underlying map; all access goes through its methods.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
	}
}

// Register records a connection known only by its transport id.
// Registering an already-known id is a no-op.
func (r *Registry) Register(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[connID]; ok {
		return
	}
	r.entries[connID] = &registryEntry{}
}

// SetIdentity records the display name chosen at room create/join time
// and initializes the connection's status to its defaults. Returns false
// if the connection was never registered.
func (r *Registry) SetIdentity(connID, displayName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[connID]
	if !ok {
		return false
	}
	e.displayName = displayName
	e.named = true
	return true
}

// SetStatus updates a connection's media status. Returns false without
// mutating anything if the connection is unknown or never entered a room.
func (r *Registry) SetStatus(connID string, st Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[connID]
	if !ok || !e.named {
		return false
	}
	e.status = st
	return true
}

// Get returns a snapshot of the connection's identity.
func (r *Registry) Get(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[connID]
	if !ok {
		return Identity{}, false
	}
	return Identity{
		ConnectionID: connID,
		DisplayName:  e.displayName,
		Status:       e.status,
	}, true
}

// Remove deletes a connection's entry. Removing an unknown or already
// removed id is not an error.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, connID)
}
