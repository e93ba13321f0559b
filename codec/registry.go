package codec

import "sync"

// Registry manages the available encoder profiles, keyed by both their
// short name and their UID.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile // key can be either name or UID
}

var defaultRegistry = &Registry{
	profiles: make(map[string]Profile),
}

// Register registers a profile using both its name and UID.
func Register(p Profile) {
	defaultRegistry.Register(p)
}

// Get retrieves a profile by name or UID.
func Get(nameOrUID string) (Profile, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns all registered profiles (deduplicated).
func List() []Profile {
	return defaultRegistry.List()
}

// Register registers a profile using both its name and UID.
func (r *Registry) Register(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.Name()] = p
	r.profiles[p.UID()] = p
}

// Get retrieves a profile by name or UID.
func (r *Registry) Get(nameOrUID string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[nameOrUID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// List returns all registered profiles (deduplicated).
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Profile]bool)
	out := make([]Profile, 0, len(r.profiles))

	for _, p := range r.profiles {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	return out
}
