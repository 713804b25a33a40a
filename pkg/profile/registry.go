package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrReferenceProfile is returned when removing or replacing the reference profile
	ErrReferenceProfile = errors.New("the reference profile cannot be modified")
	// ErrProfileExists is returned when adding a profile whose id is taken
	ErrProfileExists = errors.New("profile already exists")
	// ErrProfileNotFound is returned when updating an unknown profile
	ErrProfileNotFound = errors.New("profile not found")
)

// Registry maps profile ids to profiles. It always contains the reference
// profile and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]PrinterProfile
}

// NewRegistry creates a registry seeded with the reference profile
func NewRegistry() *Registry {
	ref := Reference()
	return &Registry{
		profiles: map[uuid.UUID]PrinterProfile{ref.ID: ref},
	}
}

// Default returns the reference profile
func (r *Registry) Default() PrinterProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[ReferenceID]
}

// Get returns the profile with the given id
func (r *Registry) Get(id uuid.UUID) (PrinterProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok
}

// Resolve returns the profile with the given id, or the reference profile
// when id is nil or unknown.
func (r *Registry) Resolve(id uuid.UUID) PrinterProfile {
	if p, ok := r.Get(id); ok {
		return p
	}
	return r.Default()
}

// Add registers a new profile
func (r *Registry) Add(p PrinterProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.ID)
	}
	r.profiles[p.ID] = p
	return nil
}

// Update replaces an existing profile
func (r *Registry) Update(p PrinterProfile) error {
	if p.IsReference() {
		return ErrReferenceProfile
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.ID)
	}
	r.profiles[p.ID] = p
	return nil
}

// Remove deletes a profile and reports whether it existed.
// Removing the reference profile is an error.
func (r *Registry) Remove(id uuid.UUID) (bool, error) {
	if id == ReferenceID {
		return false, ErrReferenceProfile
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return false, nil
	}
	delete(r.profiles, id)
	return true, nil
}

// All returns every profile, the reference profile first and the rest by name
func (r *Registry) All() []PrinterProfile {
	r.mu.RLock()
	out := make([]PrinterProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsReference() != out[j].IsReference() {
			return out[i].IsReference()
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Custom returns every profile except the reference profile, sorted by name
func (r *Registry) Custom() []PrinterProfile {
	all := r.All()
	return all[1:]
}

// FindByName returns the first profile whose name matches case-insensitively
func (r *Registry) FindByName(name string) (PrinterProfile, bool) {
	for _, p := range r.All() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return PrinterProfile{}, false
}

// Lookup resolves a user supplied reference, either a uuid or a profile name.
// An empty reference yields the reference profile.
func (r *Registry) Lookup(ref string) (PrinterProfile, error) {
	if strings.TrimSpace(ref) == "" {
		return r.Default(), nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		if p, ok := r.Get(id); ok {
			return p, nil
		}
		return PrinterProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, ref)
	}
	if p, ok := r.FindByName(ref); ok {
		return p, nil
	}
	return PrinterProfile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, ref)
}
