package socialgraph

import (
	"fmt"
	"slices"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// ProfileStore maps user identifiers to profiles and remembers load order.
type ProfileStore struct {
	order    []string
	profiles map[string]*domain.Profile
}

// NewProfileStore returns an empty store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*domain.Profile)}
}

// Add stores a copy of p. Identifiers are unique.
func (s *ProfileStore) Add(p domain.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty identifier", domain.ErrUnknownUser)
	}
	if _, ok := s.profiles[p.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateUser, p.ID)
	}
	clone := p.Clone()
	s.profiles[p.ID] = &clone
	s.order = append(s.order, p.ID)
	return nil
}

// Profile returns the stored profile. The pointer is owned by the store and
// must be treated as read-only by callers outside this package.
func (s *ProfileStore) Profile(id string) (*domain.Profile, bool) {
	p, ok := s.profiles[id]
	return p, ok
}

// Has reports whether id is stored.
func (s *ProfileStore) Has(id string) bool {
	_, ok := s.profiles[id]
	return ok
}

// IDs returns identifiers in load order.
func (s *ProfileStore) IDs() []string {
	return slices.Clone(s.order)
}

// Len returns the number of stored profiles.
func (s *ProfileStore) Len() int {
	return len(s.order)
}
