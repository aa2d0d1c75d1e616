package socialgraph

import (
	"fmt"
	"slices"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// Session owns a profile store and the graph derived from it. Friend lists
// and graph edges change together, so a Session never exposes a state where
// they disagree.
type Session struct {
	profiles *ProfileStore
	graph    *Graph
	version  uint64
}

// NewSession loads profiles and derives the friendship graph. A friendship
// listed by only one side is mirrored onto the other. Listing an unknown
// identifier fails with domain.ErrUnknownUser.
func NewSession(profiles []domain.Profile) (*Session, error) {
	s := &Session{
		profiles: NewProfileStore(),
		graph:    NewGraph(),
	}

	for _, p := range profiles {
		p.Friends = nil
		if err := s.profiles.Add(p); err != nil {
			return nil, err
		}
		s.graph.AddNode(p.ID)
	}

	for _, p := range profiles {
		for _, friend := range p.Friends {
			if friend == "" {
				continue
			}
			if !s.profiles.Has(friend) {
				return nil, fmt.Errorf("%w: %s listed as friend of %s", domain.ErrUnknownUser, friend, p.ID)
			}
			if err := s.link(p.ID, friend); err != nil {
				return nil, fmt.Errorf("load friends of %s: %w", p.ID, err)
			}
		}
	}
	return s, nil
}

// Store exposes the profile store for read-only queries.
func (s *Session) Store() *ProfileStore {
	return s.profiles
}

// Graph exposes the friendship graph for read-only queries.
func (s *Session) Graph() *Graph {
	return s.graph
}

// Version increases on every successful mutation. Models trained against an
// older version are stale.
func (s *Session) Version() uint64 {
	return s.version
}

// Profile returns a copy of the profile for id.
func (s *Session) Profile(id string) (domain.Profile, error) {
	p, ok := s.profiles.Profile(id)
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrUnknownUser, id)
	}
	return p.Clone(), nil
}

// Snapshot returns copies of every profile in load order.
func (s *Session) Snapshot() []domain.Profile {
	out := make([]domain.Profile, 0, s.profiles.Len())
	for _, id := range s.profiles.IDs() {
		p, _ := s.profiles.Profile(id)
		out = append(out, p.Clone())
	}
	return out
}

// AddProfile registers a new user. Every listed friend must already exist;
// the friendship is mirrored onto them.
func (s *Session) AddProfile(p domain.Profile) error {
	if s.profiles.Has(p.ID) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateUser, p.ID)
	}
	friends := make([]string, 0, len(p.Friends))
	for _, friend := range p.Friends {
		if friend == "" || slices.Contains(friends, friend) {
			continue
		}
		if friend == p.ID {
			return fmt.Errorf("%w: %s", domain.ErrSelfFriendship, p.ID)
		}
		if !s.profiles.Has(friend) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownUser, friend)
		}
		friends = append(friends, friend)
	}

	p.Friends = nil
	if err := s.profiles.Add(p); err != nil {
		return err
	}
	s.graph.AddNode(p.ID)
	for _, friend := range friends {
		if err := s.link(p.ID, friend); err != nil {
			return err
		}
	}
	s.version++
	return nil
}

// AddFriendship connects a and b in both profiles and the graph. It reports
// whether anything changed.
func (s *Session) AddFriendship(a, b string) (bool, error) {
	if err := s.checkPair(a, b); err != nil {
		return false, err
	}
	if s.graph.HasEdge(a, b) {
		return false, nil
	}
	if err := s.link(a, b); err != nil {
		return false, err
	}
	s.version++
	return true, nil
}

// RemoveFriendship disconnects a and b in both profiles and the graph. It
// reports whether anything changed.
func (s *Session) RemoveFriendship(a, b string) (bool, error) {
	if err := s.checkPair(a, b); err != nil {
		return false, err
	}
	if !s.graph.RemoveEdge(a, b) {
		return false, nil
	}
	pa, _ := s.profiles.Profile(a)
	pb, _ := s.profiles.Profile(b)
	pa.Friends = removeValue(pa.Friends, b)
	pb.Friends = removeValue(pb.Friends, a)
	s.version++
	return true, nil
}

func (s *Session) checkPair(a, b string) error {
	if a == b {
		return fmt.Errorf("%w: %s", domain.ErrSelfFriendship, a)
	}
	if !s.profiles.Has(a) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownUser, a)
	}
	if !s.profiles.Has(b) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownUser, b)
	}
	return nil
}

// link adds the edge and mirrors it into both friend lists.
func (s *Session) link(a, b string) error {
	if _, err := s.graph.AddEdge(a, b); err != nil {
		return err
	}
	pa, _ := s.profiles.Profile(a)
	pb, _ := s.profiles.Profile(b)
	if !pa.HasFriend(b) {
		pa.Friends = append(pa.Friends, b)
	}
	if !pb.HasFriend(a) {
		pb.Friends = append(pb.Friends, a)
	}
	return nil
}
