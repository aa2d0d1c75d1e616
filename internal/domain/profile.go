package domain

import "slices"

// Profile aggregates the attributes of a single member of the network.
type Profile struct {
	ID         string
	Age        int
	Location   string
	Occupation string
	Interests  []string
	Activities []string
	Friends    []string
}

// HasFriend reports whether id appears in the profile's friend list.
func (p *Profile) HasFriend(id string) bool {
	return slices.Contains(p.Friends, id)
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (p Profile) Clone() Profile {
	p.Interests = slices.Clone(p.Interests)
	p.Activities = slices.Clone(p.Activities)
	p.Friends = slices.Clone(p.Friends)
	return p
}

// ProfileSummary is the lightweight view used by list endpoints.
type ProfileSummary struct {
	ID          string
	Age         int
	Location    string
	Occupation  string
	FriendCount int
}
