// Package repository mirrors the social network into the graph database as
// (:Person {userId})-[:FRIENDS_WITH]-(:Person).
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/graphdb"
)

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graphdb.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graphdb.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraint on Person.userId.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, personConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure person constraint: %w", err)
	}
	return nil
}

// UpsertProfile stores the profile attributes on its Person node. Friend
// lists are persisted separately through UpsertFriendship.
func (r *Repository) UpsertProfile(ctx context.Context, p domain.Profile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}

	params := map[string]any{
		"userId": p.ID,
		"props":  profileProperties(p),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertProfileCypher, params); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// UpsertFriendship merges an undirected FRIENDS_WITH edge. It reports whether
// the edge was created by this call.
func (r *Repository) UpsertFriendship(ctx context.Context, a, b string) (bool, error) {
	if err := checkPair(a, b); err != nil {
		return false, err
	}
	res, err := r.client.ExecuteWrite(ctx, upsertFriendshipCypher, pairParams(a, b))
	if err != nil {
		return false, fmt.Errorf("upsert friendship %s-%s: %w", a, b, err)
	}
	if len(res.Records) == 0 {
		return false, fmt.Errorf("upsert friendship %s-%s: %w", a, b, domain.ErrUnknownUser)
	}
	return res.Counters.RelationshipsCreated > 0, nil
}

// DeleteFriendship removes the edge between a and b in either direction. It
// reports whether an edge existed.
func (r *Repository) DeleteFriendship(ctx context.Context, a, b string) (bool, error) {
	if err := checkPair(a, b); err != nil {
		return false, err
	}
	res, err := r.client.ExecuteWrite(ctx, deleteFriendshipCypher, pairParams(a, b))
	if err != nil {
		return false, fmt.Errorf("delete friendship %s-%s: %w", a, b, err)
	}
	return res.Counters.RelationshipsDeleted > 0, nil
}

// LoadProfiles reads every Person with its friend list, ordered by userId.
func (r *Repository) LoadProfiles(ctx context.Context) ([]domain.Profile, error) {
	res, err := r.client.ExecuteRead(ctx, loadProfilesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load profiles query: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(res.Records))
	for _, record := range res.Records {
		id := toString(record["userId"])
		if id == "" {
			continue
		}
		profiles = append(profiles, domain.Profile{
			ID:         id,
			Age:        toInt(record["age"]),
			Location:   toString(record["location"]),
			Occupation: toString(record["occupation"]),
			Interests:  toStrings(record["interests"]),
			Activities: toStrings(record["activities"]),
			Friends:    toStrings(record["friends"]),
		})
	}
	return profiles, nil
}

// CountProfiles returns the number of Person nodes.
func (r *Repository) CountProfiles(ctx context.Context) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countProfilesCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count profiles query: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return int64(toInt(res.Records[0]["total"])), nil
}

func checkPair(a, b string) error {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return errors.New("both user IDs are required")
	}
	if a == b {
		return fmt.Errorf("%w: %s", domain.ErrSelfFriendship, a)
	}
	return nil
}

func pairParams(a, b string) map[string]any {
	return map[string]any{"a": a, "b": b}
}

func profileProperties(p domain.Profile) map[string]any {
	return map[string]any{
		"age":        int64(p.Age),
		"location":   p.Location,
		"occupation": p.Occupation,
		"interests":  nonNil(p.Interests),
		"activities": nonNil(p.Activities),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// toStrings accepts the []any lists returned by the driver as well as plain
// string slices used in tests.
func toStrings(val any) []string {
	switch v := val.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

const personConstraintCypher = `
CREATE CONSTRAINT person_user_id IF NOT EXISTS
FOR (p:Person) REQUIRE p.userId IS UNIQUE
`

const upsertProfileCypher = `
MERGE (p:Person {userId: $userId})
SET p += $props,
    p.updatedAt = datetime()
RETURN p.userId AS userId
`

const upsertFriendshipCypher = `
MATCH (a:Person {userId: $a})
MATCH (b:Person {userId: $b})
MERGE (a)-[f:FRIENDS_WITH]-(b)
ON CREATE SET f.since = datetime()
RETURN a.userId AS a, b.userId AS b
`

const deleteFriendshipCypher = `
MATCH (:Person {userId: $a})-[f:FRIENDS_WITH]-(:Person {userId: $b})
DELETE f
`

const loadProfilesCypher = `
MATCH (p:Person)
OPTIONAL MATCH (p)-[:FRIENDS_WITH]-(f:Person)
WITH p, f
ORDER BY f.userId
RETURN p.userId AS userId,
       p.age AS age,
       p.location AS location,
       p.occupation AS occupation,
       coalesce(p.interests, []) AS interests,
       coalesce(p.activities, []) AS activities,
       [id IN collect(DISTINCT f.userId) WHERE id IS NOT NULL] AS friends
ORDER BY userId
`

const countProfilesCypher = `
MATCH (p:Person)
RETURN count(p) AS total
`
