package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// Generator produces synthetic user profiles with symmetric friend lists.
type Generator struct {
	cfg   Config
	rand  *rand.Rand
	pools attributePools
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = def.NumUsers
	}
	if cfg.FriendsPerUser < 0 {
		cfg.FriendsPerUser = 0
	}
	if cfg.FriendsPerUser >= cfg.NumUsers {
		cfg.FriendsPerUser = cfg.NumUsers - 1
	}
	if cfg.Homophily < 0 || cfg.Homophily > 1 {
		cfg.Homophily = def.Homophily
	}
	if cfg.MaxInterests <= 0 {
		cfg.MaxInterests = def.MaxInterests
	}
	if cfg.MaxActivities <= 0 {
		cfg.MaxActivities = def.MaxActivities
	}
	if cfg.MinAge <= 0 || cfg.MaxAge < cfg.MinAge {
		cfg.MinAge, cfg.MaxAge = def.MinAge, def.MaxAge
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(cfg.Seed)),
		pools: defaultAttributePools(),
	}
}

// Config returns the effective configuration after defaults were applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate synthesises profiles and wires friendships between them. Every
// friendship appears in both friend lists. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Profile, error) {
	profiles := make([]domain.Profile, g.cfg.NumUsers)
	for i := range profiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profiles[i] = domain.Profile{
			ID:         fmt.Sprintf("USR-%05d", i+1),
			Age:        g.cfg.MinAge + g.rand.Intn(g.cfg.MaxAge-g.cfg.MinAge+1),
			Location:   g.pick(g.pools.locations),
			Occupation: g.pick(g.pools.occupations),
			Interests:  g.sample(g.pools.interests, g.cfg.MaxInterests),
			Activities: g.sample(g.pools.activities, g.cfg.MaxActivities),
			Friends:    []string{},
		}
	}

	if len(profiles) < 2 || g.cfg.FriendsPerUser == 0 {
		return profiles, nil
	}

	target := g.cfg.NumUsers * g.cfg.FriendsPerUser / 2
	maxAttempts := target * 20
	edges := make(map[[2]int]struct{}, target)
	for attempt := 0; len(edges) < target && attempt < maxAttempts; attempt++ {
		if attempt%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		a, b := g.rand.Intn(len(profiles)), g.rand.Intn(len(profiles))
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if _, ok := edges[key]; ok {
			continue
		}
		if g.rand.Float64() >= g.acceptance(profiles[a], profiles[b]) {
			continue
		}
		edges[key] = struct{}{}
		profiles[a].Friends = append(profiles[a].Friends, profiles[b].ID)
		profiles[b].Friends = append(profiles[b].Friends, profiles[a].ID)
	}
	return profiles, nil
}

// acceptance is the probability of keeping a proposed edge. It blends a
// uniform floor with the fraction of shared attributes.
func (g *Generator) acceptance(a, b domain.Profile) float64 {
	shared := 0.0
	if a.Location == b.Location {
		shared++
	}
	if a.Occupation == b.Occupation {
		shared++
	}
	if overlaps(a.Interests, b.Interests) {
		shared++
	}
	affinity := shared / 3
	return 1 - g.cfg.Homophily + g.cfg.Homophily*(0.05+0.95*affinity)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rand.Intn(len(pool))]
}

// sample draws between zero and n distinct values from pool.
func (g *Generator) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	count := g.rand.Intn(n + 1)
	out := make([]string, 0, count)
	for _, idx := range g.rand.Perm(len(pool))[:count] {
		out = append(out, pool[idx])
	}
	return out
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

type attributePools struct {
	locations   []string
	occupations []string
	interests   []string
	activities  []string
}

func defaultAttributePools() attributePools {
	return attributePools{
		locations:   []string{"Cairo", "Giza", "Alexandria", "Mansoura", "Aswan", "Luxor", "Tanta", "Suez"},
		occupations: []string{"Engineer", "Designer", "Teacher", "Doctor", "Student", "Nurse", "Accountant", "Lawyer", "Chef"},
		interests:   []string{"music", "chess", "football", "movies", "reading", "travel", "photography", "cooking", "gaming", "art"},
		activities:  []string{"running", "swimming", "yoga", "cycling", "hiking", "gym", "dancing", "painting"},
	}
}
