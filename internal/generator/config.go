package generator

// Config drives the synthetic network generator.
type Config struct {
	NumUsers int
	// FriendsPerUser is the target mean degree.
	FriendsPerUser int
	// Homophily in [0,1] biases friendships toward users sharing a location,
	// occupation or interest. Zero wires users uniformly at random.
	Homophily     float64
	MaxInterests  int
	MaxActivities int
	MinAge        int
	MaxAge        int
	Seed          int64
}

// DefaultConfig returns settings producing a network similar in shape to the
// reference profile file.
func DefaultConfig() Config {
	return Config{
		NumUsers:       500,
		FriendsPerUser: 6,
		Homophily:      0.8,
		MaxInterests:   4,
		MaxActivities:  3,
		MinAge:         18,
		MaxAge:         65,
		Seed:           42,
	}
}
