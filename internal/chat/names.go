package chat

import "math/rand/v2"

// ConnID is an opaque identifier for one live transport connection,
// assigned by the transport layer at upgrade time.
type ConnID string

var (
	adjectives = []string{"Happy", "Fast", "Clever", "Brave", "Witty", "Bright"}
	nouns      = []string{"Tiger", "Panda", "Fox", "Eagle", "Bear", "Lion"}
)

// RandomName generates an ephemeral human-readable display name by joining
// one random adjective and one random noun. Names are not unique: two
// connections can draw the same name, and mentions then address the name
// rather than a single connection.
func RandomName() string {
	return adjectives[rand.IntN(len(adjectives))] + nouns[rand.IntN(len(nouns))]
}
