package tambola

import "math/rand/v2"

// Join codes skip lookalike characters so players can read them out loud.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	joinCodeLength   = 6
	joinCodeAttempts = 10
)

// NewJoinCode returns a random human-shareable code. Uniqueness within the
// games table is the store's job.
func NewJoinCode() string {
	code := make([]byte, joinCodeLength)
	for i := range code {
		code[i] = joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))]
	}
	return string(code)
}
