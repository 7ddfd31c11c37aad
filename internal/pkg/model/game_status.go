package model

// GameStatus is the lifecycle of a tambola game. Transitions are
// one-directional: InActive -> Active -> Complete.
type GameStatus string

const (
	GameInActive GameStatus = "InActive"
	GameActive   GameStatus = "Active"
	GameComplete GameStatus = "Complete"
)

// Predecessor returns the only status a game may hold immediately before
// this one. InActive has no predecessor.
func (s GameStatus) Predecessor() (GameStatus, bool) {
	switch s {
	case GameActive:
		return GameInActive, true
	case GameComplete:
		return GameActive, true
	default:
		return "", false
	}
}
