package model

// Claim records the first valid claimant of one claim type in one game.
// (game_id, claim_type) is unique; later inserts for the same pair are
// no-ops.
type Claim struct {
	Id          uint64 `json:"id"`
	GameId      uint64 `json:"gameId"`
	ClaimType   string `json:"claimType"`
	ClaimedById uint64 `json:"claimedById"`
}

func (Claim) TableName() string {
	return "tambola_claim"
}
