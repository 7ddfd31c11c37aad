package model

// WithdrawnNumber is one drawn number of one game. Rows are append-only;
// draw order is the insertion order of the primary key.
type WithdrawnNumber struct {
	Id     uint64 `json:"id"`
	GameId uint64 `json:"gameId"`
	Number int    `json:"number"`
}

func (WithdrawnNumber) TableName() string {
	return "tambola_withdrawn_number"
}
