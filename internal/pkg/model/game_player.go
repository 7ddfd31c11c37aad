package model

// GamePlayer is one user's membership in one tambola game: their ticket,
// the numbers they acknowledged, and their running score. The ticket and
// marked-number columns are JSON text, see TicketGrid and NumberList.
type GamePlayer struct {
	Id            uint64     `json:"id"`
	GameId        uint64     `json:"gameId"`
	UserId        uint64     `json:"userId"`
	Ticket        TicketGrid `json:"ticket"`
	MarkedNumbers NumberList `json:"markedNumbers"`
	Score         int        `json:"score"`
}

func (GamePlayer) TableName() string {
	return "tambola_game_player"
}
