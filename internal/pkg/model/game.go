package model

type Game struct {
	Id          uint64     `json:"id"`
	JoinCode    string     `json:"joinCode"`
	HostId      uint64     `json:"hostId"`
	GameStatus  GameStatus `json:"status"`
	TimeCreated int64      `json:"timeCreated"`
}

func (Game) TableName() string {
	return "tambola_game"
}
