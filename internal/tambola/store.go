package tambola

import (
	"errors"
	"fmt"
	"time"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/festive-labs/santagames-backend/internal/pkg/model"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DataAccessError wraps any storage failure. Callers propagate it, they do
// not retry.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("tambola store: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func dataErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// PlayerInfo identifies one joined player.
type PlayerInfo struct {
	UserId uint64 `json:"userId"`
	Name   string `json:"name"`
}

// PlayerData is one player's view of their own game state.
type PlayerData struct {
	UserId        uint64
	Name          string
	Ticket        housie.Ticket
	MarkedNumbers []int
}

// GameData is the shared game snapshot the coordinator works from.
type GameData struct {
	HostId           uint64
	JoinCode         string
	Status           model.GameStatus
	WithdrawnNumbers []int
}

// ClaimRecord is one recorded claim of a game.
type ClaimRecord struct {
	ClaimType   housie.ClaimType `json:"claimType"`
	ClaimedById uint64           `json:"claimedById"`
	ClaimedBy   string           `json:"claimedBy"`
}

// PlayerScore is one leaderboard row.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store is the persistence-backed game state accessor. All reads and writes
// of games, tickets, marks, claims and scores go through here.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateGame inserts an InActive game with a fresh join code and enrolls
// the host as its first player.
func (s *Store) CreateGame(hostId uint64) (*model.Game, error) {
	var created *model.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := s.freeJoinCode(tx)
		if err != nil {
			return err
		}

		created = &model.Game{
			JoinCode:    code,
			HostId:      hostId,
			GameStatus:  model.GameInActive,
			TimeCreated: time.Now().UTC().UnixMilli(),
		}
		if f := tx.Table(model.Game{}.TableName()).Create(created); f.Error != nil {
			return f.Error
		}

		player := &model.GamePlayer{GameId: created.Id, UserId: hostId}
		f := tx.Table(model.GamePlayer{}.TableName()).Create(player)
		return f.Error
	})
	return created, dataErr("create game", err)
}

func (s *Store) freeJoinCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code := NewJoinCode()
		var count int64
		f := tx.Table(model.Game{}.TableName()).Where("join_code = ?", code).Count(&count)
		if f.Error != nil {
			return "", f.Error
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not find a free join code")
}

// JoinGame enrolls a player into the game behind a join code. It returns
// nil when the code is unknown or the game already left InActive; joining
// twice is a no-op.
func (s *Store) JoinGame(userId uint64, joinCode string) (*model.Game, error) {
	var joined *model.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game model.Game
		f := tx.Table(model.Game{}.TableName()).Where("join_code = ?", joinCode).First(&game)
		if errors.Is(f.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		if f.Error != nil {
			return f.Error
		}
		if game.GameStatus != model.GameInActive {
			return nil
		}

		player := &model.GamePlayer{GameId: game.Id, UserId: userId}
		f = tx.Table(model.GamePlayer{}.TableName()).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "game_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(player)
		if f.Error != nil {
			return f.Error
		}

		joined = &game
		return nil
	})
	return joined, dataErr("join game", err)
}

// ListPlayers returns every joined player with their display name.
func (s *Store) ListPlayers(gameId uint64) ([]PlayerInfo, error) {
	players := []PlayerInfo{}
	f := s.db.Table(model.GamePlayer{}.TableName()).
		Joins("JOIN santa_user ON santa_user.id = tambola_game_player.user_id").
		Select("tambola_game_player.user_id, santa_user.name").
		Where("tambola_game_player.game_id = ?", gameId).
		Order("tambola_game_player.id").
		Scan(&players)
	return players, dataErr("list players", f.Error)
}

// SaveTicket stores a freshly generated ticket for one player.
func (s *Store) SaveTicket(userId, gameId uint64, ticket housie.Ticket) error {
	f := s.db.Table(model.GamePlayer{}.TableName()).
		Where("game_id = ? AND user_id = ?", gameId, userId).
		Update("ticket", model.TicketGrid(ticket))
	return dataErr("save ticket", f.Error)
}

// PlayerData loads one player's ticket and marked numbers. Returns nil when
// the player never joined the game.
func (s *Store) PlayerData(userId, gameId uint64) (*PlayerData, error) {
	var row struct {
		model.GamePlayer
		Name string
	}
	f := s.db.Table(model.GamePlayer{}.TableName()).
		Joins("JOIN santa_user ON santa_user.id = tambola_game_player.user_id").
		Select("tambola_game_player.*, santa_user.name").
		Where("tambola_game_player.game_id = ? AND tambola_game_player.user_id = ?", gameId, userId).
		First(&row)
	if errors.Is(f.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if f.Error != nil {
		return nil, dataErr("player data", f.Error)
	}
	return &PlayerData{
		UserId:        row.UserId,
		Name:          row.Name,
		Ticket:        housie.Ticket(row.Ticket),
		MarkedNumbers: row.MarkedNumbers,
	}, nil
}

// SetMarkedNumbers replaces the player's acknowledged-number set.
func (s *Store) SetMarkedNumbers(userId, gameId uint64, marked []int) error {
	f := s.db.Table(model.GamePlayer{}.TableName()).
		Where("game_id = ? AND user_id = ?", gameId, userId).
		Update("marked_numbers", model.NumberList(marked))
	return dataErr("set marked numbers", f.Error)
}

// AppendWithdrawnNumber records one drawn number. The caller guarantees the
// number was not drawn before.
func (s *Store) AppendWithdrawnNumber(gameId uint64, number int) error {
	row := &model.WithdrawnNumber{GameId: gameId, Number: number}
	f := s.db.Table(model.WithdrawnNumber{}.TableName()).Create(row)
	return dataErr("append withdrawn number", f.Error)
}

// GameData loads the game status, host and ordered withdrawn numbers.
// Returns nil for an unknown game.
func (s *Store) GameData(gameId uint64) (*GameData, error) {
	var data *GameData
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game model.Game
		f := tx.Table(model.Game{}.TableName()).Where("id = ?", gameId).First(&game)
		if errors.Is(f.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		if f.Error != nil {
			return f.Error
		}

		withdrawn := []int{}
		f = tx.Table(model.WithdrawnNumber{}.TableName()).
			Where("game_id = ?", gameId).
			Order("id").
			Pluck("number", &withdrawn)
		if f.Error != nil {
			return f.Error
		}

		data = &GameData{
			HostId:           game.HostId,
			JoinCode:         game.JoinCode,
			Status:           game.GameStatus,
			WithdrawnNumbers: withdrawn,
		}
		return nil
	})
	return data, dataErr("game data", err)
}

// RecordClaim stores the first claimant of a claim type. A second insert
// for the same (game, claim type) pair is silently ignored, so the first
// valid claim wins and is never overwritten.
func (s *Store) RecordClaim(gameId uint64, claim housie.ClaimType, claimantId uint64) error {
	row := &model.Claim{GameId: gameId, ClaimType: string(claim), ClaimedById: claimantId}
	f := s.db.Table(model.Claim{}.TableName()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "claim_type"}},
			DoNothing: true,
		}).
		Create(row)
	return dataErr("record claim", f.Error)
}

// Claims lists the recorded claims of a game with claimant names.
func (s *Store) Claims(gameId uint64) ([]ClaimRecord, error) {
	claims := []ClaimRecord{}
	f := s.db.Table(model.Claim{}.TableName()).
		Joins("JOIN santa_user ON santa_user.id = tambola_claim.claimed_by_id").
		Select("tambola_claim.claim_type, tambola_claim.claimed_by_id, santa_user.name AS claimed_by").
		Where("tambola_claim.game_id = ?", gameId).
		Order("tambola_claim.id").
		Scan(&claims)
	return claims, dataErr("list claims", f.Error)
}

// AdjustScore applies a score delta to one player.
func (s *Store) AdjustScore(userId, gameId uint64, delta int) error {
	f := s.db.Table(model.GamePlayer{}.TableName()).
		Where("game_id = ? AND user_id = ?", gameId, userId).
		Update("score", gorm.Expr("score + ?", delta))
	return dataErr("adjust score", f.Error)
}

// SetStatus advances the game status. Transitions are monotonic: the update
// only applies when the game still holds the status's predecessor, so a
// repeated or backward move is a no-op rather than an error.
func (s *Store) SetStatus(gameId uint64, status model.GameStatus) error {
	predecessor, ok := status.Predecessor()
	if !ok {
		return dataErr("set status", fmt.Errorf("no transition leads to status %q", status))
	}
	f := s.db.Table(model.Game{}.TableName()).
		Where("id = ? AND game_status = ?", gameId, predecessor).
		Update("game_status", status)
	return dataErr("set status", f.Error)
}

// Leaderboard returns one page of players ordered by score.
func (s *Store) Leaderboard(gameId uint64, page utils.PageRequest) ([]PlayerScore, int64, error) {
	scores := []PlayerScore{}
	var total int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		f := tx.Table(model.GamePlayer{}.TableName()).
			Where("game_id = ?", gameId).
			Count(&total)
		if f.Error != nil {
			return f.Error
		}

		f = tx.Table(model.GamePlayer{}.TableName()).
			Joins("JOIN santa_user ON santa_user.id = tambola_game_player.user_id").
			Select("santa_user.name, tambola_game_player.score").
			Where("tambola_game_player.game_id = ?", gameId).
			Order("tambola_game_player.score DESC, santa_user.name").
			Limit(page.Size).
			Offset(page.Offset).
			Scan(&scores)
		return f.Error
	})
	return scores, total, dataErr("leaderboard", err)
}
