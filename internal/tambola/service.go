package tambola

import (
	"errors"
	"net/http"

	"github.com/festive-labs/santagames-backend/internal/notification"
	"github.com/festive-labs/santagames-backend/internal/pkg/model"
	"github.com/festive-labs/santagames-backend/internal/pkg/reject"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
)

const (
	invalidJoinCode = "error.game.invalid-join-code"
	notGameHost     = "error.game.not-host"
)

// Sentinel errors shared with the realtime coordinator, which reports them
// through whichever surface triggered the action.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotHost      = errors.New("sender is not the game host")
	ErrWrongStatus  = errors.New("game is not in the required status")
)

// GameStarter generates tickets for every joined player and activates the
// game. Implemented by the realtime coordinator so the HTTP trigger and the
// websocket trigger share one code path (and one broadcast).
type GameStarter interface {
	StartGame(gameId, hostId uint64) error
}

type gameService struct {
	store    *Store
	starter  GameStarter
	notifier *notification.Notifier
}

// GameDetail is the static snapshot the frontend fetches outside of the
// realtime flow.
type GameDetail struct {
	GameId           uint64            `json:"gameId"`
	JoinCode         string            `json:"joinCode"`
	Status           model.GameStatus  `json:"status"`
	IsHost           bool              `json:"isHost"`
	WithdrawnNumbers []int             `json:"withDrawnNumbers"`
	Ticket           *model.TicketGrid `json:"ticket"`
	MarkedNumbers    []int             `json:"markedNumbers"`
	Claims           []ClaimRecord     `json:"claims"`
}

func (gs *gameService) createGame(hostId uint64) (*model.Game, *reject.ProblemWithTrace) {
	game, err := gs.store.CreateGame(hostId)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}

	gs.notifier.GameCreated(game.Id, game.JoinCode, hostId)
	return game, nil
}

func (gs *gameService) joinGame(userId uint64, joinCode string) (*model.Game, *reject.ProblemWithTrace) {
	game, err := gs.store.JoinGame(userId, joinCode)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}
	if game == nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Join code is invalid or the game already started").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidJoinCode).
				Build(),
			Cause: ErrGameNotFound,
		}
	}
	return game, nil
}

func (gs *gameService) startGame(gameId, hostId uint64) *reject.ProblemWithTrace {
	err := gs.starter.StartGame(gameId, hostId)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrGameNotFound):
		return &reject.ProblemWithTrace{Problem: reject.NotFoundProblem("game does not exist"), Cause: err}
	case errors.Is(err, ErrNotHost):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Only the host can start the game").
				WithStatus(http.StatusForbidden).
				WithCode(notGameHost).
				Build(),
			Cause: err,
		}
	case errors.Is(err, ErrWrongStatus):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Game already started").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidJoinCode).
				Build(),
			Cause: err,
		}
	default:
		return &reject.ProblemWithTrace{Problem: reject.UnexpectedProblem(err), Cause: err}
	}
}

func (gs *gameService) players(gameId uint64) ([]PlayerInfo, *reject.ProblemWithTrace) {
	players, err := gs.store.ListPlayers(gameId)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}
	return players, nil
}

func (gs *gameService) gameDetail(gameId, userId uint64) (*GameDetail, *reject.ProblemWithTrace) {
	data, err := gs.store.GameData(gameId)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}
	if data == nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("game does not exist"),
			Cause:   ErrGameNotFound,
		}
	}

	claims, err := gs.store.Claims(gameId)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}

	detail := &GameDetail{
		GameId:           gameId,
		JoinCode:         data.JoinCode,
		Status:           data.Status,
		IsHost:           data.HostId == userId,
		WithdrawnNumbers: data.WithdrawnNumbers,
		Claims:           claims,
	}

	player, err := gs.store.PlayerData(userId, gameId)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}
	if player != nil {
		ticket := model.TicketGrid(player.Ticket)
		detail.Ticket = &ticket
		detail.MarkedNumbers = player.MarkedNumbers
	}

	return detail, nil
}

func (gs *gameService) leaderboard(gameId uint64, page utils.PageRequest) (*utils.PageResponse[PlayerScore], *reject.ProblemWithTrace) {
	scores, total, err := gs.store.Leaderboard(gameId, page)
	if err != nil {
		return nil, &reject.ProblemWithTrace{Problem: reject.DataAccessProblem(err), Cause: err}
	}

	response := utils.NewPageResponse[PlayerScore]().
		WithItems(scores).
		WithItemCount(total).
		WithNextPageToken(page.NextPageToken(total)).
		Build()
	return response, nil
}
