package tambola

import (
	"strconv"

	"github.com/festive-labs/santagames-backend/internal/notification"
	"github.com/festive-labs/santagames-backend/internal/pkg/middleware"
	"github.com/festive-labs/santagames-backend/internal/pkg/reject"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
	"github.com/festive-labs/santagames-backend/internal/pkg/web"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type gameHandler struct {
	gameService gameService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, starter GameStarter, notifier *notification.Notifier) {
	handler := gameHandler{
		gameService: gameService{
			store:    NewStore(db),
			starter:  starter,
			notifier: notifier,
		},
	}

	routes := rg.Group("/tambola/games")
	routes.POST("", middleware.VerifyAuthToken, handler.createGame)
	routes.POST("/join", middleware.VerifyAuthToken, handler.joinGame)
	routes.POST("/:id/start", middleware.VerifyAuthToken, handler.startGame)
	routes.GET("/:id", middleware.VerifyAuthToken, handler.getGame)
	routes.GET("/:id/players", middleware.VerifyAuthToken, handler.getPlayers)
	routes.GET("/:id/leaderboard", middleware.VerifyAuthToken, handler.getLeaderboard)
}

func (gh *gameHandler) createGame(c *gin.Context) {
	game, err := gh.gameService.createGame(utils.GetUserId(c))
	if err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Created(c, "Game created", game)
}

type JoinGameRequest struct {
	JoinCode string `json:"joinCode"`
}

func (gh *gameHandler) joinGame(c *gin.Context) {
	body := JoinGameRequest{}
	if err := c.BindJSON(&body); err != nil || body.JoinCode == "" {
		web.Fail(c, reject.BodyParseProblem())
		return
	}

	game, err := gh.gameService.joinGame(utils.GetUserId(c), body.JoinCode)
	if err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Ok(c, "Joined game", game)
}

func (gh *gameHandler) startGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 10, 64)
	if parseErr != nil {
		web.Fail(c, reject.RequestParamsProblem())
		return
	}

	if err := gh.gameService.startGame(gameId, utils.GetUserId(c)); err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Ok(c, "Tickets generated, game is live", nil)
}

func (gh *gameHandler) getGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 10, 64)
	if parseErr != nil {
		web.Fail(c, reject.RequestParamsProblem())
		return
	}

	detail, err := gh.gameService.gameDetail(gameId, utils.GetUserId(c))
	if err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Ok(c, "Game detail", detail)
}

func (gh *gameHandler) getPlayers(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 10, 64)
	if parseErr != nil {
		web.Fail(c, reject.RequestParamsProblem())
		return
	}

	players, err := gh.gameService.players(gameId)
	if err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Ok(c, "Joined players", players)
}

func (gh *gameHandler) getLeaderboard(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 10, 64)
	if parseErr != nil {
		web.Fail(c, reject.RequestParamsProblem())
		return
	}

	page, pageErr := utils.NewPageRequest(c)
	if pageErr != nil {
		web.Fail(c, pageErr.Problem)
		return
	}

	leaderboard, err := gh.gameService.leaderboard(gameId, page)
	if err != nil {
		web.Fail(c, err.Problem)
		return
	}

	web.Ok(c, "Leaderboard", leaderboard)
}
