package realtime

import (
	"fmt"
	"sync"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/festive-labs/santagames-backend/internal/notification"
	"github.com/festive-labs/santagames-backend/internal/pkg/model"
	"github.com/festive-labs/santagames-backend/internal/tambola"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// ticketBatchSize bounds concurrent ticket persistence writes during
	// game start.
	ticketBatchSize = 15

	// broadcastChunkSize bounds concurrent socket writes during fan-out.
	broadcastChunkSize = 20

	// ticketRerolls is how often a freshly generated ticket that collides
	// with another ticket of the same batch is rolled again.
	ticketRerolls = 3
)

// GameStore is the persistence surface the coordinator needs. The tambola
// store satisfies it; coordinator tests use an in-memory fake.
type GameStore interface {
	ListPlayers(gameId uint64) ([]tambola.PlayerInfo, error)
	SaveTicket(userId, gameId uint64, ticket housie.Ticket) error
	PlayerData(userId, gameId uint64) (*tambola.PlayerData, error)
	SetMarkedNumbers(userId, gameId uint64, marked []int) error
	AppendWithdrawnNumber(gameId uint64, number int) error
	GameData(gameId uint64) (*tambola.GameData, error)
	RecordClaim(gameId uint64, claim housie.ClaimType, claimantId uint64) error
	Claims(gameId uint64) ([]tambola.ClaimRecord, error)
	AdjustScore(userId, gameId uint64, delta int) error
	SetStatus(gameId uint64, status model.GameStatus) error
}

// Coordinator dispatches inbound game events, drives the game state machine
// and fans results out through the registry. Claim handling is a per-game
// critical section: read claims, validate, persist and broadcast happen
// under one lock so every recipient sees a consistent claim set.
type Coordinator struct {
	store    GameStore
	registry *Registry
	notifier *notification.Notifier

	mu        sync.Mutex
	gameLocks map[uint64]*sync.Mutex
}

func NewCoordinator(store GameStore, registry *Registry, notifier *notification.Notifier) *Coordinator {
	return &Coordinator{
		store:     store,
		registry:  registry,
		notifier:  notifier,
		gameLocks: make(map[uint64]*sync.Mutex),
	}
}

func (c *Coordinator) gameLock(gameId uint64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.gameLocks[gameId]
	if !ok {
		lock = &sync.Mutex{}
		c.gameLocks[gameId] = lock
	}
	return lock
}

// Dispatch routes one inbound event. Events arrive fire-and-forget over a
// socket: failures are logged, the sender only hears back when the
// protocol defines a reply (as for rejected claims).
func (c *Coordinator) Dispatch(senderId uint64, event GameEvent) {
	switch ev := event.(type) {
	case StartGameEvent:
		if err := c.StartGame(ev.TambolaGameId, senderId); err != nil {
			log.Warn().Err(err).Msg(fmt.Sprintf("Dropping startTambolaGame for game %d", ev.TambolaGameId))
		}
	case DrawNumberEvent:
		c.handleDraw(senderId, ev)
	case MarkNumbersEvent:
		c.handleMark(senderId, ev)
	case ClaimEvent:
		c.handleClaim(senderId, ev)
	default:
		log.Warn().Msg(fmt.Sprintf("No dispatch case for game event %T", event))
	}
}

// StartGame generates one ticket per joined player, activates the game and
// tells every connected player it began. Shared by the websocket event and
// the HTTP start endpoint.
func (c *Coordinator) StartGame(gameId, senderId uint64) error {
	lock := c.gameLock(gameId)
	lock.Lock()
	defer lock.Unlock()

	data, err := c.store.GameData(gameId)
	if err != nil {
		return err
	}
	if data == nil {
		return tambola.ErrGameNotFound
	}
	if data.HostId != senderId {
		return tambola.ErrNotHost
	}
	if data.Status != model.GameInActive {
		return tambola.ErrWrongStatus
	}

	players, err := c.store.ListPlayers(gameId)
	if err != nil {
		return err
	}

	tickets := generateTickets(len(players))

	g := new(errgroup.Group)
	g.SetLimit(ticketBatchSize)
	for i, player := range players {
		userId, ticket := player.UserId, tickets[i]
		g.Go(func() error {
			return c.store.SaveTicket(userId, gameId, ticket)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := c.store.SetStatus(gameId, model.GameActive); err != nil {
		return err
	}

	c.broadcast(players, 0, startedMessage{Type: msgStartGame})
	c.notifier.GameStarted(gameId, len(players))
	return nil
}

// generateTickets draws one independent ticket per player. A layout that
// collides with an earlier ticket of the same batch is rolled again a few
// times; disjoint numbers across tickets are not guaranteed.
func generateTickets(count int) []housie.Ticket {
	seen := make(map[housie.Ticket]struct{}, count)
	tickets := make([]housie.Ticket, count)
	for i := range tickets {
		ticket := housie.Generate()
		for roll := 0; roll < ticketRerolls; roll++ {
			if _, dup := seen[ticket]; !dup {
				break
			}
			ticket = housie.Generate()
		}
		seen[ticket] = struct{}{}
		tickets[i] = ticket
	}
	return tickets
}

func (c *Coordinator) handleDraw(senderId uint64, ev DrawNumberEvent) {
	data, err := c.store.GameData(ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping draw, cannot load game")
		return
	}
	if data == nil || data.Status != model.GameActive {
		log.Warn().Msg(fmt.Sprintf("Dropping draw for game %d, game missing or not active", ev.TambolaGameId))
		return
	}
	if data.HostId != senderId {
		log.Warn().Msg(fmt.Sprintf("Dropping draw for game %d, sender %d is not the host", ev.TambolaGameId, senderId))
		return
	}
	for _, n := range data.WithdrawnNumbers {
		if n == ev.CurrentNumber {
			log.Warn().Msg(fmt.Sprintf("Dropping draw for game %d, number %d already withdrawn", ev.TambolaGameId, ev.CurrentNumber))
			return
		}
	}

	if err := c.store.AppendWithdrawnNumber(ev.TambolaGameId, ev.CurrentNumber); err != nil {
		log.Warn().Err(err).Msg("Dropping draw, cannot persist withdrawn number")
		return
	}

	players, err := c.store.ListPlayers(ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot list players for draw broadcast")
		return
	}

	c.broadcast(players, senderId, withdrawnMessage{
		Type:             msgWithdrawnNumbers,
		WithDrawnNumbers: append(data.WithdrawnNumbers, ev.CurrentNumber),
		Message:          ev.CurrentNumber,
	})
}

func (c *Coordinator) handleMark(senderId uint64, ev MarkNumbersEvent) {
	if err := c.store.SetMarkedNumbers(senderId, ev.TambolaGameId, ev.MarkedNumbers); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Dropping marked numbers of user %d for game %d", senderId, ev.TambolaGameId))
	}
}

func (c *Coordinator) handleClaim(senderId uint64, ev ClaimEvent) {
	lock := c.gameLock(ev.TambolaGameId)
	lock.Lock()
	defer lock.Unlock()

	data, err := c.store.GameData(ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping claim, cannot load game")
		return
	}
	if data == nil || data.Status != model.GameActive {
		log.Warn().Msg(fmt.Sprintf("Dropping claim for game %d, game missing or not active", ev.TambolaGameId))
		return
	}

	player, err := c.store.PlayerData(senderId, ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping claim, cannot load player data")
		return
	}
	if player == nil {
		log.Warn().Msg(fmt.Sprintf("Dropping claim for game %d, user %d never joined", ev.TambolaGameId, senderId))
		return
	}

	claims, err := c.store.Claims(ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping claim, cannot load recorded claims")
		return
	}
	for _, recorded := range claims {
		if recorded.ClaimType == ev.ClaimType {
			// First valid claim won already; later attempts are no-ops.
			return
		}
	}

	valid := housie.Validate(ev.ClaimType, player.Ticket, player.MarkedNumbers, data.WithdrawnNumbers)
	delta := housie.ScoreDelta(ev.ClaimType, valid)

	if !valid {
		if err := c.store.AdjustScore(senderId, ev.TambolaGameId, delta); err != nil {
			log.Warn().Err(err).Msg("Cannot apply claim penalty")
		}
		c.unicast(senderId, claimMessage{
			Type:         msgClaim,
			ClaimType:    string(ev.ClaimType),
			Message:      fmt.Sprintf("Your %s claim was not valid, %d points deducted", ev.ClaimType, -delta),
			MarkedClaims: claimTypeNames(claims),
			IsValidClaim: false,
		})
		return
	}

	if err := c.store.RecordClaim(ev.TambolaGameId, ev.ClaimType, senderId); err != nil {
		log.Warn().Err(err).Msg("Dropping claim, cannot persist it")
		return
	}
	claims = append(claims, tambola.ClaimRecord{ClaimType: ev.ClaimType, ClaimedById: senderId, ClaimedBy: player.Name})

	isComplete := len(claims) == len(housie.AllClaimTypes())
	if isComplete {
		if err := c.store.SetStatus(ev.TambolaGameId, model.GameComplete); err != nil {
			log.Warn().Err(err).Msg("Cannot mark game complete")
		}
	}

	if err := c.store.AdjustScore(senderId, ev.TambolaGameId, delta); err != nil {
		log.Warn().Err(err).Msg("Cannot award claim score")
	}

	message := fmt.Sprintf("%s claimed %s", player.Name, ev.ClaimType)
	if isComplete {
		message += ", the game is complete"
	}

	players, err := c.store.ListPlayers(ev.TambolaGameId)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot list players for claim broadcast")
		return
	}
	c.broadcast(players, 0, claimMessage{
		Type:         msgClaim,
		ClaimType:    string(ev.ClaimType),
		Message:      message,
		MarkedClaims: claimTypeNames(claims),
		IsComplete:   isComplete,
		IsValidClaim: true,
	})
	c.notifier.ClaimAwarded(ev.TambolaGameId, senderId, ev.ClaimType)
}

func claimTypeNames(claims []tambola.ClaimRecord) []string {
	names := make([]string, 0, len(claims))
	for _, claim := range claims {
		names = append(names, string(claim.ClaimType))
	}
	return names
}

// broadcast writes the payload to every listed player except excludeId.
// Players without a live connection are skipped silently; write failures
// are logged and otherwise dropped.
func (c *Coordinator) broadcast(players []tambola.PlayerInfo, excludeId uint64, payload any) {
	g := new(errgroup.Group)
	g.SetLimit(broadcastChunkSize)
	for _, player := range players {
		if player.UserId == excludeId {
			continue
		}
		conn, ok := c.registry.Get(player.UserId)
		if !ok {
			continue
		}
		userId := player.UserId
		g.Go(func() error {
			if err := conn.WriteJSON(payload); err != nil {
				log.Warn().Err(err).Msg(fmt.Sprintf("Broadcast write to user %d failed", userId))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Coordinator) unicast(userId uint64, payload any) {
	conn, ok := c.registry.Get(userId)
	if !ok {
		return
	}
	if err := conn.WriteJSON(payload); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Unicast write to user %d failed", userId))
	}
}
