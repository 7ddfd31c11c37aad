package realtime

import (
	"sync"
	"testing"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/festive-labs/santagames-backend/internal/notification"
	"github.com/festive-labs/santagames-backend/internal/pkg/model"
	"github.com/festive-labs/santagames-backend/internal/tambola"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	writes []any
	closed bool
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) sent() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.writes...)
}

type fakeStore struct {
	mu        sync.Mutex
	hostId    uint64
	status    model.GameStatus
	players   []tambola.PlayerInfo
	tickets   map[uint64]housie.Ticket
	marked    map[uint64][]int
	withdrawn []int
	claims    []tambola.ClaimRecord
	scores    map[uint64]int
}

func newFakeStore(hostId uint64, status model.GameStatus, players ...tambola.PlayerInfo) *fakeStore {
	return &fakeStore{
		hostId:  hostId,
		status:  status,
		players: players,
		tickets: map[uint64]housie.Ticket{},
		marked:  map[uint64][]int{},
		scores:  map[uint64]int{},
	}
}

func (s *fakeStore) ListPlayers(uint64) ([]tambola.PlayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tambola.PlayerInfo(nil), s.players...), nil
}

func (s *fakeStore) SaveTicket(userId, _ uint64, ticket housie.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[userId] = ticket
	return nil
}

func (s *fakeStore) PlayerData(userId, _ uint64) (*tambola.PlayerData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.UserId == userId {
			return &tambola.PlayerData{
				UserId:        userId,
				Name:          p.Name,
				Ticket:        s.tickets[userId],
				MarkedNumbers: s.marked[userId],
			}, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SetMarkedNumbers(userId, _ uint64, marked []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[userId] = marked
	return nil
}

func (s *fakeStore) AppendWithdrawnNumber(_ uint64, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawn = append(s.withdrawn, number)
	return nil
}

func (s *fakeStore) GameData(uint64) (*tambola.GameData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &tambola.GameData{
		HostId:           s.hostId,
		Status:           s.status,
		WithdrawnNumbers: append([]int(nil), s.withdrawn...),
	}, nil
}

func (s *fakeStore) RecordClaim(gameId uint64, claim housie.ClaimType, claimantId uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, recorded := range s.claims {
		if recorded.ClaimType == claim {
			return nil
		}
	}
	s.claims = append(s.claims, tambola.ClaimRecord{ClaimType: claim, ClaimedById: claimantId})
	return nil
}

func (s *fakeStore) Claims(uint64) ([]tambola.ClaimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tambola.ClaimRecord(nil), s.claims...), nil
}

func (s *fakeStore) AdjustScore(userId, _ uint64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userId] += delta
	return nil
}

func (s *fakeStore) SetStatus(_ uint64, status model.GameStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(notification.Event) error { return nil }

const gameId = uint64(1)

func testPlayers() []tambola.PlayerInfo {
	return []tambola.PlayerInfo{
		{UserId: 1, Name: "Alice"},
		{UserId: 2, Name: "Bob"},
		{UserId: 3, Name: "Carol"},
	}
}

func newTestCoordinator(store *fakeStore) (*Coordinator, map[uint64]*fakeConn) {
	registry := NewRegistry()
	conns := map[uint64]*fakeConn{}
	for _, p := range store.players {
		conn := &fakeConn{}
		conns[p.UserId] = conn
		registry.Register(p.UserId, conn)
	}
	return NewCoordinator(store, registry, notification.New(noopPublisher{})), conns
}

func fullHouseTicket() (housie.Ticket, []int) {
	ticket := housie.Ticket{
		{5, 0, 0, 23, 0, 0, 44, 0, 67},
		{0, 12, 0, 0, 47, 0, 0, 72, 0},
		{9, 0, 31, 0, 0, 55, 0, 0, 90},
	}
	return ticket, ticket.Numbers()
}

func TestStartGameGeneratesTicketsAndActivates(t *testing.T) {
	store := newFakeStore(1, model.GameInActive, testPlayers()...)
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(1, StartGameEvent{TambolaGameId: gameId})

	require.Equal(t, model.GameActive, store.status)
	require.Len(t, store.tickets, 3)
	for userId, ticket := range store.tickets {
		require.Len(t, ticket.Numbers(), housie.CellsPerTicket, "ticket of user %d", userId)
	}

	for userId, conn := range conns {
		writes := conn.sent()
		require.Len(t, writes, 1, "user %d", userId)
		require.Equal(t, startedMessage{Type: "startTambolaGame"}, writes[0])
	}
}

func TestStartGameRejectsNonHost(t *testing.T) {
	store := newFakeStore(1, model.GameInActive, testPlayers()...)
	coordinator, conns := newTestCoordinator(store)

	err := coordinator.StartGame(gameId, 2)

	require.ErrorIs(t, err, tambola.ErrNotHost)
	require.Equal(t, model.GameInActive, store.status)
	require.Empty(t, store.tickets)
	for _, conn := range conns {
		require.Empty(t, conn.sent())
	}
}

func TestStartGameRequiresInActiveStatus(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	coordinator, _ := newTestCoordinator(store)

	err := coordinator.StartGame(gameId, 1)

	require.ErrorIs(t, err, tambola.ErrWrongStatus)
	require.Empty(t, store.tickets)
}

func TestDrawBroadcastsToAllButSender(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	store.withdrawn = []int{7}
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(1, DrawNumberEvent{TambolaGameId: gameId, CurrentNumber: 42})

	require.Equal(t, []int{7, 42}, store.withdrawn)
	require.Empty(t, conns[1].sent(), "drawer must not receive the broadcast")
	for _, userId := range []uint64{2, 3} {
		writes := conns[userId].sent()
		require.Len(t, writes, 1)
		require.Equal(t, withdrawnMessage{
			Type:             "withDrawnNumbers",
			WithDrawnNumbers: []int{7, 42},
			Message:          42,
		}, writes[0])
	}
}

func TestDrawDroppedForNonHost(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, DrawNumberEvent{TambolaGameId: gameId, CurrentNumber: 42})

	require.Empty(t, store.withdrawn)
	for _, conn := range conns {
		require.Empty(t, conn.sent())
	}
}

func TestDrawDroppedForDuplicateNumber(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	store.withdrawn = []int{42}
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(1, DrawNumberEvent{TambolaGameId: gameId, CurrentNumber: 42})

	require.Equal(t, []int{42}, store.withdrawn)
	for _, conn := range conns {
		require.Empty(t, conn.sent())
	}
}

func TestMarkPersistsWithoutBroadcast(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, MarkNumbersEvent{TambolaGameId: gameId, MarkedNumbers: []int{5, 23}})

	require.Equal(t, []int{5, 23}, store.marked[2])
	for _, conn := range conns {
		require.Empty(t, conn.sent())
	}
}

func TestInvalidClaimPenalizesClaimantOnly(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	ticket, _ := fullHouseTicket()
	store.tickets[2] = ticket
	store.marked[2] = []int{5, 23}
	store.withdrawn = []int{5, 23}
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, ClaimEvent{TambolaGameId: gameId, ClaimType: housie.TopLine})

	require.Equal(t, -5, store.scores[2])
	require.Empty(t, store.claims)
	require.Equal(t, model.GameActive, store.status)

	writes := conns[2].sent()
	require.Len(t, writes, 1)
	message := writes[0].(claimMessage)
	require.False(t, message.IsValidClaim)
	require.False(t, message.IsComplete)
	require.Equal(t, string(housie.TopLine), message.ClaimType)

	require.Empty(t, conns[1].sent())
	require.Empty(t, conns[3].sent())
}

func TestValidClaimBroadcastsAndScores(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	ticket, numbers := fullHouseTicket()
	store.tickets[2] = ticket
	store.marked[2] = numbers
	store.withdrawn = numbers
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, ClaimEvent{TambolaGameId: gameId, ClaimType: housie.TopLine})

	require.Equal(t, 30, store.scores[2])
	require.Len(t, store.claims, 1)
	require.Equal(t, model.GameActive, store.status)

	for userId, conn := range conns {
		writes := conn.sent()
		require.Len(t, writes, 1, "user %d", userId)
		message := writes[0].(claimMessage)
		require.True(t, message.IsValidClaim)
		require.False(t, message.IsComplete)
		require.Equal(t, []string{string(housie.TopLine)}, message.MarkedClaims)
		require.Contains(t, message.Message, "Bob")
	}
}

func TestFinalFullHouseCompletesGame(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	ticket, numbers := fullHouseTicket()
	store.tickets[2] = ticket
	store.marked[2] = numbers
	store.withdrawn = numbers
	store.claims = []tambola.ClaimRecord{
		{ClaimType: housie.TopLine, ClaimedById: 1},
		{ClaimType: housie.MiddleLine, ClaimedById: 3},
		{ClaimType: housie.BottomLine, ClaimedById: 1},
		{ClaimType: housie.EarlyFive, ClaimedById: 2},
	}
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, ClaimEvent{TambolaGameId: gameId, ClaimType: housie.FullHouse})

	require.Equal(t, 50, store.scores[2])
	require.Len(t, store.claims, 5)
	require.Equal(t, model.GameComplete, store.status)

	for userId, conn := range conns {
		writes := conn.sent()
		require.Len(t, writes, 1, "user %d", userId)
		message := writes[0].(claimMessage)
		require.True(t, message.IsValidClaim)
		require.True(t, message.IsComplete)
		require.Len(t, message.MarkedClaims, 5)
	}
}

func TestRepeatedClaimTypeIsNoOp(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	ticket, numbers := fullHouseTicket()
	store.tickets[2] = ticket
	store.marked[2] = numbers
	store.withdrawn = numbers
	store.claims = []tambola.ClaimRecord{{ClaimType: housie.TopLine, ClaimedById: 3}}
	coordinator, conns := newTestCoordinator(store)

	coordinator.Dispatch(2, ClaimEvent{TambolaGameId: gameId, ClaimType: housie.TopLine})

	require.Zero(t, store.scores[2])
	require.Len(t, store.claims, 1)
	require.Equal(t, uint64(3), store.claims[0].ClaimedById)
	for _, conn := range conns {
		require.Empty(t, conn.sent())
	}
}

func TestBroadcastSkipsDisconnectedPlayers(t *testing.T) {
	store := newFakeStore(1, model.GameActive, testPlayers()...)
	coordinator, conns := newTestCoordinator(store)
	coordinator.registry.Unregister(3, conns[3])

	coordinator.Dispatch(1, DrawNumberEvent{TambolaGameId: gameId, CurrentNumber: 42})

	require.Len(t, conns[2].sent(), 1)
	require.Empty(t, conns[3].sent())
}
