// Package notification is the outbox for fire-and-forget side effects of
// game play: downstream consumers (email templating, activity feeds) read
// the published events, game flow never waits on them.
package notification

import (
	"fmt"
	"time"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/festive-labs/santagames-backend/internal/pkg/pubsub"
	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog/log"
)

const (
	topicGameCreated  = "tambola-game-created"
	topicGameStarted  = "tambola-game-started"
	topicClaimAwarded = "tambola-claim-awarded"

	publishAttempts = 5
)

// Publisher delivers one event to its topic. The production implementation
// is pubsub; tests swap in fakes.
type Publisher interface {
	Publish(event Event) error
}

type Event struct {
	Id         string    `json:"id"`
	Topic      string    `json:"-"`
	GameId     uint64    `json:"gameId"`
	JoinCode   string    `json:"joinCode,omitempty"`
	UserId     uint64    `json:"userId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e Event) GetEventTopicName() string {
	return e.Topic
}

type Notifier struct {
	publisher Publisher
}

func New(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// NewPubSub returns a notifier backed by the process-wide pubsub client.
func NewPubSub() *Notifier {
	return New(pubsubPublisher{})
}

func (n *Notifier) GameCreated(gameId uint64, joinCode string, hostId uint64) {
	n.dispatch(Event{
		Topic:    topicGameCreated,
		GameId:   gameId,
		JoinCode: joinCode,
		UserId:   hostId,
	})
}

func (n *Notifier) GameStarted(gameId uint64, playerCount int) {
	n.dispatch(Event{
		Topic:  topicGameStarted,
		GameId: gameId,
		Detail: fmt.Sprintf("tickets generated for %d players", playerCount),
	})
}

func (n *Notifier) ClaimAwarded(gameId uint64, userId uint64, claim housie.ClaimType) {
	n.dispatch(Event{
		Topic:  topicClaimAwarded,
		GameId: gameId,
		UserId: userId,
		Detail: string(claim),
	})
}

// dispatch publishes asynchronously with bounded backoff. Exhausted retries
// are logged and dropped; the game loop never learns about them.
func (n *Notifier) dispatch(event Event) {
	event.Id = uuid.New().String()
	event.OccurredAt = time.Now().UTC()

	go func() {
		b := &backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    30 * time.Second,
			Factor: 2,
			Jitter: true,
		}
		for attempt := 0; attempt < publishAttempts; attempt++ {
			err := n.publisher.Publish(event)
			if err == nil {
				return
			}
			log.Warn().Err(err).Msg(fmt.Sprintf("Failed publishing %s event %s, attempt %d", event.Topic, event.Id, attempt+1))
			time.Sleep(b.Duration())
		}
		log.Error().Msg(fmt.Sprintf("Dropping %s event %s after %d attempts", event.Topic, event.Id, publishAttempts))
	}()
}

type pubsubPublisher struct{}

func (pubsubPublisher) Publish(event Event) error {
	return pubsub.PublishSync(event)
}
