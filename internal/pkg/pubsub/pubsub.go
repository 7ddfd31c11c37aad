// Package pubsub wraps the process-wide Cloud Pub/Sub client used for the
// notification side channel.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ctx context.Context
var client *pubsub.Client

// Publishable is anything that knows which topic it belongs on.
type Publishable interface {
	GetEventTopicName() string
}

func InitPubSub() {
	projectID := viper.GetString("GOOGLE_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("Pub sub missing projectID to initialize")
	}
	ctx = context.Background()
	var err error
	client, err = pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing pub sub connection")
	}
	log.Info().Msg("Successful pubsub init")
}

// PublishSync blocks until the broker acknowledges the message, so callers
// can retry on failure.
func PublishSync(message Publishable) error {
	t := getTopic(message.GetEventTopicName())
	defer t.Stop()

	result := t.Publish(ctx, &pubsub.Message{Data: encodeMessage(message)})
	_, err := result.Get(ctx)
	return err
}

func CloseClient() {
	client.Close()
}

func getTopic(topicName string) *pubsub.Topic {
	t := client.Topic(topicName)
	if t == nil {
		log.Info().Msg(fmt.Sprintf("Topic %s does not exist. Creating new", topicName))
		nt, err := client.CreateTopic(ctx, topicName)
		if err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("Cant create topic %s", topicName))
		}
		return nt
	}
	return t
}

func encodeMessage(message any) []byte {
	switch message.(type) {
	case string:
		return []byte(message.(string))

	default:
		bytes, _ := json.Marshal(message)
		return bytes
	}
}
