package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ PubSubClient = (*client)(nil)
	_ PubSubClient = noop{}
)

const publishTimeout = 10 * time.Second

// New connects to Pub/Sub in projectID. Without a project id messages are
// dropped by a no-op client.
func New(ctx context.Context, projectID string, metrics metrics.Metrics) (PubSubClient, error) {
	if projectID == "" {
		log.Warn("GCP_PROJECT not set, events will not be published")
		return noop{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &client{
		client:  pubSubC,
		metrics: metrics,
		teardown: func() {
			if err := pubSubC.Close(); err != nil {
				log.Error("Failed to close pubsub client", "error", err)
			}
		},
	}, nil
}

func (c *client) Enabled() bool { return true }

func (c *client) SendMessage(topic EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	result := c.client.Topic(string(topic)).Publish(ctx, &pubsub.Message{Data: msgpackData})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	c.metrics.IncEventsPublished(string(topic))
	log.Info("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (c *client) Close() {
	c.teardown()
}

func (noop) Enabled() bool { return false }

func (noop) SendMessage(topic EventType, data any) error {
	log.Debug("Dropping event, publishing disabled", "topic", topic)
	return nil
}

func (noop) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noop) Close() {}

// Encode serializes an event payload as MessagePack.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}

// Decode unmarshals MessagePack data into the provided pointer.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
