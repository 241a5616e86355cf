package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

const (
	consumerName           = "reconcile-consumer"
	consumerMaxDeliver     = 5
	consumerAckWait        = 30 * time.Second
	consumerMaxAckPending  = 100
	natsMaxReconnects      = -1
	natsReconnectWait      = 2 * time.Second
	eventChannelBufferSize = 64
)

// Consumer drives reconciliation from the game event stream. Recovery happens
// automatically through JetStream event replay with DeliverAllPolicy.
type Consumer struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer
	updater  *Updater

	streamName    string
	filterSubject string
}

// NewConsumer connects to NATS and binds a durable consumer to the game event
// stream.
func NewConsumer(ctx context.Context, natsURL string, updater *Updater) (*Consumer, error) {
	nc, js, err := setupNATSConnection(natsURL)
	if err != nil {
		return nil, err
	}

	c := &Consumer{
		nc:            nc,
		js:            js,
		updater:       updater,
		streamName:    "GAME_EVENTS",
		filterSubject: "game.events.>",
	}
	if err := c.ensureConsumer(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// setupNATSConnection creates a NATS connection with JetStream
func setupNATSConnection(natsURL string) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return nc, js, nil
}

// ensureConsumer creates or gets the JetStream consumer
func (c *Consumer) ensureConsumer(ctx context.Context) error {
	stream, err := c.js.Stream(ctx, c.streamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		Description:   "Game result event consumer with startup replay",
		FilterSubject: c.filterSubject,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    consumerMaxDeliver,
		AckWait:       consumerAckWait,
		MaxAckPending: consumerMaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}

	consumer, err := stream.Consumer(ctx, consumerName)
	if err != nil {
		consumer, err = stream.CreateConsumer(ctx, consumerConfig)
		if err != nil {
			return fmt.Errorf("create consumer: %w", err)
		}
		log.Info().Msg("created JetStream consumer for reconciliation")
	} else {
		log.Info().Msg("using existing JetStream consumer for reconciliation")
	}

	c.consumer = consumer
	return nil
}

// Run consumes game events until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().
		Str("stream", c.streamName).
		Str("filter", c.filterSubject).
		Msg("reconciliation consumer started")

	eventCh := make(chan jetstream.Msg, eventChannelBufferSize)

	consumeCtx, err := c.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case eventCh <- msg:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start JetStream consumer: %w", err)
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconciliation consumer shutdown requested")
			return nil
		case msg := <-eventCh:
			if err := c.processEvent(ctx, msg); err != nil {
				log.Error().Err(err).Msg("failed to process event")
				msg.Nak()
			} else {
				msg.Ack()
			}
		}
	}
}

// processEvent processes a single JetStream event
func (c *Consumer) processEvent(ctx context.Context, msg jetstream.Msg) error {
	var event DomainEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	gameID, err := uuid.Parse(event.GameID)
	if err != nil {
		return fmt.Errorf("parse game ID: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject()).
		Str("game_id", event.GameID).
		Str("event_type", event.EventType).
		Msg("processing reconciliation event")

	switch event.EventType {
	case EventTypeGameResultUpdated:
		game, err := c.updater.repo.GetGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game for event: %w", err)
		}
		return c.updater.FanOut(ctx, game)
	default:
		log.Warn().
			Str("event_type", event.EventType).
			Str("game_id", event.GameID).
			Msg("unknown event type - ignoring")
		return nil
	}
}

// Close gracefully closes the consumer
func (c *Consumer) Close() error {
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}
