// Package events carries in-process notifications between the edit and list
// sides of the service over a watermill go-channel pub/sub.
package events

import (
	"context"
	"fmt"
	"weighbridge/application/weighbridge/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// TopicTicketSaved is published after every successful add or update
const TopicTicketSaved = "ticket.saved"

// TicketSavedHandler reacts to a saved ticket
type TicketSavedHandler func(ctx context.Context, event domain.TicketSaved) error

// Config tunes the underlying go-channel pub/sub
type Config struct {
	// BlockUntilAck makes Publish wait until every subscriber acked the message
	BlockUntilAck bool
	// OutputBuffer is the per-subscriber channel buffer
	OutputBuffer int64
}

// Bus publishes and delivers ticket events
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *zap.Logger
}

// NewBus creates a bus backed by an in-memory go-channel pub/sub
func NewBus(cfg Config, logger *zap.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.OutputBuffer,
		BlockPublishUntilSubscriberAck: cfg.BlockUntilAck,
	}, NewZapLoggerAdapter(logger))

	return &Bus{pubSub: pubSub, logger: logger}
}

// PublishTicketSaved announces a completed write
func (b *Bus) PublishTicketSaved(ctx context.Context, event domain.TicketSaved) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", TopicTicketSaved, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("operation", event.Operation)

	if err := b.pubSub.Publish(TopicTicketSaved, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", TopicTicketSaved, err)
	}
	return nil
}

// SubscribeTicketSaved delivers events to handler until ctx is cancelled or the
// bus is closed. Handler errors are logged and the message is still acked so a
// failing consumer cannot wedge publishers.
func (b *Bus) SubscribeTicketSaved(ctx context.Context, handler TicketSavedHandler) error {
	messages, err := b.pubSub.Subscribe(ctx, TopicTicketSaved)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicTicketSaved, err)
	}

	go func() {
		for msg := range messages {
			var event domain.TicketSaved
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("dropping malformed event",
					zap.String("topic", TopicTicketSaved),
					zap.String("message_uuid", msg.UUID),
					zap.Error(err),
				)
				msg.Ack()
				continue
			}

			if err := handler(msg.Context(), event); err != nil {
				b.logger.Error("event handler failed",
					zap.String("topic", TopicTicketSaved),
					zap.Int64("ticket_id", event.TicketID),
					zap.Error(err),
				)
			}
			msg.Ack()
		}
	}()

	return nil
}

// Close stops the pub/sub and closes subscriber channels
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
