package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-stream-overlay/infra"
	"github.com/tnqbao/gau-stream-overlay/infra/produce"
)

const overlayListCacheKey = "overlays:all"

// OverlayConsumer keeps this instance's overlay list cache consistent when
// another instance writes: every overlay change event drops the cached list.
type OverlayConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewOverlayConsumer(channel *amqp.Channel, infra *infra.Infra) *OverlayConsumer {
	return &OverlayConsumer{
		channel: channel,
		infra:   infra,
	}
}

func (c *OverlayConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.OverlayEventsQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register overlay events consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Overlay Consumer] Started listening for overlay events on queue: %s", produce.OverlayEventsQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Overlay Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Overlay Consumer] Channel closed")
					return
				}
				c.handleOverlayChanged(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *OverlayConsumer) handleOverlayChanged(ctx context.Context, msg amqp.Delivery) {
	var payload produce.OverlayChangedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Overlay Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if _, err := uuid.Parse(payload.OverlayID); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Overlay Consumer] Invalid overlay ID in message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Overlay Consumer] Overlay %s %s, invalidating list cache", payload.OverlayID, payload.Action)

	if c.infra.Redis != nil {
		if err := c.infra.Redis.Delete(ctx, overlayListCacheKey); err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Overlay Consumer] Cache invalidation failed: %v", err)
			_ = msg.Nack(false, true)
			return
		}
	}

	_ = msg.Ack(false)
}
