package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OverlayExchange    = "overlay.exchange"
	OverlayEventsQueue = "overlay.events"
	OverlayRoutingBase = "overlay"

	OverlayActionCreated = "created"
	OverlayActionUpdated = "updated"
	OverlayActionDeleted = "deleted"
)

type OverlayService struct {
	channel *amqp.Channel
}

// OverlayChangedMessage notifies other instances that the stored collection
// changed so they can drop their cached copy.
type OverlayChangedMessage struct {
	OverlayID string `json:"overlay_id"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

func InitOverlayService(channel *amqp.Channel) *OverlayService {
	service := &OverlayService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		OverlayExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Overlay exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		OverlayEventsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Overlay events queue: " + err.Error())
	}

	err = channel.QueueBind(
		OverlayEventsQueue,
		OverlayRoutingBase+".*",
		OverlayExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Overlay events queue: " + err.Error())
	}

	return service
}

func (s *OverlayService) PublishOverlayChanged(ctx context.Context, action, overlayID string) error {
	message := OverlayChangedMessage{
		OverlayID: overlayID,
		Action:    action,
		Timestamp: time.Now().Unix(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		OverlayExchange,
		OverlayRoutingBase+"."+action,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}
