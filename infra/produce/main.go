package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	OverlayService *OverlayService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	overlayService := InitOverlayService(channel)
	if overlayService == nil {
		panic("Failed to initialize Overlay produce service")
	}

	produceInstance = &Produce{
		OverlayService: overlayService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
