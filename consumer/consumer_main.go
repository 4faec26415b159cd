package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/consumer/worker"
	infraPkg "github.com/tnqbao/gau-stream-overlay/infra"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	if infra.RabbitMQ == nil {
		log.Fatal("RabbitMQ is required for the overlay event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer infra.Logger.Shutdown(context.Background())

	overlayConsumer := worker.NewOverlayConsumer(infra.RabbitMQ.Channel, infra)
	if err := overlayConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Overlay consumer: %v", err)
		log.Fatalf("Failed to start Overlay consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
