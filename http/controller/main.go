package controller

import (
	"log"

	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/infra"
	"github.com/tnqbao/gau-stream-overlay/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository

	requestCounter metric.Int64Counter
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	meter := otel.Meter("github.com/tnqbao/gau-stream-overlay/http/controller")
	requestCounter, err := meter.Int64Counter(
		"overlay.requests",
		metric.WithDescription("Count of overlay API operations by operation and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Printf("Warning: overlay request counter unavailable: %v", err)
	}

	return &Controller{
		Config:         cfg,
		Infra:          infra,
		Repository:     repo,
		requestCounter: requestCounter,
	}
}
