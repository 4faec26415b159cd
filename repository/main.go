package repository

import (
	"github.com/tnqbao/gau-stream-overlay/infra"
)

type Repository struct {
	OverlayRepo *OverlayRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		OverlayRepo: NewOverlayRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
