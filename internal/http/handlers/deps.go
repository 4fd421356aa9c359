package handlers

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/config"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

type Deps struct {
	ItemHandler   *ItemHandler
	HealthHandler *HealthHandler
	IndexHandler  *IndexHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	itemRepo := repos.NewItemRepo(db)
	itemSvc := services.NewItemService(itemRepo)

	return &Deps{
		ItemHandler:   &ItemHandler{Items: itemSvc},
		HealthHandler: &HealthHandler{Items: itemSvc},
		IndexHandler:  &IndexHandler{},
	}
}
