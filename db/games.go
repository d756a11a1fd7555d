package db

import (
	"context"
	"fmt"

	"bggapi/models"

	"gorm.io/gorm"
)

const sqlGetGameByID = "SELECT name, year, url, image FROM game WHERE gid = ?"

// GameRepository reads game rows from the relational store.
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// FindByID returns the rows matching gid, possibly none. The query runs on
// a single borrowed connection that is returned to the pool on every path.
func (r *GameRepository) FindByID(ctx context.Context, id int64) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Raw(sqlGetGameByID, id).Scan(&games).Error
	})
	if err != nil {
		return nil, fmt.Errorf("query game %d: %w", id, err)
	}
	return games, nil
}
