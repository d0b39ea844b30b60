package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotAvailable = errors.New("game is not available")
	ErrGameInUse        = errors.New("game has rentals")
)

type Game struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null;index"`
	Description     string
	Images          []string `gorm:"serializer:json"`
	Category        string `gorm:"not null;index"`
	MinPlayers      int    `gorm:"not null"`
	MaxPlayers      int    `gorm:"not null"`
	DurationMinutes int    `gorm:"not null"`
	Complexity      int    `gorm:"not null"`
	RulesURL        string
	Components      []string `gorm:"serializer:json"`
	Status          string `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GameQuery mirrors the catalog filter. Empty strings and a zero
// MaxComplexity do not restrict the result; players and duration always do.
type GameQuery struct {
	Category      string
	MinPlayers    int
	MaxDuration   int
	MaxComplexity int
	Status        string
}

func (q GameQuery) apply(db *gorm.DB) *gorm.DB {
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	db = db.Where("max_players >= ? AND duration_minutes <= ?", q.MinPlayers, q.MaxDuration)
	if q.MaxComplexity > 0 {
		db = db.Where("complexity <= ?", q.MaxComplexity)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	return db
}

type GameDAO struct {
	db *gorm.DB
}

func NewGameDAO(db *gorm.DB) *GameDAO {
	return &GameDAO{
		db: db,
	}
}

func (d *GameDAO) Insert(ctx context.Context, game Game) (Game, error) {
	if err := d.db.WithContext(ctx).Create(&game).Error; err != nil {
		return Game{}, err
	}

	return game, nil
}

func (d *GameDAO) FindByID(ctx context.Context, id uint) (Game, error) {
	var game Game

	result := d.db.WithContext(ctx).First(&game, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Game{}, ErrGameNotFound
		}

		return Game{}, result.Error
	}

	return game, nil
}

func (d *GameDAO) List(ctx context.Context, q GameQuery, page Page) ([]Game, int64, Page, error) {
	return paginate[Game](q.apply(d.db.WithContext(ctx).Model(&Game{})), "id", page)
}

// FindByStatus returns at most limit games with the given status, oldest first.
func (d *GameDAO) FindByStatus(ctx context.Context, status string, limit int) ([]Game, error) {
	var games []Game

	err := d.db.WithContext(ctx).Where("status = ?", status).Order("id").Limit(limit).Find(&games).Error
	if err != nil {
		return nil, err
	}

	return games, nil
}

func (d *GameDAO) Update(ctx context.Context, game Game) (Game, error) {
	result := d.db.WithContext(ctx).Model(&Game{ID: game.ID}).
		Select("Name", "Description", "Images", "Category", "MinPlayers", "MaxPlayers",
			"DurationMinutes", "Complexity", "RulesURL", "Components", "Status").
		Updates(&game)
	if result.Error != nil {
		return Game{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Game{}, ErrGameNotFound
	}

	return d.FindByID(ctx, game.ID)
}

// SetStatus moves the game to status if its current status is one of from.
// An empty from skips the check.
func (d *GameDAO) SetStatus(ctx context.Context, id uint, status string, from ...string) (Game, error) {
	if err := setGameStatus(d.db.WithContext(ctx), id, status, from); err != nil {
		return Game{}, err
	}

	return d.FindByID(ctx, id)
}

func (d *GameDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Game{}, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrGameInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}

	return nil
}

func setGameStatus(tx *gorm.DB, id uint, status string, from []string) error {
	query := tx.Model(&Game{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}

	result := query.Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&Game{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrGameNotFound
	}
	return ErrGameNotAvailable
}
