package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRentalNotFound       = errors.New("rental not found")
	ErrRentalStatusConflict = errors.New("rental status changed concurrently")
)

type Rental struct {
	ID                uint      `gorm:"primaryKey"`
	UserID            uint      `gorm:"not null;index"`
	User              User      `gorm:"foreignKey:UserID"`
	GameID            uint      `gorm:"not null;index"`
	Game              Game      `gorm:"foreignKey:GameID"`
	StartDate         time.Time `gorm:"not null"`
	EndDate           time.Time `gorm:"not null"`
	Status            string    `gorm:"not null;index"`
	PaymentReference  string
	PaymentStatus     string `gorm:"not null"`
	PaymentVerifiedAt *time.Time
	FineAmount        int `gorm:"not null;default:0"`
	FineReason        string
	FineStatus        string `gorm:"not null"`
	FinePaidAt        *time.Time
	ReturnRequestedAt *time.Time
	ReturnedAt        *time.Time
	GameCondition     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GameStatusChange is applied to the rented game in the same transaction as
// a rental transition. From lists the statuses the game may be in; empty
// means any.
type GameStatusChange struct {
	To   string
	From []string
}

type RentalDAO struct {
	db *gorm.DB
}

func NewRentalDAO(db *gorm.DB) *RentalDAO {
	return &RentalDAO{
		db: db,
	}
}

func (d *RentalDAO) Insert(ctx context.Context, rental Rental) (Rental, error) {
	if err := d.db.WithContext(ctx).Omit("User", "Game").Create(&rental).Error; err != nil {
		return Rental{}, err
	}

	return rental, nil
}

func (d *RentalDAO) FindByID(ctx context.Context, id uint) (Rental, error) {
	var rental Rental

	result := d.db.WithContext(ctx).Preload("Game").First(&rental, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Rental{}, ErrRentalNotFound
		}

		return Rental{}, result.Error
	}

	return rental, nil
}

func (d *RentalDAO) FindByUserID(ctx context.Context, userID uint) ([]Rental, error) {
	var rentals []Rental

	err := d.db.WithContext(ctx).Preload("Game").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}

	return rentals, nil
}

// FindByStatus lists rentals for the admin queue. An empty status lists all.
func (d *RentalDAO) FindByStatus(ctx context.Context, status string) ([]Rental, error) {
	var rentals []Rental

	query := d.db.WithContext(ctx).Preload("Game").Preload("User").Order("created_at, id")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}

	return rentals, nil
}

// Transition writes rental if its stored status is still from. When game is
// set the rented game's status moves in the same transaction, and a game that
// is not in one of game.From rolls the whole transition back.
func (d *RentalDAO) Transition(ctx context.Context, rental Rental, from string, game *GameStatusChange) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Rental{}).
			Where("id = ? AND status = ?", rental.ID, from).
			Select("Status", "PaymentReference", "PaymentStatus", "PaymentVerifiedAt",
				"FineAmount", "FineReason", "FineStatus", "FinePaidAt",
				"ReturnRequestedAt", "ReturnedAt", "GameCondition", "UpdatedAt").
			Updates(&Rental{
				Status:            rental.Status,
				PaymentReference:  rental.PaymentReference,
				PaymentStatus:     rental.PaymentStatus,
				PaymentVerifiedAt: rental.PaymentVerifiedAt,
				FineAmount:        rental.FineAmount,
				FineReason:        rental.FineReason,
				FineStatus:        rental.FineStatus,
				FinePaidAt:        rental.FinePaidAt,
				ReturnRequestedAt: rental.ReturnRequestedAt,
				ReturnedAt:        rental.ReturnedAt,
				GameCondition:     rental.GameCondition,
				UpdatedAt:         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Rental{}).Where("id = ?", rental.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRentalNotFound
			}
			return ErrRentalStatusConflict
		}

		if game == nil {
			return nil
		}
		return setGameStatus(tx, rental.GameID, game.To, game.From)
	})
}

// UpdateFine records a fine payment. Only the fine columns are touched and the
// row must still hold fromFineStatus.
func (d *RentalDAO) UpdateFine(ctx context.Context, rental Rental, fromFineStatus string) error {
	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("id = ? AND fine_status = ?", rental.ID, fromFineStatus).
		Updates(map[string]any{
			"fine_status":  rental.FineStatus,
			"fine_paid_at": rental.FinePaidAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalStatusConflict
	}

	return nil
}
