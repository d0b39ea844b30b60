package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyWatching      = errors.New("already watching game")
)

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	IsRead    bool   `gorm:"not null;default:false"`
	LinkPath  string
	CreatedAt time.Time
}

type GameWatch struct {
	UserID    uint `gorm:"primaryKey"`
	GameID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

type Warning struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Reason    string `gorm:"not null"`
	IssuedBy  uint   `gorm:"not null"`
	CreatedAt time.Time
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) InsertMany(ctx context.Context, notifications []Notification) ([]Notification, error) {
	if len(notifications) == 0 {
		return notifications, nil
	}
	if err := d.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (d *NotificationDAO) FindByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error) {
	var notifications []Notification

	query := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (d *NotificationDAO) MarkRead(ctx context.Context, userID, id uint) error {
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (d *NotificationDAO) InsertWatch(ctx context.Context, watch GameWatch) (GameWatch, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&watch)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return GameWatch{}, ErrAlreadyWatching
		}
		return GameWatch{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GameWatch{}, ErrAlreadyWatching
	}

	return watch, nil
}

// PopWatches removes and returns every watch on the game.
func (d *NotificationDAO) PopWatches(ctx context.Context, gameID uint) ([]GameWatch, error) {
	var watches []GameWatch

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Order("created_at").Find(&watches).Error; err != nil {
			return err
		}
		if len(watches) == 0 {
			return nil
		}
		return tx.Where("game_id = ?", gameID).Delete(&GameWatch{}).Error
	})
	if err != nil {
		return nil, err
	}

	return watches, nil
}

func (d *NotificationDAO) InsertWarning(ctx context.Context, warning Warning) (Warning, error) {
	if err := d.db.WithContext(ctx).Create(&warning).Error; err != nil {
		return Warning{}, err
	}

	return warning, nil
}

func (d *NotificationDAO) FindWarningsByUserID(ctx context.Context, userID uint) ([]Warning, error) {
	var warnings []Warning

	err := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&warnings).Error
	if err != nil {
		return nil, err
	}

	return warnings, nil
}
