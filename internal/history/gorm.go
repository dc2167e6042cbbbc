package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type spinRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	WheelCode      string    `gorm:"size:16;not null;index:idx_spin_history_wheel_completed,priority:1"`
	SpinID         int       `gorm:"not null"`
	WinningIndex   int       `gorm:"not null"`
	WinningEntrant string    `gorm:"not null"`
	EntrantCount   int       `gorm:"not null"`
	FinalRotation  float64   `gorm:"not null"`
	DurationMs     int64     `gorm:"not null"`
	CompletedAt    time.Time `gorm:"not null;index:idx_spin_history_wheel_completed,priority:2,sort:desc"`
}

func (spinRow) TableName() string { return "spin_history" }

// GormStore persists history in Postgres.
type GormStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore migrates the history table on db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&spinRow{}); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, rec Record) error {
	row := spinRow(rec)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save spin %s/%d: %w", rec.WheelCode, rec.SpinID, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, code string, limit int) ([]Record, error) {
	var rows []spinRow
	q := s.db.WithContext(ctx).Where("wheel_code = ?", code).Order("completed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list history for %s: %w", code, err)
	}

	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Record(r)
	}
	return out, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
