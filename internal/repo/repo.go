package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/agro_shop/internal/logging"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("database not available")
	ErrValidation  = errors.New("validation")
)

// GormRepo is the data-access layer. A nil DB means no database is
// configured: reads come back empty and writes fail with ErrUnavailable.
type GormRepo struct {
	DB *gorm.DB
	// OwnerOpenID is promoted to admin on upsert.
	OwnerOpenID string
}

func New(db *gorm.DB, ownerOpenID string) *GormRepo {
	return &GormRepo{DB: db, OwnerOpenID: ownerOpenID}
}

func (r *GormRepo) Available() bool {
	return r != nil && r.DB != nil
}

func (r *GormRepo) conn(ctx context.Context, op string) (*gorm.DB, bool) {
	if !r.Available() {
		logging.FromContext(ctx).Warn("database_unavailable", "op", op)
		return nil, false
	}
	return r.DB.WithContext(ctx), true
}

func (r *GormRepo) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// fail logs an unexpected database error and wraps it with the operation name.
func fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	logging.FromContext(ctx).Error("database_error", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}
