package mysql

import (
	"context"
	"errors"

	platformDomain "peervest/internal/domain/platform"

	"gorm.io/gorm"
)

type PlatformRepository struct{ db *gorm.DB }

func NewPlatformRepository(db *gorm.DB) *PlatformRepository { return &PlatformRepository{db: db} }

func (r *PlatformRepository) GetConfig(ctx context.Context) (*platformDomain.Config, error) {
	var out platformDomain.Config
	res := r.db.WithContext(ctx).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, platformDomain.ErrConfigNotFound
	}
	return &out, res.Error
}

func (r *PlatformRepository) GetConfigForUpdate(ctx context.Context) (*platformDomain.Config, error) {
	var out platformDomain.Config
	res := withRowLock(r.db.WithContext(ctx)).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, platformDomain.ErrConfigNotFound
	}
	return &out, res.Error
}

func (r *PlatformRepository) SaveConfig(ctx context.Context, c *platformDomain.Config) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *PlatformRepository) GetStats(ctx context.Context) (*platformDomain.Stats, error) {
	var out platformDomain.Stats
	res := r.db.WithContext(ctx).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, platformDomain.ErrConfigNotFound
	}
	return &out, res.Error
}

// IncLoansCreated applies a relative update so counters are never
// recomputed by scan and concurrent creations cannot lose increments.
func (r *PlatformRepository) IncLoansCreated(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&platformDomain.Stats{}).
		Where("1 = 1").
		UpdateColumn("total_loans_created", gorm.Expr("total_loans_created + ?", 1)).Error
}

func (r *PlatformRepository) AddActiveLoans(ctx context.Context, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&platformDomain.Stats{}).
		Where("1 = 1").
		UpdateColumn("total_active_loans", gorm.Expr("total_active_loans + ?", delta)).Error
}
