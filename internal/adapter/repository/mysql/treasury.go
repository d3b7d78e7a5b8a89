package mysql

import (
	"context"
	"errors"

	treasuryDomain "peervest/internal/domain/treasury"

	"gorm.io/gorm"
)

type TreasuryRepository struct{ db *gorm.DB }

func NewTreasuryRepository(db *gorm.DB) *TreasuryRepository { return &TreasuryRepository{db: db} }

func (r *TreasuryRepository) Append(ctx context.Context, e *treasuryDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TreasuryRepository) Credit(ctx context.Context, c treasuryDomain.Category, amount int64) error {
	return r.db.WithContext(ctx).
		Model(&treasuryDomain.Balance{}).
		Where("category = ?", c).
		UpdateColumn("amount", gorm.Expr("amount + ?", amount)).Error
}

func (r *TreasuryRepository) GetBalance(ctx context.Context, c treasuryDomain.Category) (int64, error) {
	var out treasuryDomain.Balance
	res := r.db.WithContext(ctx).Where("category = ?", c).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, treasuryDomain.ErrUnknownCategory
	}
	return out.Amount, res.Error
}

func (r *TreasuryRepository) GetBalanceForUpdate(ctx context.Context, c treasuryDomain.Category) (*treasuryDomain.Balance, error) {
	var out treasuryDomain.Balance
	res := withRowLock(r.db.WithContext(ctx)).
		Where("category = ?", c).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, treasuryDomain.ErrUnknownCategory
	}
	return &out, res.Error
}

func (r *TreasuryRepository) SaveBalance(ctx context.Context, b *treasuryDomain.Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *TreasuryRepository) ListEntries(ctx context.Context, c treasuryDomain.Category) ([]treasuryDomain.Entry, error) {
	var out []treasuryDomain.Entry
	res := r.db.WithContext(ctx).
		Where("category = ?", c).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
