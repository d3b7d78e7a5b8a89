package mysql

import (
	"context"
	"errors"

	creditDomain "peervest/internal/domain/credit"

	"gorm.io/gorm"
)

type CreditRepository struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) *CreditRepository { return &CreditRepository{db: db} }

func (r *CreditRepository) Create(ctx context.Context, p *creditDomain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CreditRepository) GetByIdentityID(ctx context.Context, identityID string) (*creditDomain.Profile, error) {
	var out creditDomain.Profile
	res := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, creditDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CreditRepository) Save(ctx context.Context, p *creditDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
