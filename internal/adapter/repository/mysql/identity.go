package mysql

import (
	"context"
	"errors"

	identityDomain "peervest/internal/domain/identity"

	"gorm.io/gorm"
)

type IdentityRepository struct{ db *gorm.DB }

func NewIdentityRepository(db *gorm.DB) *IdentityRepository { return &IdentityRepository{db: db} }

func (r *IdentityRepository) Create(ctx context.Context, i *identityDomain.Identity) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *IdentityRepository) GetByIdentityID(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	var out identityDomain.Identity
	res := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Compliance", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("identity_id = ?", identityID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identityDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*identityDomain.Identity, error) {
	var out identityDomain.Identity
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identityDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *IdentityRepository) Save(ctx context.Context, i *identityDomain.Identity) error {
	// Scalar fields only; documents and compliance rows have their own paths.
	return r.db.WithContext(ctx).Omit("Documents", "Compliance").Save(i).Error
}

func (r *IdentityRepository) AddDocument(ctx context.Context, d *identityDomain.KYCDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *IdentityRepository) SaveDocument(ctx context.Context, d *identityDomain.KYCDocument) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *IdentityRepository) AddCompliance(ctx context.Context, c *identityDomain.ComplianceRecord) error {
	return r.db.WithContext(ctx).Create(c).Error
}
