package mysql

import (
	"context"
	"errors"

	roleDomain "peervest/internal/domain/role"

	"gorm.io/gorm"
)

type RoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) *RoleRepository { return &RoleRepository{db: db} }

func (r *RoleRepository) Grant(ctx context.Context, a *roleDomain.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *RoleRepository) Revoke(ctx context.Context, identityID string, role roleDomain.Role) error {
	return r.db.WithContext(ctx).
		Where("identity_id = ? AND role = ?", identityID, role).
		Delete(&roleDomain.Assignment{}).Error
}

func (r *RoleRepository) Has(ctx context.Context, identityID string, role roleDomain.Role) (bool, error) {
	var a roleDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("identity_id = ? AND role = ?", identityID, role).
		First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return true, nil
}

func (r *RoleRepository) ListByIdentityID(ctx context.Context, identityID string) ([]roleDomain.Assignment, error) {
	var out []roleDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
