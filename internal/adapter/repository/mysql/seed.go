package mysql

import (
	"errors"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/event"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"

	"gorm.io/gorm"
)

// Migrate creates every engine table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.Identity{},
		&identity.KYCDocument{},
		&identity.ComplianceRecord{},
		&credit.Profile{},
		&loan.Loan{},
		&platform.Config{},
		&platform.Stats{},
		&role.Assignment{},
		&treasury.Entry{},
		&treasury.Balance{},
		&event.Event{},
	)
}

// Seed ensures the singleton rows exist: platform config (from the boot
// defaults), the stats row, one balance row per treasury category, and the
// bootstrap admin role when one is configured. Idempotent; existing rows
// are left untouched.
func Seed(db *gorm.DB, cfg platform.Config, bootstrapAdminID string) error {
	var existingCfg platform.Config
	if err := db.First(&existingCfg).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&cfg).Error; err != nil {
			return err
		}
	}

	var existingStats platform.Stats
	if err := db.First(&existingStats).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&platform.Stats{}).Error; err != nil {
			return err
		}
	}

	for _, c := range []treasury.Category{treasury.CategoryFee, treasury.CategoryReserve} {
		var b treasury.Balance
		if err := db.Where("category = ?", c).First(&b).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := db.Create(&treasury.Balance{Category: c}).Error; err != nil {
				return err
			}
		}
	}

	// Without at least one admin no role-gated operation is reachable on a
	// fresh database; later grants go through the platform usecase.
	if bootstrapAdminID != "" {
		var a role.Assignment
		err := db.Where("identity_id = ? AND role = ?", bootstrapAdminID, role.Admin).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Create(&role.Assignment{
				IdentityID: bootstrapAdminID,
				Role:       role.Admin,
				GrantedBy:  "bootstrap",
			}).Error
		}
		return err
	}
	return nil
}
