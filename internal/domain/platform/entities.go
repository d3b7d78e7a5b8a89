package platform

import (
	"errors"
	"time"
)

var (
	ErrSystemPaused       = errors.New("platform is paused")
	ErrFeeRateTooHigh     = errors.New("fee rate exceeds platform cap")
	ErrReserveRateTooHigh = errors.New("reserve rate exceeds platform cap")
	ErrConfigNotFound     = errors.New("platform config not seeded")
)

// Hard caps on the mutable platform rates, in basis points.
const (
	MaxFeeRateBps     = 500  // 5%
	MaxReserveRateBps = 1000 // 10%
)

// Config is the singleton platform configuration. Bounds are enforced at
// loan creation; fee and reserve rates are skimmed at funding/repayment.
type Config struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	FeeRateBps     int64     `gorm:"column:fee_rate_bps" json:"fee_rate_bps"`
	ReserveRateBps int64     `gorm:"column:reserve_rate_bps" json:"reserve_rate_bps"`
	MinAmount      int64     `gorm:"column:min_amount" json:"min_amount"`
	MaxAmount      int64     `gorm:"column:max_amount" json:"max_amount"`
	MinRateBps     int64     `gorm:"column:min_rate_bps" json:"min_rate_bps"`
	MaxRateBps     int64     `gorm:"column:max_rate_bps" json:"max_rate_bps"`
	MinTermMonths  int       `gorm:"column:min_term_months" json:"min_term_months"`
	MaxTermMonths  int       `gorm:"column:max_term_months" json:"max_term_months"`
	Paused         bool      `json:"paused"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Config) TableName() string { return "platform_config" }

// Stats holds the incrementally maintained platform counters. They are
// adjusted inside the same transaction as the state change they count and
// never recomputed by full scan.
type Stats struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	TotalLoansCreated int64     `gorm:"column:total_loans_created" json:"total_loans_created"`
	TotalActiveLoans  int64     `gorm:"column:total_active_loans" json:"total_active_loans"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stats) TableName() string { return "platform_stats" }
