package credit

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("credit profile not found")
	ErrProfileExists = errors.New("credit profile already exists")
)

// Score bounds; scores are clamped to this window at computation time.
const (
	MinScore = 300
	MaxScore = 850
)

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
	TierSubprime  Tier = "subprime"
)

// Inputs is the declared financial profile a score is derived from.
// Money fields are minor currency units.
type Inputs struct {
	MonthlyIncome    int64 `gorm:"column:monthly_income" json:"monthly_income"`
	EmploymentMonths int   `gorm:"column:employment_months" json:"employment_months"`
	ExistingDebt     int64 `gorm:"column:existing_debt" json:"existing_debt"`
	HistoryMonths    int   `gorm:"column:history_months" json:"history_months"`
	PriorDefaults    int   `gorm:"column:prior_defaults" json:"prior_defaults"`
	RecentInquiries  int   `gorm:"column:recent_inquiries" json:"recent_inquiries"`
}

// Profile is 1:1 with an identity. Score and Tier change only through an
// explicit recompute, never as a side effect of other operations.
type Profile struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	IdentityID string `gorm:"size:32;uniqueIndex:ux_credit_profiles_identity" json:"identity_id"`
	Inputs     `gorm:"embedded"`
	Score      int       `json:"score"`
	Tier       Tier      `gorm:"size:16" json:"tier"`
	ScoredBy   string    `gorm:"size:32" json:"scored_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "credit_profiles" }

// TierFor maps a clamped score onto its pricing tier.
func TierFor(score int) Tier {
	switch {
	case score >= 750:
		return TierExcellent
	case score >= 700:
		return TierGood
	case score >= 650:
		return TierFair
	case score >= 550:
		return TierPoor
	default:
		return TierSubprime
	}
}
