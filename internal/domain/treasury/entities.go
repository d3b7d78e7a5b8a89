package treasury

import (
	"errors"
	"time"
)

var (
	ErrInsufficientBalance = errors.New("treasury balance insufficient")
	ErrUnknownCategory     = errors.New("unknown treasury category")
)

type Category string

const (
	CategoryFee     Category = "fee"
	CategoryReserve Category = "reserve"
)

// ValidCategory reports whether c names a custodied bucket.
func ValidCategory(c Category) bool {
	return c == CategoryFee || c == CategoryReserve
}

// Entry is one append-only custody movement. Credits carry a positive
// amount, withdrawals a negative one; the running balance lives in Balance.
type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Category  Category  `gorm:"size:16;index:idx_treasury_entries_category" json:"category"`
	Amount    int64     `json:"amount"`
	LoanID    string    `gorm:"size:32" json:"loan_id,omitempty"`
	Recipient string    `gorm:"size:32" json:"recipient,omitempty"`
	Note      string    `gorm:"size:128" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "treasury_entries" }

// Balance is the incrementally maintained custody total per category.
type Balance struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Category  Category  `gorm:"size:16;uniqueIndex:ux_treasury_balances_category" json:"category"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string { return "treasury_balances" }
