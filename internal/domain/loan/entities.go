package loan

import (
	"errors"
	"time"
)

// Validation errors: rejected before any state mutation.
var (
	ErrInvalidAmount            = errors.New("loan amount outside configured bounds")
	ErrInvalidRate              = errors.New("interest rate outside configured bounds")
	ErrInvalidTerm              = errors.New("loan term outside configured bounds")
	ErrIncorrectFundingAmount   = errors.New("funding amount must equal principal exactly")
	ErrIncorrectRepaymentAmount = errors.New("repayment amount must equal principal plus interest exactly")
)

// Authorization errors: permission failures, no state change.
var (
	ErrBorrowerNotVerified = errors.New("borrower is not verified or failed compliance")
	ErrLenderNotEligible   = errors.New("lender is not verified or failed compliance")
	ErrSelfFunding         = errors.New("borrower may not fund their own loan")
	ErrNotBorrower         = errors.New("only the borrower may repay the loan")
)

// State-conflict errors: wrong lifecycle state, rejected atomically.
var (
	ErrNotFound        = errors.New("loan not found")
	ErrAlreadyApproved = errors.New("loan already approved")
	ErrNotApproved     = errors.New("loan not approved")
	ErrAlreadyFunded   = errors.New("loan already funded")
	ErrNotFunded       = errors.New("loan not funded")
	ErrNotPastDue      = errors.New("loan due date has not passed")
)

const rateDenominatorBps = 10000

type State string

const (
	StateCreated   State = "created"
	StateApproved  State = "approved"
	StateFunded    State = "funded"
	StateRepaid    State = "repaid"
	StateDefaulted State = "defaulted"
)

// Loan is the per-loan state machine: created → approved → funded →
// {repaid | defaulted}. Amounts are minor currency units, rates basis
// points. AdjustedRateBps is fixed at creation and never changes.
type Loan struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string     `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID       string     `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	LenderID         string     `gorm:"size:32" json:"lender_id,omitempty"`
	Principal        int64      `json:"principal"`
	RequestedRateBps int64      `gorm:"column:requested_rate_bps" json:"requested_rate_bps"`
	AdjustedRateBps  int64      `gorm:"column:adjusted_rate_bps" json:"adjusted_rate_bps"`
	TermMonths       int        `gorm:"column:term_months" json:"term_months"`
	Purpose          string     `gorm:"type:text" json:"purpose"`
	State            State      `gorm:"size:16;default:'created'" json:"state"`
	ApprovedBy       string     `gorm:"size:32" json:"approved_by,omitempty"`
	FundedAt         *time.Time `json:"funded_at,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	StateUpdatedAt   time.Time  `json:"state_updated_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Interest is flat for the full term: principal * adjustedRateBps / 10000.
// Pure query, identical before and after funding.
func (l *Loan) Interest() int64 {
	return l.Principal * l.AdjustedRateBps / rateDenominatorBps
}

// RepaymentDue is the exact amount a repayment must match.
func (l *Loan) RepaymentDue() int64 { return l.Principal + l.Interest() }

// Due computes the repayment deadline for a loan funded at fundedAt.
func Due(fundedAt time.Time, termMonths int) time.Time {
	return fundedAt.AddDate(0, termMonths, 0)
}

// Defaulted reports whether the loan is past due without repayment at the
// given read time. Derived predicate; no background transition required.
func (l *Loan) Defaulted(now time.Time) bool {
	return l.State == StateFunded && l.DueAt != nil && now.After(*l.DueAt)
}

// Active reports whether the loan counts toward totalActiveLoans.
func (l *Loan) Active() bool {
	return l.State == StateApproved || l.State == StateFunded
}
