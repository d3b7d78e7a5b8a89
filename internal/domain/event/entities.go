package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Name identifies an engine event. Events are appended in the same
// transaction as the state change they record, so each committed transition
// produces exactly one event.
type Name string

const (
	LoanCreated            Name = "loan_created"
	LoanApproved           Name = "loan_approved"
	LoanFunded             Name = "loan_funded"
	LoanRepaid             Name = "loan_repaid"
	LoanDefaulted          Name = "loan_defaulted"
	PlatformFeeUpdated     Name = "platform_fee_updated"
	ReserveFundRateUpdated Name = "reserve_fund_rate_updated"
	PlatformPaused         Name = "platform_paused"
	PlatformUnpaused       Name = "platform_unpaused"
	IdentityRegistered     Name = "identity_registered"
	IdentityVerified       Name = "identity_verified"
	RoleGranted            Name = "role_granted"
	RoleRevoked            Name = "role_revoked"
	TreasuryWithdrawal     Name = "treasury_withdrawal"
)

type Event struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	EventID   string    `gorm:"size:36;uniqueIndex:ux_events_event_id" json:"event_id"`
	Name      Name      `gorm:"size:64;index:idx_events_name" json:"name"`
	LoanID    string    `gorm:"size:32;index:idx_events_loan" json:"loan_id,omitempty"`
	ActorID   string    `gorm:"size:32" json:"actor_id,omitempty"`
	Payload   string    `gorm:"type:text" json:"payload"`
	EmittedAt time.Time `json:"emitted_at"`
}

func (Event) TableName() string { return "platform_events" }

// New builds an event with a fresh uuid and the payload marshaled to JSON.
func New(name Name, loanID, actorID string, payload any, at time.Time) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return &Event{
		EventID:   uuid.NewString(),
		Name:      name,
		LoanID:    loanID,
		ActorID:   actorID,
		Payload:   string(raw),
		EmittedAt: at,
	}, nil
}

// Decode unmarshals the payload into out.
func (e *Event) Decode(out any) error {
	return json.Unmarshal([]byte(e.Payload), out)
}

type LoanCreatedPayload struct {
	Borrower        string `json:"borrower"`
	LoanID          string `json:"loan_id"`
	Amount          int64  `json:"amount"`
	Purpose         string `json:"purpose"`
	AdjustedRateBps int64  `json:"adjusted_rate_bps"`
}

type LoanApprovedPayload struct {
	LoanID    string    `json:"loan_id"`
	Approver  string    `json:"approver"`
	Timestamp time.Time `json:"timestamp"`
}

type LoanFundedPayload struct {
	LoanID string `json:"loan_id"`
	Lender string `json:"lender"`
	Amount int64  `json:"amount"`
}

type LoanRepaidPayload struct {
	LoanID string `json:"loan_id"`
	Amount int64  `json:"amount"`
}

type LoanDefaultedPayload struct {
	LoanID string    `json:"loan_id"`
	DueAt  time.Time `json:"due_at"`
}

// RateUpdatedPayload carries the prior and new value for both fee and
// reserve rate updates.
type RateUpdatedPayload struct {
	OldBps int64 `json:"old_bps"`
	NewBps int64 `json:"new_bps"`
}

type IdentityPayload struct {
	IdentityID string `json:"identity_id"`
}

type RolePayload struct {
	IdentityID string `json:"identity_id"`
	Role       string `json:"role"`
}

type TreasuryWithdrawalPayload struct {
	Category  string `json:"category"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
}
