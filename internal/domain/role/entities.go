package role

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnauthorized = errors.New("actor lacks required role")
	ErrUnknownRole  = errors.New("unknown role")
)

type Role string

const (
	Admin             Role = "admin"
	KYCVerifier       Role = "kyc_verifier"
	ComplianceOfficer Role = "compliance_officer"
	CreditAnalyst     Role = "credit_analyst"
	LoanApprover      Role = "loan_approver"
)

// Parse validates an externally supplied role name.
func Parse(s string) (Role, error) {
	switch r := Role(s); r {
	case Admin, KYCVerifier, ComplianceOfficer, CreditAnalyst, LoanApprover:
		return r, nil
	}
	return "", ErrUnknownRole
}

// Assignment grants one role to one participant. Roles are additive; an
// actor may hold several. There is no inheritance between roles.
type Assignment struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	IdentityID string    `gorm:"size:32;uniqueIndex:ux_role_assignments,priority:1" json:"identity_id"`
	Role       Role      `gorm:"size:32;uniqueIndex:ux_role_assignments,priority:2" json:"role"`
	GrantedBy  string    `gorm:"size:32" json:"granted_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Assignment) TableName() string { return "role_assignments" }

// Checker answers capability questions. Checks are evaluated fresh on every
// call; nothing is cached between operations.
type Checker interface {
	Has(ctx context.Context, identityID string, r Role) (bool, error)
}

// Require returns ErrUnauthorized unless the actor holds r.
func Require(ctx context.Context, c Checker, actorID string, r Role) error {
	ok, err := c.Has(ctx, actorID, r)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
