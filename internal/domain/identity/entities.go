package identity

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("identity not found")
	ErrDuplicate      = errors.New("identity already registered")
	ErrNoSuchDocument = errors.New("kyc document not found")
)

type KYCStatus string

const (
	StatusUnverified         KYCStatus = "unverified"
	StatusDocumentsSubmitted KYCStatus = "documents_submitted"
	StatusVerified           KYCStatus = "verified"
)

// Identity is the trust anchor for all downstream authorization. A
// participant may borrow only once verified and passing compliance.
type Identity struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	IdentityID string    `gorm:"size:32;uniqueIndex:ux_identities_identity_id" json:"identity_id"`
	FullName   string    `gorm:"size:255" json:"full_name"`
	Email      string    `gorm:"size:255;uniqueIndex:ux_identities_email" json:"email"`
	Phone      string    `gorm:"size:32" json:"phone"`
	KYCStatus  KYCStatus `gorm:"size:32;default:'unverified'" json:"kyc_status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Documents  []KYCDocument      `gorm:"foreignKey:IdentityRef" json:"documents,omitempty"`
	Compliance []ComplianceRecord `gorm:"foreignKey:IdentityRef" json:"compliance,omitempty"`
}

func (Identity) TableName() string { return "identities" }

// KYCDocument is one submitted verification document. Seq preserves
// submission order so document indexes stay stable across reads.
type KYCDocument struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	IdentityRef  uint64    `gorm:"column:identity_ref;index:idx_kyc_documents_identity" json:"-"`
	Seq          int       `gorm:"column:seq" json:"seq"`
	DocType      string    `gorm:"size:64" json:"doc_type"`
	ContentHash  string    `gorm:"size:128" json:"content_hash"`
	Reference    string    `gorm:"size:64" json:"reference"`
	Verified     bool      `json:"verified"`
	ReviewerNote string    `gorm:"type:text" json:"reviewer_note"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KYCDocument) TableName() string { return "kyc_documents" }

// ComplianceRecord is one AML/sanctions/PEP screening outcome. Eligibility
// always reads the record with the highest Seq.
type ComplianceRecord struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	IdentityRef   uint64    `gorm:"column:identity_ref;index:idx_compliance_identity" json:"-"`
	Seq           int       `gorm:"column:seq" json:"seq"`
	AMLPass       bool      `json:"aml_pass"`
	SanctionsPass bool      `json:"sanctions_pass"`
	PEPPass       bool      `json:"pep_pass"`
	RiskScore     int       `json:"risk_score"`
	Note          string    `gorm:"type:text" json:"note"`
	CheckedBy     string    `gorm:"size:32" json:"checked_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplianceRecord) TableName() string { return "compliance_records" }

// Passed reports whether all three screening checks cleared.
func (c *ComplianceRecord) Passed() bool {
	return c.AMLPass && c.SanctionsPass && c.PEPPass
}

// LatestCompliance returns the newest compliance record, or nil when the
// identity has never been screened. Records are expected ordered by Seq.
func (i *Identity) LatestCompliance() *ComplianceRecord {
	if len(i.Compliance) == 0 {
		return nil
	}
	latest := &i.Compliance[0]
	for idx := range i.Compliance {
		if i.Compliance[idx].Seq >= latest.Seq {
			latest = &i.Compliance[idx]
		}
	}
	return latest
}

// Eligible reports whether the identity can act as borrower or lender:
// KYC verified and the latest compliance record all-pass.
func (i *Identity) Eligible() bool {
	if i.KYCStatus != StatusVerified {
		return false
	}
	latest := i.LatestCompliance()
	return latest != nil && latest.Passed()
}
