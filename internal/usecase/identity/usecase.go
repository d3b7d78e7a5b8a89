package identity

import (
	"context"
	"errors"

	domain "peervest/internal/domain/identity"
	"peervest/internal/domain/event"
	"peervest/internal/domain/role"
	"peervest/internal/domain/uow"
	"peervest/internal/platform/metrics"
	"peervest/pkg/clock"
	"peervest/pkg/id"
)

type Usecase struct {
	uow     uow.UnitOfWork
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock, m *metrics.Metrics) *Usecase {
	return &Usecase{uow: tx, clock: c, metrics: m}
}

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type IdentityDTO struct {
	IdentityID string           `json:"identity_id"`
	FullName   string           `json:"full_name"`
	Email      string           `json:"email"`
	KYCStatus  domain.KYCStatus `json:"kyc_status"`
	Documents  int              `json:"documents"`
}

func toDTO(i *domain.Identity) *IdentityDTO {
	return &IdentityDTO{
		IdentityID: i.IdentityID,
		FullName:   i.FullName,
		Email:      i.Email,
		KYCStatus:  i.KYCStatus,
		Documents:  len(i.Documents),
	}
}

// Register creates a participant in kyc status unverified.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*IdentityDTO, error) {
	now := u.clock.Now()
	var dto *IdentityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Identities.GetByEmail(ctx, in.Email); err == nil {
			return domain.ErrDuplicate
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		i := &domain.Identity{
			IdentityID: id.NewID32(),
			FullName:   in.FullName,
			Email:      in.Email,
			Phone:      in.Phone,
			KYCStatus:  domain.StatusUnverified,
		}
		if err := r.Identities.Create(ctx, i); err != nil {
			return err
		}
		ev, err := event.New(event.IdentityRegistered, "", i.IdentityID,
			event.IdentityPayload{IdentityID: i.IdentityID}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = toDTO(i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.IncIdentitiesRegistered()
	return dto, nil
}

type DocumentInput struct {
	DocType     string `json:"doc_type"`
	ContentHash string `json:"content_hash"`
	Reference   string `json:"reference"`
}

// SubmitDocument appends a KYC document. Status moves to
// documents_submitted unless the identity is already verified.
func (u *Usecase) SubmitDocument(ctx context.Context, identityID string, in DocumentInput) (*IdentityDTO, error) {
	var dto *IdentityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		i, err := r.Identities.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		doc := &domain.KYCDocument{
			IdentityRef: i.ID,
			Seq:         len(i.Documents),
			DocType:     in.DocType,
			ContentHash: in.ContentHash,
			Reference:   in.Reference,
		}
		if err := r.Identities.AddDocument(ctx, doc); err != nil {
			return err
		}
		if i.KYCStatus != domain.StatusVerified {
			i.KYCStatus = domain.StatusDocumentsSubmitted
			if err := r.Identities.Save(ctx, i); err != nil {
				return err
			}
		}
		i.Documents = append(i.Documents, *doc)
		dto = toDTO(i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// VerifyDocument records a reviewer decision on one document. Requires the
// kyc_verifier role. Approval promotes the identity to verified;
// re-verifying an already-verified document never regresses status.
func (u *Usecase) VerifyDocument(ctx context.Context, actorID, identityID string, docIndex int, approved bool, note string) (*IdentityDTO, error) {
	now := u.clock.Now()
	var dto *IdentityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.KYCVerifier); err != nil {
			return err
		}
		i, err := r.Identities.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		if docIndex < 0 || docIndex >= len(i.Documents) {
			return domain.ErrNoSuchDocument
		}
		doc := &i.Documents[docIndex]
		doc.Verified = approved
		doc.ReviewerNote = note
		if err := r.Identities.SaveDocument(ctx, doc); err != nil {
			return err
		}
		if approved && i.KYCStatus != domain.StatusVerified {
			i.KYCStatus = domain.StatusVerified
			if err := r.Identities.Save(ctx, i); err != nil {
				return err
			}
			ev, err := event.New(event.IdentityVerified, "", actorID,
				event.IdentityPayload{IdentityID: i.IdentityID}, now)
			if err != nil {
				return err
			}
			if err := r.Events.Append(ctx, ev); err != nil {
				return err
			}
		}
		dto = toDTO(i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type ComplianceInput struct {
	AMLPass       bool   `json:"aml_pass"`
	SanctionsPass bool   `json:"sanctions_pass"`
	PEPPass       bool   `json:"pep_pass"`
	RiskScore     int    `json:"risk_score"`
	Note          string `json:"note"`
}

// RecordComplianceCheck appends a screening outcome. Requires the
// compliance_officer role. Eligibility always reads the latest record.
func (u *Usecase) RecordComplianceCheck(ctx context.Context, actorID, identityID string, in ComplianceInput) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.ComplianceOfficer); err != nil {
			return err
		}
		i, err := r.Identities.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		rec := &domain.ComplianceRecord{
			IdentityRef:   i.ID,
			Seq:           len(i.Compliance),
			AMLPass:       in.AMLPass,
			SanctionsPass: in.SanctionsPass,
			PEPPass:       in.PEPPass,
			RiskScore:     in.RiskScore,
			Note:          in.Note,
			CheckedBy:     actorID,
		}
		return r.Identities.AddCompliance(ctx, rec)
	})
}

// IsEligible reports whether the identity may originate or fund loans:
// kyc verified and latest compliance all-pass.
func (u *Usecase) IsEligible(ctx context.Context, identityID string) (bool, error) {
	var eligible bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		i, err := r.Identities.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		eligible = i.Eligible()
		return nil
	})
	return eligible, err
}

// Get returns the identity with its document and compliance trail.
func (u *Usecase) Get(ctx context.Context, identityID string) (*domain.Identity, error) {
	var out *domain.Identity
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		i, err := r.Identities.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		out = i
		return nil
	})
	return out, err
}
