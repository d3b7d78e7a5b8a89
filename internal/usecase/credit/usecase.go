package credit

import (
	"context"
	"errors"

	domain "peervest/internal/domain/credit"
	"peervest/internal/domain/role"
	"peervest/internal/domain/uow"
)

type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type ProfileInput struct {
	MonthlyIncome    int64 `json:"monthly_income"`
	EmploymentMonths int   `json:"employment_months"`
	ExistingDebt     int64 `json:"existing_debt"`
	HistoryMonths    int   `json:"history_months"`
	PriorDefaults    int   `json:"prior_defaults"`
	RecentInquiries  int   `json:"recent_inquiries"`
}

type ScoreDTO struct {
	IdentityID string      `json:"identity_id"`
	Score      int         `json:"score"`
	Tier       domain.Tier `json:"tier"`
}

func (in ProfileInput) inputs() domain.Inputs {
	return domain.Inputs{
		MonthlyIncome:    in.MonthlyIncome,
		EmploymentMonths: in.EmploymentMonths,
		ExistingDebt:     in.ExistingDebt,
		HistoryMonths:    in.HistoryMonths,
		PriorDefaults:    in.PriorDefaults,
		RecentInquiries:  in.RecentInquiries,
	}
}

// CreateProfile scores the declared inputs and stores the profile. Requires
// the credit_analyst role; one profile per identity.
func (u *Usecase) CreateProfile(ctx context.Context, actorID, identityID string, in ProfileInput) (*ScoreDTO, error) {
	var dto *ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.CreditAnalyst); err != nil {
			return err
		}
		if _, err := r.Profiles.GetByIdentityID(ctx, identityID); err == nil {
			return domain.ErrProfileExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		inputs := in.inputs()
		score := ComputeScore(inputs)
		p := &domain.Profile{
			IdentityID: identityID,
			Inputs:     inputs,
			Score:      score,
			Tier:       domain.TierFor(score),
			ScoredBy:   actorID,
		}
		if err := r.Profiles.Create(ctx, p); err != nil {
			return err
		}
		dto = &ScoreDTO{IdentityID: identityID, Score: p.Score, Tier: p.Tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Recompute replaces the stored inputs and re-derives the score. This is
// the only path that updates an existing profile.
func (u *Usecase) Recompute(ctx context.Context, actorID, identityID string, in ProfileInput) (*ScoreDTO, error) {
	var dto *ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.CreditAnalyst); err != nil {
			return err
		}
		p, err := r.Profiles.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		p.Inputs = in.inputs()
		p.Score = ComputeScore(p.Inputs)
		p.Tier = domain.TierFor(p.Score)
		p.ScoredBy = actorID
		if err := r.Profiles.Save(ctx, p); err != nil {
			return err
		}
		dto = &ScoreDTO{IdentityID: identityID, Score: p.Score, Tier: p.Tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// GetScore is a pure read of the stored score and tier.
func (u *Usecase) GetScore(ctx context.Context, identityID string) (*ScoreDTO, error) {
	var dto *ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Profiles.GetByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		dto = &ScoreDTO{IdentityID: identityID, Score: p.Score, Tier: p.Tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
