package platform

import (
	"context"

	"peervest/internal/domain/event"
	domain "peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/uow"
	"peervest/pkg/clock"
)

type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock) *Usecase {
	return &Usecase{uow: tx, clock: c}
}

type StatsDTO struct {
	TotalLoansCreated int64 `json:"total_loans_created"`
	TotalActiveLoans  int64 `json:"total_active_loans"`
}

// Stats returns the incrementally maintained platform counters.
func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	var dto *StatsDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Platform.GetStats(ctx)
		if err != nil {
			return err
		}
		dto = &StatsDTO{TotalLoansCreated: s.TotalLoansCreated, TotalActiveLoans: s.TotalActiveLoans}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// GetConfig returns the live platform configuration.
func (u *Usecase) GetConfig(ctx context.Context) (*domain.Config, error) {
	var cfg *domain.Config
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Platform.GetConfig(ctx)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	})
	return cfg, err
}

// UpdateFeeRate replaces the platform fee rate. Admin-only, capped at
// MaxFeeRateBps; the emitted event carries the old and new value.
func (u *Usecase) UpdateFeeRate(ctx context.Context, actorID string, newBps int64) error {
	if newBps < 0 || newBps > domain.MaxFeeRateBps {
		return domain.ErrFeeRateTooHigh
	}
	return u.updateRate(ctx, actorID, newBps, event.PlatformFeeUpdated,
		func(c *domain.Config) *int64 { return &c.FeeRateBps })
}

// UpdateReserveRate replaces the reserve fund rate. Admin-only, capped at
// MaxReserveRateBps.
func (u *Usecase) UpdateReserveRate(ctx context.Context, actorID string, newBps int64) error {
	if newBps < 0 || newBps > domain.MaxReserveRateBps {
		return domain.ErrReserveRateTooHigh
	}
	return u.updateRate(ctx, actorID, newBps, event.ReserveFundRateUpdated,
		func(c *domain.Config) *int64 { return &c.ReserveRateBps })
}

func (u *Usecase) updateRate(ctx context.Context, actorID string, newBps int64, name event.Name, field func(*domain.Config) *int64) error {
	now := u.clock.Now()
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.Admin); err != nil {
			return err
		}
		cfg, err := r.Platform.GetConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		target := field(cfg)
		old := *target
		*target = newBps
		if err := r.Platform.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		ev, err := event.New(name, "", actorID, event.RateUpdatedPayload{OldBps: old, NewBps: newBps}, now)
		if err != nil {
			return err
		}
		return r.Events.Append(ctx, ev)
	})
}

// Pause halts loan creation. Approval, funding and repayment of existing
// loans continue; only origination is risk-gated while paused.
func (u *Usecase) Pause(ctx context.Context, actorID string) error {
	return u.setPaused(ctx, actorID, true, event.PlatformPaused)
}

// Unpause resumes loan creation.
func (u *Usecase) Unpause(ctx context.Context, actorID string) error {
	return u.setPaused(ctx, actorID, false, event.PlatformUnpaused)
}

func (u *Usecase) setPaused(ctx context.Context, actorID string, paused bool, name event.Name) error {
	now := u.clock.Now()
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.Admin); err != nil {
			return err
		}
		cfg, err := r.Platform.GetConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg.Paused == paused {
			return nil
		}
		cfg.Paused = paused
		if err := r.Platform.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		ev, err := event.New(name, "", actorID, struct{}{}, now)
		if err != nil {
			return err
		}
		return r.Events.Append(ctx, ev)
	})
}

// GrantRole assigns r to an existing identity. Admin-only; granting a role
// the identity already holds is a no-op and emits nothing.
func (u *Usecase) GrantRole(ctx context.Context, actorID, identityID string, r role.Role) error {
	now := u.clock.Now()
	return u.uow.WithinTx(ctx, func(rp uow.Repos) error {
		if err := role.Require(ctx, rp.Roles, actorID, role.Admin); err != nil {
			return err
		}
		if _, err := rp.Identities.GetByIdentityID(ctx, identityID); err != nil {
			return err
		}
		held, err := rp.Roles.Has(ctx, identityID, r)
		if err != nil {
			return err
		}
		if held {
			return nil
		}
		if err := rp.Roles.Grant(ctx, &role.Assignment{
			IdentityID: identityID,
			Role:       r,
			GrantedBy:  actorID,
		}); err != nil {
			return err
		}
		ev, err := event.New(event.RoleGranted, "", actorID,
			event.RolePayload{IdentityID: identityID, Role: string(r)}, now)
		if err != nil {
			return err
		}
		return rp.Events.Append(ctx, ev)
	})
}

// RevokeRole removes r from the identity. Admin-only; revoking a role the
// identity does not hold is a no-op.
func (u *Usecase) RevokeRole(ctx context.Context, actorID, identityID string, r role.Role) error {
	now := u.clock.Now()
	return u.uow.WithinTx(ctx, func(rp uow.Repos) error {
		if err := role.Require(ctx, rp.Roles, actorID, role.Admin); err != nil {
			return err
		}
		held, err := rp.Roles.Has(ctx, identityID, r)
		if err != nil {
			return err
		}
		if !held {
			return nil
		}
		if err := rp.Roles.Revoke(ctx, identityID, r); err != nil {
			return err
		}
		ev, err := event.New(event.RoleRevoked, "", actorID,
			event.RolePayload{IdentityID: identityID, Role: string(r)}, now)
		if err != nil {
			return err
		}
		return rp.Events.Append(ctx, ev)
	})
}

// ListRoles returns the identity's role assignments.
func (u *Usecase) ListRoles(ctx context.Context, identityID string) ([]role.Assignment, error) {
	var out []role.Assignment
	err := u.uow.WithinTx(ctx, func(rp uow.Repos) error {
		as, err := rp.Roles.ListByIdentityID(ctx, identityID)
		if err != nil {
			return err
		}
		out = as
		return nil
	})
	return out, err
}

const (
	defaultEventFeedLimit = 50
	maxEventFeedLimit     = 200
)

// RecentEvents returns the newest events first. limit <= 0 falls back to
// the default page size; oversized limits are clamped.
func (u *Usecase) RecentEvents(ctx context.Context, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = defaultEventFeedLimit
	}
	if limit > maxEventFeedLimit {
		limit = maxEventFeedLimit
	}
	var out []event.Event
	err := u.uow.WithinTx(ctx, func(rp uow.Repos) error {
		evs, err := rp.Events.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		out = evs
		return nil
	})
	return out, err
}
