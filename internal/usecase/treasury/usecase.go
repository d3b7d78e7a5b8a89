package treasury

import (
	"context"

	"peervest/internal/domain/event"
	"peervest/internal/domain/role"
	domain "peervest/internal/domain/treasury"
	"peervest/internal/domain/uow"
	"peervest/pkg/clock"
)

// Usecase exposes the treasury's read and withdrawal surface. Credits come
// exclusively from the loan usecase at funding and repayment time.
type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock) *Usecase {
	return &Usecase{uow: tx, clock: c}
}

type BalanceDTO struct {
	Category domain.Category `json:"category"`
	Amount   int64           `json:"amount"`
}

// Balance returns the custodied total for one category.
func (u *Usecase) Balance(ctx context.Context, c domain.Category) (*BalanceDTO, error) {
	if !domain.ValidCategory(c) {
		return nil, domain.ErrUnknownCategory
	}
	var dto *BalanceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		amount, err := r.Treasury.GetBalance(ctx, c)
		if err != nil {
			return err
		}
		dto = &BalanceDTO{Category: c, Amount: amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Entries lists the append-only custody movements for one category.
func (u *Usecase) Entries(ctx context.Context, c domain.Category) ([]domain.Entry, error) {
	if !domain.ValidCategory(c) {
		return nil, domain.ErrUnknownCategory
	}
	var out []domain.Entry
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		entries, err := r.Treasury.ListEntries(ctx, c)
		if err != nil {
			return err
		}
		out = entries
		return nil
	})
	return out, err
}

// Withdraw debits a category balance to a recipient. Admin-only; the
// sufficiency check and the debit share one locked transaction.
func (u *Usecase) Withdraw(ctx context.Context, actorID string, c domain.Category, amount int64, recipient string) (*BalanceDTO, error) {
	if !domain.ValidCategory(c) {
		return nil, domain.ErrUnknownCategory
	}
	if amount <= 0 {
		return nil, domain.ErrInsufficientBalance
	}
	now := u.clock.Now()
	var dto *BalanceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := role.Require(ctx, r.Roles, actorID, role.Admin); err != nil {
			return err
		}
		b, err := r.Treasury.GetBalanceForUpdate(ctx, c)
		if err != nil {
			return err
		}
		if amount > b.Amount {
			return domain.ErrInsufficientBalance
		}
		b.Amount -= amount
		if err := r.Treasury.SaveBalance(ctx, b); err != nil {
			return err
		}
		if err := r.Treasury.Append(ctx, &domain.Entry{
			Category:  c,
			Amount:    -amount,
			Recipient: recipient,
			Note:      "withdrawal",
		}); err != nil {
			return err
		}
		ev, err := event.New(event.TreasuryWithdrawal, "", actorID, event.TreasuryWithdrawalPayload{
			Category:  string(c),
			Amount:    amount,
			Recipient: recipient,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = &BalanceDTO{Category: c, Amount: b.Amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
