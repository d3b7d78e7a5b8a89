package treasury

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// Credit adds amount to the category balance with a relative update.
	Credit(ctx context.Context, c Category, amount int64) error
	GetBalance(ctx context.Context, c Category) (int64, error)
	// GetBalanceForUpdate row-locks the balance so a withdrawal's
	// sufficiency check and debit are atomic.
	GetBalanceForUpdate(ctx context.Context, c Category) (*Balance, error)
	SaveBalance(ctx context.Context, b *Balance) error
	ListEntries(ctx context.Context, c Category) ([]Entry, error)
}
