package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	ListByLoanID(ctx context.Context, loanID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
