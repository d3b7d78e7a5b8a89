package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate row-locks the loan for the duration of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// ListByBorrowerID returns the borrower's loans in insertion order.
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	// ListAll returns every loan in insertion order.
	ListAll(ctx context.Context) ([]Loan, error)
}
