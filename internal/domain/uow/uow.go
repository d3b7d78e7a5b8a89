package uow

import (
	"context"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/event"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Identities identity.Repository
	Profiles   credit.Repository
	Loans      loan.Repository
	Platform   platform.Repository
	Treasury   treasury.Repository
	Roles      role.Repository
	Events     event.Repository
}

// UnitOfWork runs fn atomically: every state change inside fn (loan state,
// counters, treasury credits, events) commits together or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first and passes it in, serializing
	// conflicting operations on the same loan.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
