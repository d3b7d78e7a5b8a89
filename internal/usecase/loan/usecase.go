package loan

import (
	"context"
	"errors"
	"time"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/event"
	domain "peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
	"peervest/internal/domain/uow"
	"peervest/internal/platform/metrics"
	"peervest/pkg/clock"
	"peervest/pkg/id"
)

const rateDenominatorBps = 10000

// Usecase is the loan factory and per-loan state machine. Every mutating
// call runs in one transaction: loan state, counters, treasury credits and
// events commit together or not at all.
type Usecase struct {
	uow     uow.UnitOfWork
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock, m *metrics.Metrics) *Usecase {
	return &Usecase{uow: tx, clock: c, metrics: m}
}

type CreateInput struct {
	BorrowerID       string `json:"borrower_id"`
	Amount           int64  `json:"amount"`
	RequestedRateBps int64  `json:"requested_rate_bps"`
	TermMonths       int    `json:"term_months"`
	Purpose          string `json:"purpose"`
}

type LoanDTO struct {
	LoanID           string       `json:"loan_id"`
	BorrowerID       string       `json:"borrower_id"`
	LenderID         string       `json:"lender_id,omitempty"`
	Principal        int64        `json:"principal"`
	RequestedRateBps int64        `json:"requested_rate_bps"`
	AdjustedRateBps  int64        `json:"adjusted_rate_bps"`
	TermMonths       int          `json:"term_months"`
	Purpose          string       `json:"purpose"`
	State            domain.State `json:"state"`
	Interest         int64        `json:"interest"`
	RepaymentDue     int64        `json:"repayment_due"`
	FundedAt         *time.Time   `json:"funded_at,omitempty"`
	DueAt            *time.Time   `json:"due_at,omitempty"`
	Defaulted        bool         `json:"defaulted"`
	CreatedAt        time.Time    `json:"created_at"`
}

func (u *Usecase) toDTO(l *domain.Loan, now time.Time) *LoanDTO {
	return &LoanDTO{
		LoanID:           l.LoanID,
		BorrowerID:       l.BorrowerID,
		LenderID:         l.LenderID,
		Principal:        l.Principal,
		RequestedRateBps: l.RequestedRateBps,
		AdjustedRateBps:  l.AdjustedRateBps,
		TermMonths:       l.TermMonths,
		Purpose:          l.Purpose,
		State:            l.State,
		Interest:         l.Interest(),
		RepaymentDue:     l.RepaymentDue(),
		FundedAt:         l.FundedAt,
		DueAt:            l.DueAt,
		Defaulted:        l.Defaulted(now),
		CreatedAt:        l.CreatedAt,
	}
}

// Create validates the request against platform bounds, gates on borrower
// eligibility, prices the rate off the credit score and persists the loan
// in state created. Precondition order: pause, eligibility, amount, rate,
// term.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*LoanDTO, error) {
	start := time.Now()
	now := u.clock.Now()
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Platform.GetConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.Paused {
			return platform.ErrSystemPaused
		}

		borrower, err := r.Identities.GetByIdentityID(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		if !borrower.Eligible() {
			return domain.ErrBorrowerNotVerified
		}

		if in.Amount < cfg.MinAmount || in.Amount > cfg.MaxAmount {
			return domain.ErrInvalidAmount
		}
		if in.RequestedRateBps < cfg.MinRateBps || in.RequestedRateBps > cfg.MaxRateBps {
			return domain.ErrInvalidRate
		}
		if in.TermMonths < cfg.MinTermMonths || in.TermMonths > cfg.MaxTermMonths {
			return domain.ErrInvalidTerm
		}

		// No credit profile means no adjustment, by contract.
		adjusted := in.RequestedRateBps
		if p, err := r.Profiles.GetByIdentityID(ctx, in.BorrowerID); err == nil {
			adjusted = adjustRate(in.RequestedRateBps, p.Score, cfg.MinRateBps, cfg.MaxRateBps)
		} else if !errors.Is(err, credit.ErrNotFound) {
			return err
		}

		l := &domain.Loan{
			LoanID:           id.NewID32(),
			BorrowerID:       in.BorrowerID,
			Principal:        in.Amount,
			RequestedRateBps: in.RequestedRateBps,
			AdjustedRateBps:  adjusted,
			TermMonths:       in.TermMonths,
			Purpose:          in.Purpose,
			State:            domain.StateCreated,
			StateUpdatedAt:   now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Platform.IncLoansCreated(ctx); err != nil {
			return err
		}
		ev, err := event.New(event.LoanCreated, l.LoanID, in.BorrowerID, event.LoanCreatedPayload{
			Borrower:        in.BorrowerID,
			LoanID:          l.LoanID,
			Amount:          l.Principal,
			Purpose:         l.Purpose,
			AdjustedRateBps: l.AdjustedRateBps,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.IncLoansCreated()
	u.metrics.ObserveCreateLoan(start)
	return dto, nil
}

// Approve is a strict one-shot transition created → approved. Requires the
// loan_approver role.
func (u *Usecase) Approve(ctx context.Context, actorID, loanID string) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if err := role.Require(ctx, r.Roles, actorID, role.LoanApprover); err != nil {
			return err
		}
		if l.State != domain.StateCreated {
			return domain.ErrAlreadyApproved
		}
		l.State = domain.StateApproved
		l.ApprovedBy = actorID
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Platform.AddActiveLoans(ctx, 1); err != nil {
			return err
		}
		ev, err := event.New(event.LoanApproved, l.LoanID, actorID, event.LoanApprovedPayload{
			LoanID:    l.LoanID,
			Approver:  actorID,
			Timestamp: now,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.IncLoansApproved()
	return dto, nil
}

type FundInput struct {
	LenderID string `json:"lender_id"`
	Amount   int64  `json:"amount"`
}

// Fund moves an approved loan to funded. The amount must equal the
// principal exactly; the lender must be eligible and must not be the
// borrower. Fee and reserve shares of the principal are custodied by the
// treasury in the same transaction.
func (u *Usecase) Fund(ctx context.Context, loanID string, in FundInput) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		switch l.State {
		case domain.StateApproved:
			// proceed
		case domain.StateCreated:
			return domain.ErrNotApproved
		default:
			return domain.ErrAlreadyFunded
		}
		if l.LenderID != "" {
			return domain.ErrAlreadyFunded
		}
		if in.LenderID == l.BorrowerID {
			return domain.ErrSelfFunding
		}
		lender, err := r.Identities.GetByIdentityID(ctx, in.LenderID)
		if err != nil {
			return err
		}
		if !lender.Eligible() {
			return domain.ErrLenderNotEligible
		}
		if in.Amount != l.Principal {
			return domain.ErrIncorrectFundingAmount
		}

		cfg, err := r.Platform.GetConfig(ctx)
		if err != nil {
			return err
		}

		fundedAt := now
		dueAt := domain.Due(fundedAt, l.TermMonths)
		l.LenderID = in.LenderID
		l.FundedAt = &fundedAt
		l.DueAt = &dueAt
		l.State = domain.StateFunded
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		feeShare := l.Principal * cfg.FeeRateBps / rateDenominatorBps
		reserveShare := l.Principal * cfg.ReserveRateBps / rateDenominatorBps
		if err := creditTreasury(ctx, r.Treasury, treasury.CategoryFee, feeShare, l.LoanID, "funding fee"); err != nil {
			return err
		}
		if err := creditTreasury(ctx, r.Treasury, treasury.CategoryReserve, reserveShare, l.LoanID, "reserve contribution"); err != nil {
			return err
		}

		ev, err := event.New(event.LoanFunded, l.LoanID, in.LenderID, event.LoanFundedPayload{
			LoanID: l.LoanID,
			Lender: in.LenderID,
			Amount: in.Amount,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.IncLoansFunded()
	return dto, nil
}

type RepayInput struct {
	BorrowerID string `json:"borrower_id"`
	Amount     int64  `json:"amount"`
}

// Repay settles a funded loan. The amount must equal principal plus flat
// interest exactly. The fee share of the interest is custodied by the
// treasury; the active-loan counter drops by one.
func (u *Usecase) Repay(ctx context.Context, loanID string, in RepayInput) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.State != domain.StateFunded {
			return domain.ErrNotFunded
		}
		if in.BorrowerID != l.BorrowerID {
			return domain.ErrNotBorrower
		}
		if in.Amount != l.RepaymentDue() {
			return domain.ErrIncorrectRepaymentAmount
		}

		cfg, err := r.Platform.GetConfig(ctx)
		if err != nil {
			return err
		}

		l.State = domain.StateRepaid
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Platform.AddActiveLoans(ctx, -1); err != nil {
			return err
		}

		interestFee := l.Interest() * cfg.FeeRateBps / rateDenominatorBps
		if err := creditTreasury(ctx, r.Treasury, treasury.CategoryFee, interestFee, l.LoanID, "repayment fee"); err != nil {
			return err
		}

		ev, err := event.New(event.LoanRepaid, l.LoanID, in.BorrowerID, event.LoanRepaidPayload{
			LoanID: l.LoanID,
			Amount: in.Amount,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.IncLoansRepaid()
	return dto, nil
}

// MarkDefaulted advances a funded, past-due loan to defaulted. Idempotent:
// calling it again on a defaulted loan is a no-op success.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto *LoanDTO
	transitioned := false
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.State == domain.StateDefaulted {
			dto = u.toDTO(l, now)
			return nil
		}
		if l.State != domain.StateFunded {
			return domain.ErrNotFunded
		}
		if !l.Defaulted(now) {
			return domain.ErrNotPastDue
		}

		dueAt := *l.DueAt
		l.State = domain.StateDefaulted
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Platform.AddActiveLoans(ctx, -1); err != nil {
			return err
		}
		ev, err := event.New(event.LoanDefaulted, l.LoanID, "", event.LoanDefaultedPayload{
			LoanID: l.LoanID,
			DueAt:  dueAt,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		transitioned = true
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		u.metrics.IncLoansDefaulted()
	}
	return dto, nil
}

// Get returns the loan with derived interest and default status.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		dto = u.toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// IsApproved reports whether the loan has left the created state via
// approval (approved or any later state).
func (u *Usecase) IsApproved(ctx context.Context, loanID string) (bool, error) {
	var approved bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		approved = l.State != domain.StateCreated
		return nil
	})
	return approved, err
}

// IsDefaulted is the lazy default predicate: funded and past due at read
// time.
func (u *Usecase) IsDefaulted(ctx context.Context, loanID string) (bool, error) {
	now := u.clock.Now()
	var defaulted bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		defaulted = l.State == domain.StateDefaulted || l.Defaulted(now)
		return nil
	})
	return defaulted, err
}

// CalculateInterest is a pure query usable before and after funding.
func (u *Usecase) CalculateInterest(ctx context.Context, loanID string) (int64, error) {
	var interest int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		interest = l.Interest()
		return nil
	})
	return interest, err
}

// BorrowerLoans returns the borrower's loan ids in insertion order.
func (u *Usecase) BorrowerLoans(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	return u.list(ctx, func(r uow.Repos) ([]domain.Loan, error) {
		return r.Loans.ListByBorrowerID(ctx, borrowerID)
	})
}

// AllLoans returns every loan in insertion order.
func (u *Usecase) AllLoans(ctx context.Context) ([]LoanDTO, error) {
	return u.list(ctx, func(r uow.Repos) ([]domain.Loan, error) {
		return r.Loans.ListAll(ctx)
	})
}

func (u *Usecase) list(ctx context.Context, fetch func(r uow.Repos) ([]domain.Loan, error)) ([]LoanDTO, error) {
	now := u.clock.Now()
	var out []LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := fetch(r)
		if err != nil {
			return err
		}
		out = make([]LoanDTO, 0, len(loans))
		for i := range loans {
			out = append(out, *u.toDTO(&loans[i], now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func creditTreasury(ctx context.Context, repo treasury.Repository, c treasury.Category, amount int64, loanID, note string) error {
	if amount <= 0 {
		return nil
	}
	if err := repo.Append(ctx, &treasury.Entry{
		Category: c,
		Amount:   amount,
		LoanID:   loanID,
		Note:     note,
	}); err != nil {
		return err
	}
	return repo.Credit(ctx, c, amount)
}

// Events returns the loan's audit trail in emission order.
func (u *Usecase) Events(ctx context.Context, loanID string) ([]event.Event, error) {
	var out []event.Event
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		evs, err := r.Events.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		out = evs
		return nil
	})
	return out, err
}
