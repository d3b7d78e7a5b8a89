package memuow

import (
	"context"
	"sort"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/event"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
)

type identityRepo struct{ st *state }

func (r *identityRepo) Create(_ context.Context, i *identity.Identity) error {
	for idx := range r.st.identities {
		if r.st.identities[idx].Email == i.Email || r.st.identities[idx].IdentityID == i.IdentityID {
			return identity.ErrDuplicate
		}
	}
	i.ID = r.st.nextPK()
	r.st.identities = append(r.st.identities, *i)
	return nil
}

func (r *identityRepo) find(identityID string) (int, error) {
	for idx := range r.st.identities {
		if r.st.identities[idx].IdentityID == identityID {
			return idx, nil
		}
	}
	return -1, identity.ErrNotFound
}

func (r *identityRepo) GetByIdentityID(_ context.Context, identityID string) (*identity.Identity, error) {
	idx, err := r.find(identityID)
	if err != nil {
		return nil, err
	}
	i := r.st.identities[idx]
	i.Documents = append([]identity.KYCDocument(nil), i.Documents...)
	i.Compliance = append([]identity.ComplianceRecord(nil), i.Compliance...)
	sort.Slice(i.Documents, func(a, b int) bool { return i.Documents[a].Seq < i.Documents[b].Seq })
	sort.Slice(i.Compliance, func(a, b int) bool { return i.Compliance[a].Seq < i.Compliance[b].Seq })
	return &i, nil
}

func (r *identityRepo) GetByEmail(_ context.Context, email string) (*identity.Identity, error) {
	for idx := range r.st.identities {
		if r.st.identities[idx].Email == email {
			i := r.st.identities[idx]
			return &i, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (r *identityRepo) Save(_ context.Context, i *identity.Identity) error {
	idx, err := r.find(i.IdentityID)
	if err != nil {
		return err
	}
	saved := *i
	saved.Documents = r.st.identities[idx].Documents
	saved.Compliance = r.st.identities[idx].Compliance
	r.st.identities[idx] = saved
	return nil
}

func (r *identityRepo) AddDocument(_ context.Context, d *identity.KYCDocument) error {
	for idx := range r.st.identities {
		if r.st.identities[idx].ID == d.IdentityRef {
			d.ID = r.st.nextPK()
			r.st.identities[idx].Documents = append(r.st.identities[idx].Documents, *d)
			return nil
		}
	}
	return identity.ErrNotFound
}

func (r *identityRepo) SaveDocument(_ context.Context, d *identity.KYCDocument) error {
	for idx := range r.st.identities {
		if r.st.identities[idx].ID != d.IdentityRef {
			continue
		}
		docs := r.st.identities[idx].Documents
		for di := range docs {
			if docs[di].ID == d.ID {
				docs[di] = *d
				return nil
			}
		}
	}
	return identity.ErrNoSuchDocument
}

func (r *identityRepo) AddCompliance(_ context.Context, c *identity.ComplianceRecord) error {
	for idx := range r.st.identities {
		if r.st.identities[idx].ID == c.IdentityRef {
			c.ID = r.st.nextPK()
			r.st.identities[idx].Compliance = append(r.st.identities[idx].Compliance, *c)
			return nil
		}
	}
	return identity.ErrNotFound
}

type creditRepo struct{ st *state }

func (r *creditRepo) Create(_ context.Context, p *credit.Profile) error {
	for idx := range r.st.profiles {
		if r.st.profiles[idx].IdentityID == p.IdentityID {
			return credit.ErrProfileExists
		}
	}
	p.ID = r.st.nextPK()
	r.st.profiles = append(r.st.profiles, *p)
	return nil
}

func (r *creditRepo) GetByIdentityID(_ context.Context, identityID string) (*credit.Profile, error) {
	for idx := range r.st.profiles {
		if r.st.profiles[idx].IdentityID == identityID {
			p := r.st.profiles[idx]
			return &p, nil
		}
	}
	return nil, credit.ErrNotFound
}

func (r *creditRepo) Save(_ context.Context, p *credit.Profile) error {
	for idx := range r.st.profiles {
		if r.st.profiles[idx].IdentityID == p.IdentityID {
			r.st.profiles[idx] = *p
			return nil
		}
	}
	return credit.ErrNotFound
}

type loanRepo struct{ st *state }

func (r *loanRepo) Create(_ context.Context, l *loan.Loan) error {
	l.ID = r.st.nextPK()
	r.st.loans = append(r.st.loans, *l)
	return nil
}

func (r *loanRepo) get(loanID string) (*loan.Loan, error) {
	for idx := range r.st.loans {
		if r.st.loans[idx].LoanID == loanID {
			l := r.st.loans[idx]
			return &l, nil
		}
	}
	return nil, loan.ErrNotFound
}

func (r *loanRepo) GetByLoanID(_ context.Context, loanID string) (*loan.Loan, error) {
	return r.get(loanID)
}

func (r *loanRepo) GetByLoanIDForUpdate(_ context.Context, loanID string) (*loan.Loan, error) {
	return r.get(loanID)
}

func (r *loanRepo) Save(_ context.Context, l *loan.Loan) error {
	for idx := range r.st.loans {
		if r.st.loans[idx].LoanID == l.LoanID {
			r.st.loans[idx] = *l
			return nil
		}
	}
	return loan.ErrNotFound
}

func (r *loanRepo) ListByBorrowerID(_ context.Context, borrowerID string) ([]loan.Loan, error) {
	var out []loan.Loan
	for idx := range r.st.loans {
		if r.st.loans[idx].BorrowerID == borrowerID {
			out = append(out, r.st.loans[idx])
		}
	}
	return out, nil
}

func (r *loanRepo) ListAll(_ context.Context) ([]loan.Loan, error) {
	return append([]loan.Loan(nil), r.st.loans...), nil
}

type platformRepo struct{ st *state }

func (r *platformRepo) GetConfig(_ context.Context) (*platform.Config, error) {
	c := r.st.config
	return &c, nil
}

func (r *platformRepo) GetConfigForUpdate(ctx context.Context) (*platform.Config, error) {
	return r.GetConfig(ctx)
}

func (r *platformRepo) SaveConfig(_ context.Context, c *platform.Config) error {
	r.st.config = *c
	return nil
}

func (r *platformRepo) GetStats(_ context.Context) (*platform.Stats, error) {
	s := r.st.stats
	return &s, nil
}

func (r *platformRepo) IncLoansCreated(_ context.Context) error {
	r.st.stats.TotalLoansCreated++
	return nil
}

func (r *platformRepo) AddActiveLoans(_ context.Context, delta int64) error {
	r.st.stats.TotalActiveLoans += delta
	return nil
}

type treasuryRepo struct{ st *state }

func (r *treasuryRepo) Append(_ context.Context, e *treasury.Entry) error {
	e.ID = r.st.nextPK()
	r.st.entries = append(r.st.entries, *e)
	return nil
}

func (r *treasuryRepo) Credit(_ context.Context, c treasury.Category, amount int64) error {
	if !treasury.ValidCategory(c) {
		return treasury.ErrUnknownCategory
	}
	r.st.balances[c] += amount
	return nil
}

func (r *treasuryRepo) GetBalance(_ context.Context, c treasury.Category) (int64, error) {
	if !treasury.ValidCategory(c) {
		return 0, treasury.ErrUnknownCategory
	}
	return r.st.balances[c], nil
}

func (r *treasuryRepo) GetBalanceForUpdate(_ context.Context, c treasury.Category) (*treasury.Balance, error) {
	if !treasury.ValidCategory(c) {
		return nil, treasury.ErrUnknownCategory
	}
	return &treasury.Balance{Category: c, Amount: r.st.balances[c]}, nil
}

func (r *treasuryRepo) SaveBalance(_ context.Context, b *treasury.Balance) error {
	if !treasury.ValidCategory(b.Category) {
		return treasury.ErrUnknownCategory
	}
	r.st.balances[b.Category] = b.Amount
	return nil
}

func (r *treasuryRepo) ListEntries(_ context.Context, c treasury.Category) ([]treasury.Entry, error) {
	var out []treasury.Entry
	for idx := range r.st.entries {
		if r.st.entries[idx].Category == c {
			out = append(out, r.st.entries[idx])
		}
	}
	return out, nil
}

type roleRepo struct{ st *state }

func (r *roleRepo) Has(_ context.Context, identityID string, ro role.Role) (bool, error) {
	return r.st.roles[identityID][ro], nil
}

func (r *roleRepo) Grant(_ context.Context, a *role.Assignment) error {
	if r.st.roles[a.IdentityID] == nil {
		r.st.roles[a.IdentityID] = map[role.Role]bool{}
	}
	r.st.roles[a.IdentityID][a.Role] = true
	return nil
}

func (r *roleRepo) Revoke(_ context.Context, identityID string, ro role.Role) error {
	delete(r.st.roles[identityID], ro)
	return nil
}

func (r *roleRepo) ListByIdentityID(_ context.Context, identityID string) ([]role.Assignment, error) {
	var out []role.Assignment
	for ro, ok := range r.st.roles[identityID] {
		if ok {
			out = append(out, role.Assignment{IdentityID: identityID, Role: ro})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Role < out[b].Role })
	return out, nil
}

type eventRepo struct{ st *state }

func (r *eventRepo) Append(_ context.Context, e *event.Event) error {
	e.ID = r.st.nextPK()
	r.st.events = append(r.st.events, *e)
	return nil
}

func (r *eventRepo) ListByLoanID(_ context.Context, loanID string) ([]event.Event, error) {
	var out []event.Event
	for idx := range r.st.events {
		if r.st.events[idx].LoanID == loanID {
			out = append(out, r.st.events[idx])
		}
	}
	return out, nil
}

func (r *eventRepo) ListRecent(_ context.Context, limit int) ([]event.Event, error) {
	n := len(r.st.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]event.Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.st.events[i])
	}
	return out, nil
}
