// Package memuow provides an in-memory UnitOfWork for usecase tests. Each
// transaction runs against a deep copy of the state and commits by swap, so
// a failing operation leaves counters, balances and events untouched —
// matching the all-or-nothing contract of the SQL implementation.
package memuow

import (
	"context"
	"sync"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/event"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
	"peervest/internal/domain/uow"
)

type state struct {
	nextID     uint64
	identities []identity.Identity
	profiles   []credit.Profile
	loans      []loan.Loan
	config     platform.Config
	stats      platform.Stats
	roles      map[string]map[role.Role]bool
	entries    []treasury.Entry
	balances   map[treasury.Category]int64
	events     []event.Event
}

func (s *state) clone() *state {
	c := &state{
		nextID:     s.nextID,
		identities: make([]identity.Identity, len(s.identities)),
		profiles:   append([]credit.Profile(nil), s.profiles...),
		loans:      append([]loan.Loan(nil), s.loans...),
		config:     s.config,
		stats:      s.stats,
		roles:      make(map[string]map[role.Role]bool, len(s.roles)),
		entries:    append([]treasury.Entry(nil), s.entries...),
		balances:   make(map[treasury.Category]int64, len(s.balances)),
		events:     append([]event.Event(nil), s.events...),
	}
	for i := range s.identities {
		ident := s.identities[i]
		ident.Documents = append([]identity.KYCDocument(nil), ident.Documents...)
		ident.Compliance = append([]identity.ComplianceRecord(nil), ident.Compliance...)
		c.identities[i] = ident
	}
	for k, v := range s.roles {
		set := make(map[role.Role]bool, len(v))
		for r, ok := range v {
			set[r] = ok
		}
		c.roles[k] = set
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

func (s *state) nextPK() uint64 {
	s.nextID++
	return s.nextID
}

// Store is the in-memory database plus its UnitOfWork.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ uow.UnitOfWork = (*Store)(nil)

// New builds a store seeded with the given platform config and zeroed
// balances for both treasury categories.
func New(cfg platform.Config) *Store {
	return &Store{st: &state{
		config: cfg,
		roles:  map[string]map[role.Role]bool{},
		balances: map[treasury.Category]int64{
			treasury.CategoryFee:     0,
			treasury.CategoryReserve: 0,
		},
	}}
}

func reposFor(st *state) uow.Repos {
	return uow.Repos{
		Identities: &identityRepo{st: st},
		Profiles:   &creditRepo{st: st},
		Loans:      &loanRepo{st: st},
		Platform:   &platformRepo{st: st},
		Treasury:   &treasuryRepo{st: st},
		Roles:      &roleRepo{st: st},
		Events:     &eventRepo{st: st},
	}
}

func (s *Store) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	r := reposFor(work)
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		return err
	}
	if err := fn(r, l); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ---- seeding and inspection helpers (outside any transaction) ----

// SeedIdentity inserts an identity and returns its assigned primary key.
func (s *Store) SeedIdentity(i identity.Identity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = s.st.nextPK()
	s.st.identities = append(s.st.identities, i)
	return i.ID
}

// SeedProfile inserts a credit profile.
func (s *Store) SeedProfile(p credit.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.st.nextPK()
	s.st.profiles = append(s.st.profiles, p)
}

// SeedLoan inserts a loan directly, bypassing factory validation.
func (s *Store) SeedLoan(l loan.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.st.nextPK()
	s.st.loans = append(s.st.loans, l)
}

// Grant assigns a role to an actor.
func (s *Store) Grant(actorID string, r role.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.roles[actorID] == nil {
		s.st.roles[actorID] = map[role.Role]bool{}
	}
	s.st.roles[actorID][r] = true
}

// SetPaused flips the committed pause flag directly.
func (s *Store) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.config.Paused = paused
}

// Stats returns the committed platform counters.
func (s *Store) Stats() platform.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.stats
}

// Config returns the committed platform config.
func (s *Store) Config() platform.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.config
}

// Balance returns the committed treasury balance for a category.
func (s *Store) Balance(c treasury.Category) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.balances[c]
}

// Events returns all committed events in append order.
func (s *Store) Events() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Event(nil), s.st.events...)
}

// EventsNamed returns committed events with the given name.
func (s *Store) EventsNamed(name event.Name) []event.Event {
	var out []event.Event
	for _, e := range s.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Loan returns the committed loan by public id, or nil.
func (s *Store) Loan(loanID string) *loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.loans {
		if s.st.loans[i].LoanID == loanID {
			l := s.st.loans[i]
			return &l
		}
	}
	return nil
}

// Identity returns the committed identity by public id, or nil.
func (s *Store) Identity(identityID string) *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.identities {
		if s.st.identities[i].IdentityID == identityID {
			ident := s.st.identities[i]
			return &ident
		}
	}
	return nil
}
