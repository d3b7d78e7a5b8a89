package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus instruments. A nil *Metrics is a
// no-op so usecases can run uninstrumented in tests.
type Metrics struct {
	LoansCreated         prometheus.Counter
	LoansApproved        prometheus.Counter
	LoansFunded          prometheus.Counter
	LoansRepaid          prometheus.Counter
	LoansDefaulted       prometheus.Counter
	IdentitiesRegistered prometheus.Counter
	CreateLoanDuration   prometheus.Histogram
}

// New registers all engine metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoansCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansApproved: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_loans_approved_total",
			Help: "Total number of loans approved",
		}),
		LoansFunded: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_loans_funded_total",
			Help: "Total number of loans funded",
		}),
		LoansRepaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_loans_repaid_total",
			Help: "Total number of loans repaid",
		}),
		LoansDefaulted: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_loans_defaulted_total",
			Help: "Total number of loans marked defaulted",
		}),
		IdentitiesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "peervest_identities_registered_total",
			Help: "Total number of identities registered",
		}),
		CreateLoanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "peervest_create_loan_duration_seconds",
			Help:    "Duration of loan creation (eligibility, pricing, persistence)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncLoansCreated() {
	if m != nil {
		m.LoansCreated.Inc()
	}
}

func (m *Metrics) IncLoansApproved() {
	if m != nil {
		m.LoansApproved.Inc()
	}
}

func (m *Metrics) IncLoansFunded() {
	if m != nil {
		m.LoansFunded.Inc()
	}
}

func (m *Metrics) IncLoansRepaid() {
	if m != nil {
		m.LoansRepaid.Inc()
	}
}

func (m *Metrics) IncLoansDefaulted() {
	if m != nil {
		m.LoansDefaulted.Inc()
	}
}

func (m *Metrics) IncIdentitiesRegistered() {
	if m != nil {
		m.IdentitiesRegistered.Inc()
	}
}

// ObserveCreateLoan records the duration of a create operation. Call with
// time.Now() captured at the start.
func (m *Metrics) ObserveCreateLoan(start time.Time) {
	if m != nil {
		m.CreateLoanDuration.Observe(time.Since(start).Seconds())
	}
}
