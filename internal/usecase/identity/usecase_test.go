package identity

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"peervest/internal/domain/event"
	domain "peervest/internal/domain/identity"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/platform/metrics"
	"peervest/internal/testutil/memuow"
	"peervest/pkg/clock"
	"peervest/pkg/id"
)

func newEnv(t *testing.T) (*memuow.Store, *Usecase) {
	t.Helper()
	store := memuow.New(platform.Config{})
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return store, NewUsecase(store, clk, nil)
}

func register(t *testing.T, u *Usecase, email string) string {
	t.Helper()
	dto, err := u.Register(context.Background(), RegisterInput{
		FullName: "Alex Participant",
		Email:    email,
		Phone:    "+62811000111",
	})
	require.NoError(t, err)
	return dto.IdentityID
}

func TestRegister(t *testing.T) {
	store, u := newEnv(t)

	iid := register(t, u, "alex@example.com")
	require.True(t, id.Valid(iid))

	got := store.Identity(iid)
	require.NotNil(t, got)
	require.Equal(t, domain.StatusUnverified, got.KYCStatus)

	events := store.EventsNamed(event.IdentityRegistered)
	require.Len(t, events, 1)
	var p event.IdentityPayload
	require.NoError(t, events[0].Decode(&p))
	require.Equal(t, iid, p.IdentityID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store, u := newEnv(t)
	register(t, u, "alex@example.com")

	_, err := u.Register(context.Background(), RegisterInput{FullName: "Imposter", Email: "alex@example.com"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	require.Len(t, store.EventsNamed(event.IdentityRegistered), 1)
}

func TestSubmitDocument(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	ctx := context.Background()

	dto, err := u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport", ContentHash: "abc123", Reference: "P-1"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDocumentsSubmitted, dto.KYCStatus)
	require.Equal(t, 1, dto.Documents)

	dto, err = u.SubmitDocument(ctx, iid, DocumentInput{DocType: "utility_bill", ContentHash: "def456"})
	require.NoError(t, err)
	require.Equal(t, 2, dto.Documents)

	got := store.Identity(iid)
	require.Equal(t, 0, got.Documents[0].Seq)
	require.Equal(t, 1, got.Documents[1].Seq)
}

func TestSubmitDocument_UnknownIdentity(t *testing.T) {
	_, u := newEnv(t)
	_, err := u.SubmitDocument(context.Background(), id.NewID32(), DocumentInput{DocType: "passport"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyDocument(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	verifier := id.NewID32()
	store.Grant(verifier, role.KYCVerifier)
	ctx := context.Background()

	_, err := u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport"})
	require.NoError(t, err)

	dto, err := u.VerifyDocument(ctx, verifier, iid, 0, true, "clear scan")
	require.NoError(t, err)
	require.Equal(t, domain.StatusVerified, dto.KYCStatus)
	require.Len(t, store.EventsNamed(event.IdentityVerified), 1)
}

func TestVerifyDocument_RejectionDoesNotVerify(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	verifier := id.NewID32()
	store.Grant(verifier, role.KYCVerifier)
	ctx := context.Background()

	_, err := u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport"})
	require.NoError(t, err)

	dto, err := u.VerifyDocument(ctx, verifier, iid, 0, false, "blurry scan")
	require.NoError(t, err)
	require.Equal(t, domain.StatusDocumentsSubmitted, dto.KYCStatus)
	require.Empty(t, store.EventsNamed(event.IdentityVerified))
}

func TestVerifyDocument_NeverRegressesStatus(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	verifier := id.NewID32()
	store.Grant(verifier, role.KYCVerifier)
	ctx := context.Background()

	_, err := u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport"})
	require.NoError(t, err)
	_, err = u.SubmitDocument(ctx, iid, DocumentInput{DocType: "utility_bill"})
	require.NoError(t, err)

	_, err = u.VerifyDocument(ctx, verifier, iid, 0, true, "ok")
	require.NoError(t, err)

	// Rejecting a second document leaves the identity verified.
	dto, err := u.VerifyDocument(ctx, verifier, iid, 1, false, "expired")
	require.NoError(t, err)
	require.Equal(t, domain.StatusVerified, dto.KYCStatus)

	// Re-approving emits no second verification event.
	_, err = u.VerifyDocument(ctx, verifier, iid, 0, true, "ok")
	require.NoError(t, err)
	require.Len(t, store.EventsNamed(event.IdentityVerified), 1)
}

func TestVerifyDocument_Guards(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	verifier := id.NewID32()
	store.Grant(verifier, role.KYCVerifier)
	ctx := context.Background()

	_, err := u.VerifyDocument(ctx, id.NewID32(), iid, 0, true, "")
	require.ErrorIs(t, err, role.ErrUnauthorized)

	_, err = u.VerifyDocument(ctx, verifier, iid, 0, true, "")
	require.ErrorIs(t, err, domain.ErrNoSuchDocument)

	_, err = u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport"})
	require.NoError(t, err)
	_, err = u.VerifyDocument(ctx, verifier, iid, 1, true, "")
	require.ErrorIs(t, err, domain.ErrNoSuchDocument)
	_, err = u.VerifyDocument(ctx, verifier, iid, -1, true, "")
	require.ErrorIs(t, err, domain.ErrNoSuchDocument)
}

func TestEligibility(t *testing.T) {
	store, u := newEnv(t)
	iid := register(t, u, "alex@example.com")
	verifier := id.NewID32()
	officer := id.NewID32()
	store.Grant(verifier, role.KYCVerifier)
	store.Grant(officer, role.ComplianceOfficer)
	ctx := context.Background()

	eligible, err := u.IsEligible(ctx, iid)
	require.NoError(t, err)
	require.False(t, eligible, "unverified identities are never eligible")

	_, err = u.SubmitDocument(ctx, iid, DocumentInput{DocType: "passport"})
	require.NoError(t, err)
	_, err = u.VerifyDocument(ctx, verifier, iid, 0, true, "")
	require.NoError(t, err)

	eligible, err = u.IsEligible(ctx, iid)
	require.NoError(t, err)
	require.False(t, eligible, "verification without compliance screening is not enough")

	err = u.RecordComplianceCheck(ctx, officer, iid, ComplianceInput{AMLPass: true, SanctionsPass: true, PEPPass: true})
	require.NoError(t, err)

	eligible, err = u.IsEligible(ctx, iid)
	require.NoError(t, err)
	require.True(t, eligible)

	// A later failing screen revokes eligibility; only the latest record counts.
	err = u.RecordComplianceCheck(ctx, officer, iid, ComplianceInput{AMLPass: true, SanctionsPass: false, PEPPass: true, Note: "sanctions hit"})
	require.NoError(t, err)

	eligible, err = u.IsEligible(ctx, iid)
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestRecordComplianceCheck_RequiresRole(t *testing.T) {
	_, u := newEnv(t)
	iid := register(t, u, "alex@example.com")

	err := u.RecordComplianceCheck(context.Background(), id.NewID32(), iid, ComplianceInput{})
	require.ErrorIs(t, err, role.ErrUnauthorized)
}

func TestGet(t *testing.T) {
	_, u := newEnv(t)
	iid := register(t, u, "alex@example.com")

	got, err := u.Get(context.Background(), iid)
	require.NoError(t, err)
	require.Equal(t, "alex@example.com", got.Email)

	_, err = u.Get(context.Background(), id.NewID32())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_CountsMetric(t *testing.T) {
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	m := metrics.New(prometheus.NewRegistry())
	u := NewUsecase(memuow.New(platform.Config{}), clk, m)

	register(t, u, "metered@example.com")
	require.Equal(t, float64(1), promtestutil.ToFloat64(m.IdentitiesRegistered))

	// a rejected duplicate must not count
	_, err := u.Register(context.Background(), RegisterInput{
		FullName: "Alex Again",
		Email:    "metered@example.com",
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	require.Equal(t, float64(1), promtestutil.ToFloat64(m.IdentitiesRegistered))
}
