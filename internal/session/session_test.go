package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonworks/pos-terminal/internal/cart"
	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
)

type stubDirectory struct {
	mu          sync.Mutex
	customer    *backend.CustomerRecord
	verifyErr   error
	memberships []backend.MembershipRecord
	validation  *backend.MembershipValidation
}

func (d *stubDirectory) VerifyByPhone(ctx context.Context, phone string) (*backend.CustomerRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.verifyErr != nil {
		return nil, d.verifyErr
	}
	return d.customer, nil
}

func (d *stubDirectory) GetMemberships(ctx context.Context, customerID string) ([]backend.MembershipRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.memberships, nil
}

func (d *stubDirectory) ValidateMembership(ctx context.Context, membershipID string, serviceIDs []string) (*backend.MembershipValidation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validation, nil
}

type stubStore struct {
	mu        sync.Mutex
	snapshots map[string]string
	failWrite bool
}

func newStubStore() *stubStore {
	return &stubStore{snapshots: map[string]string{}}
}

func (s *stubStore) StoreCartSnapshot(ctx context.Context, sessionID, payload string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return pkgerrors.New(pkgerrors.CodeDependency, "redis down")
	}
	s.snapshots[sessionID] = payload
	return nil
}

func (s *stubStore) GetCartSnapshot(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.snapshots[sessionID]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "no snapshot")
	}
	return payload, nil
}

func (s *stubStore) DeleteCartSnapshot(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}

func testConfig() Config {
	return Config{
		TTL:            time.Hour,
		DebounceWindow: 10 * time.Millisecond,
		LookupTimeout:  2 * time.Second,
	}
}

func newTestManager(t *testing.T, dir Directory, store *stubStore) *Manager {
	t.Helper()
	if dir == nil {
		dir = &stubDirectory{}
	}
	var snapshots snapshotStore
	if store != nil {
		snapshots = store
	}
	m, err := NewManager(testConfig(), dir, snapshots, nil, nil)
	require.NoError(t, err)
	t.Cleanup(m.Stop)
	return m
}

func serviceItem(id string, price int64) catalog.Item {
	return catalog.Item{
		ID:         id,
		Kind:       enums.ItemKindService,
		Name:       "Service " + id,
		FinalPrice: decimal.NewFromInt(price),
	}
}

func TestManagerOpenValidation(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, nil, nil)
	ctx := context.Background()

	_, err := m.Open(ctx, "", "branch-1", "", "", false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = m.Open(ctx, "", "", "dana", "", false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Admins are not branch-bound.
	sess, err := m.Open(ctx, "", "", "dana", "", true)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
}

func TestManagerOpenGetClose(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, nil, nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, "", "branch-1", "dana", "emp-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, m.Close(ctx, sess.ID))
	assert.Equal(t, 0, m.Count())

	_, err = m.Get(sess.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = m.Close(ctx, sess.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestManagerOpenDuplicateID(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, nil, nil)
	ctx := context.Background()

	_, err := m.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)

	_, err = m.Open(ctx, "term-1", "branch-1", "riley", "", false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestSessionCartFlowWritesSnapshot(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, nil, store)
	ctx := context.Background()

	sess, err := m.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)

	view, err := sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)
	view, err = sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(200)))

	var snapshot cart.Snapshot
	require.NoError(t, json.Unmarshal([]byte(store.snapshots["term-1"]), &snapshot))
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
}

func TestSessionResumesCartFromSnapshot(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, nil, store)
	ctx := context.Background()

	sess, err := m.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)

	// The terminal process restarts; a new manager resumes the same id.
	m2 := newTestManager(t, nil, store)
	resumed, err := m2.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)

	view := resumed.Cart()
	assert.Equal(t, 1, view.ItemCount)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, resumed.Pricing().OriginalTotal.Equal(decimal.NewFromInt(100)))
}

func TestSessionKeepsSellingWhenSnapshotStoreFails(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.failWrite = true
	m := newTestManager(t, nil, store)
	ctx := context.Background()

	sess, err := m.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)

	view, err := sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)
}

func TestSessionPricingPullsVerifiedMembership(t *testing.T) {
	t.Parallel()

	validated := decimal.NewFromInt(42)
	dir := &stubDirectory{
		customer: &backend.CustomerRecord{ID: "cust-1", Name: "Dana", Phone: "5551234567"},
		memberships: []backend.MembershipRecord{
			{ID: "mem-active", Status: enums.MembershipStatusActive, DiscountPercentage: decimal.NewFromInt(10), ServiceIDs: []string{"svc-1"}},
		},
		validation: &backend.MembershipValidation{IsValid: true, DiscountAmount: validated},
	}
	m := newTestManager(t, dir, nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, "", "branch-1", "dana", "", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 1000))
	require.NoError(t, err)

	sess.PhoneInput("5551234567")
	require.Eventually(t, func() bool {
		return sess.Verification().State == enums.VerificationStateExisting
	}, 2*time.Second, 5*time.Millisecond)

	breakdown := sess.Pricing()
	assert.True(t, breakdown.MembershipDiscountAmount.Equal(validated))
	assert.True(t, breakdown.DiscountedTotal.Equal(decimal.NewFromInt(958)))
}

func TestSessionManualDiscountAndTip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, nil, nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, "", "branch-1", "dana", "", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 1000))
	require.NoError(t, err)

	_, err = sess.SetManualDiscount(decimal.NewFromInt(5))
	require.NoError(t, err)
	breakdown, err := sess.SetTip(decimal.NewFromInt(75))
	require.NoError(t, err)

	assert.True(t, breakdown.ManualDiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, breakdown.FinalTotal.Equal(decimal.NewFromInt(1025)))

	_, err = sess.SetManualDiscount(decimal.NewFromInt(130))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.True(t, sess.Pricing().FinalTotal.Equal(decimal.NewFromInt(1025)))
}

func TestSessionCompleteCheckoutResetsState(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	dir := &stubDirectory{customer: &backend.CustomerRecord{ID: "cust-1", Phone: "5551234567"}}
	m := newTestManager(t, dir, store)
	ctx := context.Background()

	sess, err := m.Open(ctx, "term-1", "branch-1", "dana", "", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)
	sess.PhoneInput("5551234567")
	require.Eventually(t, func() bool {
		return sess.Verification().State == enums.VerificationStateExisting
	}, 2*time.Second, 5*time.Millisecond)

	txn := &backend.TransactionRecord{ID: "txn-1"}
	sess.CompleteCheckout(ctx, txn)

	assert.Equal(t, 0, sess.Cart().ItemCount)
	assert.Equal(t, enums.VerificationStateIdle, sess.Verification().State)
	assert.True(t, sess.Pricing().FinalTotal.IsZero())
	require.NotNil(t, sess.LastTransaction())
	assert.Equal(t, "txn-1", sess.LastTransaction().ID)

	store.mu.Lock()
	_, hasSnapshot := store.snapshots["term-1"]
	store.mu.Unlock()
	assert.False(t, hasSnapshot)
}

func TestManagerSweepDropsIdleSessions(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.TTL = 30 * time.Millisecond
	m, err := NewManager(cfg, &stubDirectory{}, nil, nil, nil)
	require.NoError(t, err)
	t.Cleanup(m.Stop)

	_, err = m.Open(context.Background(), "", "branch-1", "dana", "", false)
	require.NoError(t, err)
	require.Equal(t, 1, m.Count())

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Count())
}

func TestBeginCheckoutCapturesCustomer(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{customer: &backend.CustomerRecord{ID: "cust-1", Name: "Dana", Phone: "5551234567"}}
	m := newTestManager(t, dir, nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, "", "branch-1", "dana", "emp-9", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)
	sess.PhoneInput("5551234567")
	require.Eventually(t, func() bool {
		return sess.Verification().State == enums.VerificationStateExisting
	}, 2*time.Second, 5*time.Millisecond)

	state, err := sess.BeginCheckout()
	require.NoError(t, err)
	assert.Equal(t, "branch-1", state.BranchID)
	assert.Equal(t, "dana", state.Cashier)
	assert.Equal(t, "emp-9", state.EmployeeID)
	require.Len(t, state.Lines, 1)
	require.NotNil(t, state.Customer)
	assert.Equal(t, "cust-1", state.Customer.ID)
	assert.True(t, state.Subtotal.Equal(decimal.NewFromInt(100)))
}

func TestCartFrozenWhileCheckoutPending(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &stubDirectory{}, nil)
	ctx := context.Background()

	sess, err := m.Open(ctx, "", "branch-1", "dana", "", false)
	require.NoError(t, err)
	_, err = sess.AddItem(ctx, serviceItem("svc-1", 100))
	require.NoError(t, err)

	_, err = sess.BeginCheckout()
	require.NoError(t, err)

	// Every cart mutation is rejected until the checkout resolves.
	_, err = sess.AddItem(ctx, serviceItem("svc-2", 50))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	_, err = sess.UpdateQuantity(ctx, "svc-1", enums.ItemKindService, 3)
	require.Error(t, err)
	_, err = sess.RemoveItem(ctx, "svc-1", enums.ItemKindService)
	require.Error(t, err)
	_, err = sess.ClearCart(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, sess.Cart().ItemCount)

	// A second begin is rejected too.
	_, err = sess.BeginCheckout()
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// Aborting unfreezes with state intact.
	sess.AbortCheckout()
	_, err = sess.AddItem(ctx, serviceItem("svc-2", 50))
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Cart().ItemCount)

	// Completion unfreezes and resets for the next sale.
	state, err := sess.BeginCheckout()
	require.NoError(t, err)
	require.Len(t, state.Lines, 2)
	sess.CompleteCheckout(ctx, &backend.TransactionRecord{ID: "txn-1"})
	_, err = sess.AddItem(ctx, serviceItem("svc-3", 25))
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart().ItemCount)
}
