package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/internal/cart"
	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/internal/pricing"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

// Session is one cashier terminal: a cart, a verification workflow and a
// pricing engine. A per-session mutex serializes every mutation, which gives
// the same read-modify-write safety a single-threaded register loop has.
type Session struct {
	ID         string
	BranchID   string
	Cashier    string
	EmployeeID string
	Admin      bool
	CreatedAt  time.Time

	store  snapshotStore
	ttl    time.Duration
	logger *logger.Logger

	mu              sync.Mutex
	lastActive      time.Time
	cart            *cart.Cart
	workflow        *customers.Workflow
	engine          *pricing.Engine
	checkoutPending bool
	lastTransaction *backend.TransactionRecord
}

// CartView is the read model of the session's cart.
type CartView struct {
	Lines     []cart.Line     `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}

// LastActive reports the most recent mutation or read of the session.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) cartViewLocked() CartView {
	return CartView{
		Lines:     s.cart.Lines(),
		ItemCount: s.cart.ItemCount(),
		Subtotal:  s.cart.Subtotal(),
	}
}

// Cart returns the current cart view.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.cartViewLocked()
}

// cartFrozenLocked rejects cart mutations while a checkout submission is in
// flight, so every charged line matches what the payload captured.
func (s *Session) cartFrozenLocked() error {
	if s.checkoutPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	return nil
}

// AddItem adds a catalog item to the cart and persists the snapshot.
func (s *Session) AddItem(ctx context.Context, item catalog.Item) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.cartFrozenLocked(); err != nil {
		return s.cartViewLocked(), err
	}
	if err := s.cart.AddItem(item); err != nil {
		return s.cartViewLocked(), err
	}
	s.afterCartChangeLocked(ctx)
	return s.cartViewLocked(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Session) UpdateQuantity(ctx context.Context, itemID string, kind enums.ItemKind, quantity int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.cartFrozenLocked(); err != nil {
		return s.cartViewLocked(), err
	}
	if err := s.cart.UpdateQuantity(itemID, kind, quantity); err != nil {
		return s.cartViewLocked(), err
	}
	s.afterCartChangeLocked(ctx)
	return s.cartViewLocked(), nil
}

// RemoveItem drops a line; absent lines are a no-op.
func (s *Session) RemoveItem(ctx context.Context, itemID string, kind enums.ItemKind) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.cartFrozenLocked(); err != nil {
		return s.cartViewLocked(), err
	}
	s.cart.RemoveItem(itemID, kind)
	s.afterCartChangeLocked(ctx)
	return s.cartViewLocked(), nil
}

// ClearCart drops every line.
func (s *Session) ClearCart(ctx context.Context) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.cartFrozenLocked(); err != nil {
		return s.cartViewLocked(), err
	}
	s.cart.Clear()
	s.afterCartChangeLocked(ctx)
	return s.cartViewLocked(), nil
}

// afterCartChangeLocked feeds the new subtotal into the pricing engine and
// writes the cart snapshot through to Redis. The write is best effort; a
// terminal keeps selling when Redis is down.
func (s *Session) afterCartChangeLocked(ctx context.Context) {
	_ = s.engine.SetSubtotal(s.cart.Subtotal())
	if s.store == nil {
		return
	}
	encoded, err := json.Marshal(s.cart.Snapshot())
	if err != nil {
		return
	}
	if err := s.store.StoreCartSnapshot(ctx, s.ID, string(encoded), s.ttl); err != nil && s.logger != nil {
		s.logger.Warn(ctx, "cart snapshot write failed")
	}
}

// resumeCart restores a previously snapshotted cart, if one exists.
func (s *Session) resumeCart(ctx context.Context) {
	if s.store == nil {
		return
	}
	payload, err := s.store.GetCartSnapshot(ctx, s.ID)
	if err != nil || payload == "" {
		return
	}
	var snapshot cart.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Restore(snapshot)
	_ = s.engine.SetSubtotal(s.cart.Subtotal())
}

// PhoneInput feeds raw phone keystrokes into the verification workflow,
// along with the cart's current service lines for membership validation.
func (s *Session) PhoneInput(raw string) {
	s.mu.Lock()
	s.touchLocked()
	serviceIDs := s.serviceIDsLocked()
	s.mu.Unlock()
	s.workflow.SetPhoneInput(raw, serviceIDs)
}

func (s *Session) serviceIDsLocked() []string {
	var ids []string
	for _, line := range s.cart.Lines() {
		if line.Kind == enums.ItemKindService {
			ids = append(ids, line.ItemID)
		}
	}
	return ids
}

// Verification returns the current verification snapshot.
func (s *Session) Verification() customers.Snapshot {
	return s.workflow.Snapshot()
}

// AttachCustomer commits a freshly registered customer to the workflow.
func (s *Session) AttachCustomer(customer *backend.CustomerRecord) {
	s.workflow.AttachCustomer(customer)
}

// SelectMembership picks one of the verified customer's memberships.
func (s *Session) SelectMembership(membershipID string) error {
	s.mu.Lock()
	s.touchLocked()
	s.mu.Unlock()
	return s.workflow.SelectMembership(membershipID)
}

// ClearMembership drops the membership selection.
func (s *Session) ClearMembership() {
	s.workflow.ClearMembershipSelection()
}

// SetManualDiscount sets the cashier-entered discount percentage.
func (s *Session) SetManualDiscount(percent decimal.Decimal) (pricing.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.engine.SetManualPercent(percent); err != nil {
		return s.engine.Latest(), err
	}
	return s.pricingLocked(), nil
}

// SetTip sets the tip amount.
func (s *Session) SetTip(tip decimal.Decimal) (pricing.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err := s.engine.SetTip(tip); err != nil {
		return s.engine.Latest(), err
	}
	return s.pricingLocked(), nil
}

// Pricing recomputes and returns the breakdown for the current inputs.
func (s *Session) Pricing() pricing.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.pricingLocked()
}

// pricingLocked pulls the latest verification result into the engine before
// reading the breakdown, so membership changes land at every observation
// point without a push channel between the two components.
func (s *Session) pricingLocked() pricing.Breakdown {
	_ = s.engine.SetSubtotal(s.cart.Subtotal())
	_ = s.engine.SetMembership(membershipDiscount(s.workflow.Snapshot()))
	return s.engine.Latest()
}

func membershipDiscount(snap customers.Snapshot) *pricing.MembershipDiscount {
	if snap.SelectedMembership == nil {
		return nil
	}
	discount := &pricing.MembershipDiscount{Percentage: snap.SelectedMembership.DiscountPercentage}
	if snap.Validation != nil && snap.Validation.IsValid {
		amount := snap.Validation.DiscountAmount
		discount.ValidatedAmount = &amount
	}
	return discount
}

// CheckoutState is the initial state an orchestrator captures before calling
// the persistence collaborator.
type CheckoutState struct {
	Lines      []cart.Line
	Subtotal   decimal.Decimal
	Breakdown  pricing.Breakdown
	Customer   *backend.CustomerRecord
	BranchID   string
	Cashier    string
	EmployeeID string
}

// BeginCheckout captures everything a payload needs in one consistent read
// and freezes the cart until CompleteCheckout or AbortCheckout. A second
// begin while one is pending is rejected.
func (s *Session) BeginCheckout() (CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.checkoutPending {
		return CheckoutState{}, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}
	state := CheckoutState{
		Lines:      s.cart.Lines(),
		Subtotal:   s.cart.Subtotal(),
		Breakdown:  s.pricingLocked(),
		BranchID:   s.BranchID,
		Cashier:    s.Cashier,
		EmployeeID: s.EmployeeID,
	}
	if snap := s.workflow.Snapshot(); snap.Customer != nil {
		customer := *snap.Customer
		state.Customer = &customer
	}
	s.checkoutPending = true
	return state, nil
}

// AbortCheckout unfreezes the cart after a failed or rejected submission,
// leaving every piece of session state as it was.
func (s *Session) AbortCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkoutPending = false
}

// CompleteCheckout records the persisted transaction and resets the cart,
// the verification workflow and the pricing inputs for the next sale.
func (s *Session) CompleteCheckout(ctx context.Context, txn *backend.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.checkoutPending = false
	s.lastTransaction = txn
	s.cart.Clear()
	s.engine.Reset()
	if s.store != nil {
		if err := s.store.DeleteCartSnapshot(ctx, s.ID); err != nil && s.logger != nil {
			s.logger.Warn(ctx, "cart snapshot delete failed")
		}
	}
	s.workflow.Reset()
}

// LastTransaction returns the most recent persisted transaction, for receipt
// display and reprint.
func (s *Session) LastTransaction() *backend.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTransaction == nil {
		return nil
	}
	txn := *s.lastTransaction
	return &txn
}
