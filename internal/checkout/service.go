package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/salonworks/pos-terminal/internal/pricing"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
	"github.com/salonworks/pos-terminal/pkg/metrics"
)

type persistence interface {
	SubmitTransaction(ctx context.Context, payload backend.TransactionPayload) (*backend.TransactionRecord, error)
}

// Result is a completed checkout: the persisted transaction plus the
// resolved customer and breakdown, for receipt display.
type Result struct {
	Transaction *backend.TransactionRecord `json:"transaction"`
	Customer    *backend.CustomerRecord    `json:"customer,omitempty"`
	Breakdown   pricing.Breakdown          `json:"breakdown"`
}

// Service submits checkouts. Express mode charges the raw cart subtotal;
// customer mode charges the pricing breakdown's final total, with discounts
// and tip applied.
type Service interface {
	Checkout(ctx context.Context, sess *session.Session, mode enums.CheckoutMode, payment enums.PaymentMethod) (*Result, error)
}

type service struct {
	persistence persistence
	logger      *logger.Logger
	registerM   *metrics.RegisterMetrics
}

func NewService(persistence persistence, logg *logger.Logger, registerM *metrics.RegisterMetrics) (Service, error) {
	if persistence == nil {
		return nil, fmt.Errorf("transaction persistence required")
	}
	return &service{persistence: persistence, logger: logg, registerM: registerM}, nil
}

// Checkout validates fully before the network call, so a rejected submission
// never reaches the persistence collaborator. The cart stays frozen while
// the submission is in flight. On failure every piece of session state stays
// untouched; the cashier can retry. De-duplication of
// retries is the persistence collaborator's concern, keyed by the request's
// idempotency key.
func (s *service) Checkout(ctx context.Context, sess *session.Session, mode enums.CheckoutMode, payment enums.PaymentMethod) (*Result, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session required")
	}
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout mode")
	}
	if !payment.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	state, err := sess.BeginCheckout()
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			sess.AbortCheckout()
		}
	}()

	if len(state.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if mode == enums.CheckoutModeCustomer && state.Customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no verified customer for customer checkout")
	}

	payload, err := buildPayload(state, mode, payment)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	txn, err := s.persistence.SubmitTransaction(ctx, payload)
	s.registerM.ObserveCheckout(mode.String(), time.Since(start), err == nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "checkout submission failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failed, retry")
	}

	result := &Result{
		Transaction: txn,
		Customer:    state.Customer,
		Breakdown:   state.Breakdown,
	}
	sess.CompleteCheckout(ctx, txn)
	committed = true
	return result, nil
}

func buildPayload(state session.CheckoutState, mode enums.CheckoutMode, payment enums.PaymentMethod) (backend.TransactionPayload, error) {
	items := make([]backend.TransactionItem, 0, len(state.Lines))
	for _, line := range state.Lines {
		item := backend.TransactionItem{
			Name:     line.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
		}
		switch line.Kind {
		case enums.ItemKindService:
			id := line.ItemID
			item.ServiceID = &id
		case enums.ItemKindCombo:
			id := line.ItemID
			item.ComboID = &id
		default:
			return backend.TransactionPayload{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %q has unknown kind %q", line.ItemID, line.Kind))
		}
		items = append(items, item)
	}

	total := state.Subtotal
	if mode == enums.CheckoutModeCustomer {
		total = state.Breakdown.FinalTotal
	}

	payload := backend.TransactionPayload{
		BranchID:      state.BranchID,
		Items:         items,
		Total:         total,
		Cashier:       state.Cashier,
		PaymentMethod: payment,
	}
	if state.EmployeeID != "" {
		employeeID := state.EmployeeID
		payload.EmployeeID = &employeeID
	}
	if state.Customer != nil {
		customerID := state.Customer.ID
		payload.CustomerID = &customerID
	}
	return payload, nil
}
