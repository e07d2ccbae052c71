package customers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
	"github.com/salonworks/pos-terminal/pkg/metrics"
)

type directory interface {
	VerifyByPhone(ctx context.Context, phone string) (*backend.CustomerRecord, error)
	GetMemberships(ctx context.Context, customerID string) ([]backend.MembershipRecord, error)
	ValidateMembership(ctx context.Context, membershipID string, serviceIDs []string) (*backend.MembershipValidation, error)
}

// Snapshot is the externally visible verification state at one instant.
type Snapshot struct {
	Phone              string                        `json:"phone"`
	State              enums.VerificationState       `json:"state"`
	Customer           *backend.CustomerRecord       `json:"customer,omitempty"`
	Memberships        []backend.MembershipRecord    `json:"memberships,omitempty"`
	SelectedMembership *backend.MembershipRecord     `json:"selected_membership,omitempty"`
	Validation         *backend.MembershipValidation `json:"validation,omitempty"`
	LastError          string                        `json:"last_error,omitempty"`
}

// Workflow drives phone verification for one register session. A ten-digit
// number that stays stable for the debounce window triggers exactly one
// directory lookup; superseded lookups are discarded by generation counter.
type Workflow struct {
	directory     directory
	debounce      time.Duration
	lookupTimeout time.Duration
	logger        *logger.Logger
	registerM     *metrics.RegisterMetrics

	mu           sync.Mutex
	phone        string
	lastVerified string
	generation   uint64
	timer        *time.Timer

	state              enums.VerificationState
	customer           *backend.CustomerRecord
	memberships        []backend.MembershipRecord
	selectedMembership *backend.MembershipRecord
	validation         *backend.MembershipValidation
	lastError          string
}

func NewWorkflow(dir directory, debounce, lookupTimeout time.Duration, logg *logger.Logger, registerM *metrics.RegisterMetrics) (*Workflow, error) {
	if dir == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if lookupTimeout <= 0 {
		return nil, fmt.Errorf("lookup timeout required")
	}
	return &Workflow{
		directory:     dir,
		debounce:      debounce,
		lookupTimeout: lookupTimeout,
		logger:        logg,
		registerM:     registerM,
		state:         enums.VerificationStateIdle,
	}, nil
}

// SetPhoneInput feeds a keystroke-level input value. Non-digits are stripped
// and the value is truncated at ten digits. Dropping below ten digits resets
// every piece of resolved customer state; a complete number arms the
// debounce timer. serviceIDs carries the cart's current service lines for
// membership validation once a customer resolves.
func (w *Workflow) SetPhoneInput(raw string, serviceIDs []string) {
	phone := NormalizePhone(raw)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.phone = phone
	w.generation++
	w.stopTimerLocked()

	if !IsComplete(phone) {
		w.clearResolvedLocked()
		// Dropping the marker means retyping the same number verifies again;
		// the resolved state is already gone.
		w.lastVerified = ""
		w.state = enums.VerificationStateIdle
		return
	}
	if phone == w.lastVerified {
		return
	}

	gen := w.generation
	ids := append([]string(nil), serviceIDs...)
	w.timer = time.AfterFunc(w.debounce, func() {
		w.verify(gen, phone, ids)
	})
}

// Reset returns the workflow to idle, as after a completed checkout.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.stopTimerLocked()
	w.phone = ""
	w.lastVerified = ""
	w.clearResolvedLocked()
	w.state = enums.VerificationStateIdle
}

// SelectMembership picks one of the resolved customer's memberships by id.
func (w *Workflow) SelectMembership(membershipID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != enums.VerificationStateExisting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no verified customer to select a membership for")
	}
	for i := range w.memberships {
		if w.memberships[i].ID == membershipID {
			selected := w.memberships[i]
			w.selectedMembership = &selected
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "membership not held by this customer")
}

// ClearMembershipSelection drops the selected membership without touching
// the verified customer.
func (w *Workflow) ClearMembershipSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedMembership = nil
	w.validation = nil
}

// AttachCustomer commits a customer resolved outside the lookup path, such
// as a fresh registration, and marks the phone as verified.
func (w *Workflow) AttachCustomer(customer *backend.CustomerRecord) {
	if customer == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.stopTimerLocked()
	w.phone = NormalizePhone(customer.Phone)
	w.lastVerified = w.phone
	w.clearResolvedLocked()
	w.customer = customer
	w.state = enums.VerificationStateExisting
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := Snapshot{
		Phone:     w.phone,
		State:     w.state,
		LastError: w.lastError,
	}
	if w.customer != nil {
		customer := *w.customer
		snap.Customer = &customer
	}
	if len(w.memberships) > 0 {
		snap.Memberships = append([]backend.MembershipRecord(nil), w.memberships...)
	}
	if w.selectedMembership != nil {
		selected := *w.selectedMembership
		snap.SelectedMembership = &selected
	}
	if w.validation != nil {
		validation := *w.validation
		snap.Validation = &validation
	}
	return snap
}

func (w *Workflow) verify(gen uint64, phone string, serviceIDs []string) {
	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		return
	}
	w.state = enums.VerificationStatePending
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.lookupTimeout)
	defer cancel()

	customer, err := w.directory.VerifyByPhone(ctx, phone)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			w.commitNew(gen, phone)
			return
		}
		w.commitError(gen, err)
		return
	}

	result := resolvedCustomer{customer: customer}
	result.memberships, result.selected, result.validation = w.enrich(ctx, customer, serviceIDs)
	w.commitExisting(gen, phone, result)
}

type resolvedCustomer struct {
	customer    *backend.CustomerRecord
	memberships []backend.MembershipRecord
	selected    *backend.MembershipRecord
	validation  *backend.MembershipValidation
}

// enrich fetches memberships and an eligibility validation. Both are
// secondary lookups: failures degrade to whatever resolved so far rather
// than losing the customer.
func (w *Workflow) enrich(ctx context.Context, customer *backend.CustomerRecord, serviceIDs []string) ([]backend.MembershipRecord, *backend.MembershipRecord, *backend.MembershipValidation) {
	memberships, err := w.directory.GetMemberships(ctx, customer.ID)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn(ctx, "membership fetch failed, keeping verified customer")
		}
		return nil, nil, nil
	}

	active := firstActiveMembership(memberships)
	if active == nil {
		return memberships, nil, nil
	}
	if !membershipApplies(active, serviceIDs) {
		return memberships, active, nil
	}

	validation, err := w.directory.ValidateMembership(ctx, active.ID, serviceIDs)
	if err != nil || validation == nil || !validation.IsValid {
		// Fall back to the nominal percentage.
		return memberships, active, nil
	}
	return memberships, active, validation
}

func (w *Workflow) commitNew(gen uint64, phone string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return
	}
	w.clearResolvedLocked()
	w.state = enums.VerificationStateNew
	w.lastVerified = phone
	w.registerM.IncVerification("new")
}

func (w *Workflow) commitExisting(gen uint64, phone string, result resolvedCustomer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return
	}
	w.clearResolvedLocked()
	w.state = enums.VerificationStateExisting
	w.lastVerified = phone
	w.customer = result.customer
	w.memberships = result.memberships
	w.selectedMembership = result.selected
	w.validation = result.validation
	w.registerM.IncVerification("existing")
}

func (w *Workflow) commitError(gen uint64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return
	}
	w.clearResolvedLocked()
	w.state = enums.VerificationStateError
	w.lastError = err.Error()
	// Clearing the marker lets the same number be retried.
	w.lastVerified = ""
	w.registerM.IncVerification("error")
}

func (w *Workflow) clearResolvedLocked() {
	w.customer = nil
	w.memberships = nil
	w.selectedMembership = nil
	w.validation = nil
	w.lastError = ""
}

func (w *Workflow) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func firstActiveMembership(memberships []backend.MembershipRecord) *backend.MembershipRecord {
	for i := range memberships {
		if memberships[i].Status == enums.MembershipStatusActive {
			active := memberships[i]
			return &active
		}
	}
	return nil
}

// membershipApplies reports whether the membership covers at least one of
// the cart's service lines. An unscoped membership covers everything.
func membershipApplies(membership *backend.MembershipRecord, serviceIDs []string) bool {
	if len(membership.ServiceIDs) == 0 {
		return true
	}
	for _, covered := range membership.ServiceIDs {
		for _, id := range serviceIDs {
			if covered == id {
				return true
			}
		}
	}
	return false
}
