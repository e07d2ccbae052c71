package receipts

import (
	"context"
	"fmt"

	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/pkg/backend"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type receiptBackend interface {
	RenderReceipt(ctx context.Context, transactionID, branchID string) (*backend.ReceiptArtifact, error)
	ShareReceipt(ctx context.Context, phone, transactionID, message string) error
	GetTransaction(ctx context.Context, transactionID string) (*backend.TransactionRecord, error)
	ListTransactions(ctx context.Context, branchID string) ([]backend.TransactionRecord, error)
	GetBranch(ctx context.Context, branchID string) (*backend.BranchRecord, error)
}

// Service renders, reprints and shares receipts, and serves the branch
// transaction history they reprint from.
type Service interface {
	Render(ctx context.Context, transactionID, branchID string) (*backend.ReceiptArtifact, error)
	Reprint(ctx context.Context, transactionID string) (*backend.ReceiptArtifact, error)
	Share(ctx context.Context, phone, transactionID string) error
	History(ctx context.Context, branchID string) ([]backend.TransactionRecord, error)
}

type service struct {
	backend receiptBackend
	logger  *logger.Logger
}

func NewService(b receiptBackend, logg *logger.Logger) (Service, error) {
	if b == nil {
		return nil, fmt.Errorf("receipt backend required")
	}
	return &service{backend: b, logger: logg}, nil
}

// Render produces the printable artifact for a just-completed transaction.
func (s *service) Render(ctx context.Context, transactionID, branchID string) (*backend.ReceiptArtifact, error) {
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	return s.backend.RenderReceipt(ctx, transactionID, branchID)
}

// Reprint re-renders a historical transaction, resolving its branch from
// the persisted record.
func (s *service) Reprint(ctx context.Context, transactionID string) (*backend.ReceiptArtifact, error) {
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	txn, err := s.backend.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return s.backend.RenderReceipt(ctx, txn.ID, txn.BranchID)
}

// Share texts a receipt summary to the given phone number.
func (s *service) Share(ctx context.Context, phone, transactionID string) error {
	normalized := customers.NormalizePhone(phone)
	if !customers.IsComplete(normalized) {
		return pkgerrors.New(pkgerrors.CodeValidation, "a ten digit phone number is required")
	}
	txn, err := s.backend.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	// Branch lookup only decorates the message; a miss falls back to the
	// generic greeting.
	branch, err := s.backend.GetBranch(ctx, txn.BranchID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithField(ctx, "branch_id", txn.BranchID), "branch lookup failed, sharing without branch name")
		}
		branch = nil
	}
	return s.backend.ShareReceipt(ctx, normalized, txn.ID, shareMessage(txn, branch))
}

// History lists the branch's persisted transactions for reprint lookup.
func (s *service) History(ctx context.Context, branchID string) ([]backend.TransactionRecord, error) {
	if branchID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch id required")
	}
	return s.backend.ListTransactions(ctx, branchID)
}

func shareMessage(txn *backend.TransactionRecord, branch *backend.BranchRecord) string {
	visit := "your visit"
	if branch != nil && branch.Name != "" {
		visit = "visiting " + branch.Name
	}
	return fmt.Sprintf("Thank you for %s! Your total was %s. Receipt reference: %s",
		visit, txn.Total.StringFixed(2), txn.ID)
}
