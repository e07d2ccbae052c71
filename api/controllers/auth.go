package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/salonworks/pos-terminal/api/responses"
	"github.com/salonworks/pos-terminal/api/validators"
	pkgAuth "github.com/salonworks/pos-terminal/pkg/auth"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/config"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type cashierVerifier interface {
	VerifyCashier(ctx context.Context, employeeID, pin string) (*backend.EmployeeRecord, error)
}

type signOnRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	PIN        string `json:"pin" validate:"required,min=4"`
}

type signOnResponse struct {
	Token      string `json:"token"`
	Cashier    string `json:"cashier"`
	EmployeeID string `json:"employee_id"`
	BranchID   string `json:"branch_id,omitempty"`
	Role       string `json:"role"`
}

// AuthSignOn verifies an employee PIN against the staff directory and mints
// the terminal's bearer token.
func AuthSignOn(cfg config.JWTConfig, verifier cashierVerifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if verifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff directory unavailable"))
			return
		}

		var body signOnRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := verifier.VerifyCashier(r.Context(), body.EmployeeID, body.PIN)
		if err != nil {
			// A directory miss means bad credentials, not a missing resource.
			if pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
				err = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintCashierToken(cfg, time.Now(), pkgAuth.CashierTokenPayload{
			Cashier:    employee.Name,
			EmployeeID: employee.ID,
			BranchID:   employee.BranchID,
			Role:       employee.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"employee_id": employee.ID,
				"branch_id":   employee.BranchID,
			})
			logg.Info(ctx, "cashier signed on")
		}

		responses.WriteSuccess(w, signOnResponse{
			Token:      token,
			Cashier:    employee.Name,
			EmployeeID: employee.ID,
			BranchID:   employee.BranchID,
			Role:       string(employee.Role),
		})
	}
}
