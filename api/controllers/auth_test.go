package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgAuth "github.com/salonworks/pos-terminal/pkg/auth"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/config"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
)

type stubCashierVerifier struct {
	employee *backend.EmployeeRecord
	err      error
	lastID   string
	lastPIN  string
}

func (s *stubCashierVerifier) VerifyCashier(ctx context.Context, employeeID, pin string) (*backend.EmployeeRecord, error) {
	s.lastID = employeeID
	s.lastPIN = pin
	if s.err != nil {
		return nil, s.err
	}
	return s.employee, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
}

func TestAuthSignOnMintsToken(t *testing.T) {
	verifier := &stubCashierVerifier{employee: &backend.EmployeeRecord{
		ID:       "emp-7",
		Name:     "Dana",
		BranchID: "branch-1",
		Role:     enums.CashierRoleCashier,
	}}
	handler := AuthSignOn(testJWTConfig(), verifier, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-on", strings.NewReader(`{"employee_id":"emp-7","pin":"4321"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if verifier.lastID != "emp-7" || verifier.lastPIN != "4321" {
		t.Fatalf("verifier saw %q/%q", verifier.lastID, verifier.lastPIN)
	}

	var envelope struct {
		Data signOnResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatal("expected a minted token")
	}
	claims, err := pkgAuth.ParseCashierToken(testJWTConfig(), envelope.Data.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Cashier != "Dana" || claims.BranchID != "branch-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Role != enums.CashierRoleCashier {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestAuthSignOnWrongPINIsUnauthorized(t *testing.T) {
	verifier := &stubCashierVerifier{err: pkgerrors.New(pkgerrors.CodeNotFound, "no match")}
	handler := AuthSignOn(testJWTConfig(), verifier, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-on", strings.NewReader(`{"employee_id":"emp-7","pin":"0000"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "no match") {
		t.Fatalf("directory detail leaked: %s", resp.Body.String())
	}
}

func TestAuthSignOnValidatesBody(t *testing.T) {
	verifier := &stubCashierVerifier{}
	handler := AuthSignOn(testJWTConfig(), verifier, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-on", strings.NewReader(`{"employee_id":"emp-7","pin":"12"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short pin got %d", resp.Code)
	}
	if verifier.lastID != "" {
		t.Fatal("verifier should not be called for invalid payload")
	}
}

func TestAuthSignOnDependencyFailure(t *testing.T) {
	verifier := &stubCashierVerifier{err: pkgerrors.New(pkgerrors.CodeDependency, "backend down")}
	handler := AuthSignOn(testJWTConfig(), verifier, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-on", strings.NewReader(`{"employee_id":"emp-7","pin":"4321"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
