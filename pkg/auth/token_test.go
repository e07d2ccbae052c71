package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/salonworks/pos-terminal/pkg/config"
	"github.com/salonworks/pos-terminal/pkg/enums"
)

func TestMintAndParseCashierToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "salonpos",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := CashierTokenPayload{
		Cashier:    "Dana",
		EmployeeID: "emp-1",
		BranchID:   "branch-1",
		Role:       enums.CashierRoleCashier,
	}

	token, err := MintCashierToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint cashier token: %v", err)
	}

	claims, err := ParseCashierToken(cfg, token)
	if err != nil {
		t.Fatalf("parse cashier token: %v", err)
	}

	if claims.Cashier != "Dana" {
		t.Fatalf("expected cashier Dana, got %s", claims.Cashier)
	}
	if claims.EmployeeID != "emp-1" {
		t.Fatalf("employee id not preserved")
	}
	if claims.BranchID != "branch-1" {
		t.Fatalf("branch id not preserved")
	}
	if claims.Role != enums.CashierRoleCashier {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.IsAdmin() {
		t.Fatal("cashier role must not be admin")
	}

	// RegisteredClaims is embedded, so access fields directly.
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintCashierTokenAdminNeedsNoBranch(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "salonpos",
		ExpirationMinutes: 30,
	}
	payload := CashierTokenPayload{
		Cashier: "Riley",
		Role:    enums.CashierRoleAdmin,
	}

	token, err := MintCashierToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint cashier token: %v", err)
	}

	claims, err := ParseCashierToken(cfg, token)
	if err != nil {
		t.Fatalf("parse cashier token: %v", err)
	}
	if !claims.IsAdmin() {
		t.Fatal("expected admin claims")
	}
}

func TestParseCashierTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "salonpos",
		ExpirationMinutes: 10,
	}
	payload := CashierTokenPayload{
		Cashier:  "Dana",
		BranchID: "branch-1",
		Role:     enums.CashierRoleManager,
	}

	token, err := MintCashierToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint cashier token: %v", err)
	}

	_, err = ParseCashierToken(cfg, token+"x")
	if err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseCashierTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "salonpos",
		ExpirationMinutes: 15,
	}
	now := time.Now().Add(-time.Hour)
	payload := CashierTokenPayload{
		Cashier:  "Dana",
		BranchID: "branch-1",
		Role:     enums.CashierRoleCashier,
	}

	token, err := MintCashierToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint cashier token: %v", err)
	}

	_, err = ParseCashierToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintCashierTokenValidation(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "salonpos",
		ExpirationMinutes: 5,
	}

	if _, err := MintCashierToken(cfg, time.Now(), CashierTokenPayload{Cashier: "Dana", BranchID: "branch-1", Role: ""}); err == nil {
		t.Fatal("expected invalid role error")
	}
	if _, err := MintCashierToken(cfg, time.Now(), CashierTokenPayload{Role: enums.CashierRoleCashier, BranchID: "branch-1"}); err == nil {
		t.Fatal("expected missing cashier error")
	}
	if _, err := MintCashierToken(cfg, time.Now(), CashierTokenPayload{Cashier: "Dana", Role: enums.CashierRoleCashier}); err == nil {
		t.Fatal("expected missing branch error")
	}
}
