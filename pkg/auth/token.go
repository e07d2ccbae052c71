package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salonworks/pos-terminal/pkg/config"
	"github.com/salonworks/pos-terminal/pkg/enums"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintCashierToken issues a signed JWT for the provided payload using the
// configured TTL.
func MintCashierToken(cfg config.JWTConfig, now time.Time, payload CashierTokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if strings.TrimSpace(payload.Cashier) == "" {
		return "", fmt.Errorf("cashier name is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid cashier role %q", payload.Role)
	}
	if payload.Role != enums.CashierRoleAdmin && payload.BranchID == "" {
		return "", fmt.Errorf("branch id is required for non-admin cashiers")
	}

	issuedAt := jwt.NewNumericDate(now)
	expiry := jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute))

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := CashierTokenClaims{
		Cashier:    payload.Cashier,
		EmployeeID: payload.EmployeeID,
		BranchID:   payload.BranchID,
		Role:       payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiry,
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseCashierToken validates the JWT string and returns typed claims.
func ParseCashierToken(cfg config.JWTConfig, tokenString string) (*CashierTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &CashierTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
