package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	jwtSigningMethod = jwt.SigningMethodHS256

	errSecretRequired  = errors.New("jwt secret is required")
	errMissingCustomer = errors.New("customer_id claim is required")
)

// MintCustomerToken issues a signed customer token. Tokens are normally issued
// by the account service; this mirrors its format for tooling and tests.
func MintCustomerToken(cfg config.JWTConfig, now time.Time, ttl time.Duration, customerID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", errSecretRequired
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	if customerID == uuid.Nil {
		return "", errMissingCustomer
	}

	claims := CustomerTokenClaims{
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   customerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseCustomerToken validates the JWT string and returns typed claims.
func ParseCustomerToken(cfg config.JWTConfig, tokenString string) (*CustomerTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errSecretRequired
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwtSigningMethod.Alg()})}
	if strings.TrimSpace(cfg.Issuer) != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &CustomerTokenClaims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(tokenString),
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	if claims.CustomerID == uuid.Nil {
		return nil, errMissingCustomer
	}
	return claims, nil
}
