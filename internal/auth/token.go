package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/api-sage/wallet-service/internal/commons"
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	AccountID string
	Mobile    string
}

type tokenClaims struct {
	Mobile string `json:"mobile"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens encoding the
// account id and mobile, valid for a bounded time window.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(accountID string, mobile string) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Mobile: strings.TrimSpace(mobile),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.TrimSpace(accountID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify returns commons.ErrUnauthorized for any malformed, tampered or
// expired token; callers never see library-level detail.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(
		strings.TrimSpace(tokenString),
		&claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, fmt.Errorf("%w: %v", commons.ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: token has no subject", commons.ErrUnauthorized)
	}

	return Claims{AccountID: claims.Subject, Mobile: claims.Mobile}, nil
}
