package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionFreshness is how long a session token stays valid after issuance.
const SessionFreshness = 24 * time.Hour

// ErrTokenMalformed is returned for tokens that fail signature or shape checks.
var ErrTokenMalformed = errors.New("malformed session token")

// TokenClaims are the session token claims: account id, email and issuance time.
type TokenClaims struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenUtil mints and validates session tokens
type TokenUtil struct {
	secretKey string
	freshness time.Duration
	nowFunc   func() time.Time
}

// NewTokenUtil creates a new TokenUtil
func NewTokenUtil(secretKey string, freshness time.Duration) *TokenUtil {
	if freshness <= 0 {
		freshness = SessionFreshness
	}
	return &TokenUtil{secretKey: secretKey, freshness: freshness, nowFunc: time.Now}
}

// WithClock replaces the time source. Used by tests and by callers sharing a clock.
func (tu *TokenUtil) WithClock(now func() time.Time) *TokenUtil {
	tu.nowFunc = now
	return tu
}

// GenerateToken mints a token for the account, issued now.
func (tu *TokenUtil) GenerateToken(accountID int64, email string) (string, error) {
	issued := tu.nowFunc()
	claims := &TokenClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(tu.freshness)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tu.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks the signature and the freshness window.
// Stale tokens match jwt.ErrTokenExpired, everything else matches ErrTokenMalformed.
func (tu *TokenUtil) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tu.secretKey), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if claims.IssuedAt == nil || claims.AccountID <= 0 {
		return nil, fmt.Errorf("%w: missing claims", ErrTokenMalformed)
	}
	if age := tu.nowFunc().Sub(claims.IssuedAt.Time); age >= tu.freshness {
		return nil, fmt.Errorf("%w: issued %s ago", jwt.ErrTokenExpired, age.Truncate(time.Second))
	}
	return claims, nil
}
