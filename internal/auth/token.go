package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Callers distinguish these for logging but must
// collapse them into a uniform "unauthorized" toward clients.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrWrongPurpose     = errors.New("token purpose mismatch")
)

// Token purposes. A password-reset token is never accepted where an access
// token is expected, and vice versa.
const (
	PurposeAccess        = "access"
	PurposePasswordReset = "password_reset"
)

type Claims struct {
	Sub     int64  `json:"sub"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the HMAC-signed bearer tokens that are the
// sole authentication mechanism. The secret is injected once at construction;
// rotating it invalidates every outstanding token.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for subject with the given purpose. A positive ttl is
// required: tokens without an expiry are not minted.
func (s *TokenService) Issue(subject int64, purpose string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	now := time.Now()
	claims := Claims{
		Sub:     subject,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{"foodcourt-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and checks signature and expiry, returning the claims. The
// error is one of ErrMalformed, ErrInvalidSignature, or ErrExpired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// VerifyPurpose is Verify plus a purpose check.
func (s *TokenService) VerifyPurpose(tokenString, purpose string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
