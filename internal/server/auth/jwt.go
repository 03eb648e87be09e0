// Package auth implements the two credential primitives of the server:
// salted password hashing and signed, time-limited bearer tokens.
package auth

import (
	"time"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered JWT claims; the subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken mints a compact HS256 token for the given subject email,
// expiring after validityDuration.
func GenerateToken(subjectEmail string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			ID:        uuid.NewString(),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies signature and expiry and returns the subject
// email. Every failure mode (bad signature, expired, malformed, missing
// subject) is reported as common.ErrInvalidCredentials; callers must not be
// able to tell why validation failed.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", common.ErrInvalidCredentials
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidCredentials
	}

	return claims.Subject, nil
}
