// Package auth issues and parses the signed bearer tokens backing sessions.
// Tokens are HS256 JWTs carrying the subject uuid and the validity window;
// the session store remains authoritative for expiry and revocation, so any
// client-supplied expiry claim is never trusted on its own.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
)

// Claims extends the registered claims with the acting subject's uuid.
type Claims struct {
	jwt.RegisteredClaims
	SubjectUUID string
}

// GenerateToken mints a signed token for the subject, valid from issuedAt to
// expiresAt. A random jti makes every token value unique, so re-logins in
// the same instant never collide.
func GenerateToken(subjectUUID string, secretKey []byte, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SubjectUUID: subjectUUID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies the signature and returns the subject uuid.
// Claim validation is skipped on purpose: the session store is authoritative
// for expiry, and an expired-but-known token must still resolve to its
// session so callers can report it as signed-out rather than unknown. Any
// signature failure (tampering, wrong key, garbage) surfaces as
// ErrNotSignedIn: a token we cannot vouch for identifies nobody.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", apperr.ErrNotSignedIn
	}

	if !token.Valid {
		return "", apperr.ErrNotSignedIn
	}

	return claims.SubjectUUID, nil
}
