// Package auth issues and parses the HS256 session tokens that bind a user
// id to its role names at login time.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkalvans/userhub/internal/common"
)

// Claims carries the registered claims plus the authenticated user id and the
// role names that were valid when the token was minted.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64    `json:"userid"`
	Roles  []string `json:"roles"`
}

// GenerateToken signs a token binding userID and roles with the process-wide
// secret.
func GenerateToken(userID int64, roles []string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Roles:  roles,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates a token string and returns its claims. Any signature,
// format or expiry problem yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, errors.Join(common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
