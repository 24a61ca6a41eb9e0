// pkg/token/token.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // Using v5
)

const issuer = "bracket"

// Claims identifies the organizer of a single tournament.
type Claims struct {
	TournamentCode string `json:"tournament_code"`
	jwt.RegisteredClaims
}

// GenerateOrganizerToken signs a token that authorizes winner selection for one tournament.
func GenerateOrganizerToken(code string, secretKey string, ttlHours int) (string, error) {
	if secretKey == "" {
		return "", errors.New("jwt secret key is empty")
	}
	if code == "" {
		return "", errors.New("tournament code is empty")
	}

	now := time.Now()
	claims := &Claims{
		TournamentCode: code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   code,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ValidateOrganizerToken parses, validates, and returns claims from a JWT string.
func ValidateOrganizerToken(tokenString string, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, errors.New("token is not yet valid")
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, errors.New("token signature is invalid")
		}
		return nil, fmt.Errorf("could not parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	if claims.TournamentCode == "" {
		return nil, errors.New("tournament_code claim is missing")
	}

	return claims, nil
}
