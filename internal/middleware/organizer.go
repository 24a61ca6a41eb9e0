package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/bracket/pkg/responses"
	"github.com/DhavalSuthar-24/bracket/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	OrganizerCodeKey = "organizer_tournament_code"
)

// OrganizerMiddleware requires a Bearer organizer token whose tournament code
// matches the :code route parameter. When required is false every request passes.
func OrganizerMiddleware(jwtSecret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.ErrorResponse(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := token.ValidateOrganizerToken(bearerToken[1], jwtSecret)
		if err != nil {
			responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token: "+err.Error())
			return
		}

		if !strings.EqualFold(claims.TournamentCode, c.Param("code")) {
			responses.ErrorResponse(c, http.StatusForbidden, "Token does not grant access to this tournament")
			return
		}

		c.Set(OrganizerCodeKey, claims.TournamentCode)
		c.Next()
	}
}

// GetOrganizerCodeFromContext returns the tournament code the request's token was issued for.
func GetOrganizerCodeFromContext(c *gin.Context) (string, error) {
	code, exists := c.Get(OrganizerCodeKey)
	if !exists {
		return "", errors.New("organizer code not found in context")
	}

	s, ok := code.(string)
	if !ok {
		return "", fmt.Errorf("organizer code has unexpected type: %T", code)
	}

	return s, nil
}
