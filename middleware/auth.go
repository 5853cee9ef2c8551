package middleware

import (
	"context"
	"errors"
	"strings"

	"studyflow/services"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// Authenticator validates an access token. *usecase.UserService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*services.Claims, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "access")
			utils.Unauthorized(c, "Missing or invalid token")
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.TrackAuthAttempt("failure", "access")
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				utils.Unauthorized(c, "Token has expired")
			case errors.Is(err, usecase.ErrSessionRevoked):
				utils.Unauthorized(c, "Session has been revoked")
			case errors.Is(err, services.ErrWrongTokenType):
				utils.Unauthorized(c, "Invalid token type")
			default:
				utils.Unauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Claims returns the verified access token claims, or nil.
func Claims(c *gin.Context) *services.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
