package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/apperr"
	"workorder/internal/auth"
	"workorder/internal/model"
)

const (
	UserIDKey = "userID"
	RoleKey   = "role"
	ActorKey  = "actor"
)

// JWTAuthMiddleware rejects requests without a valid Bearer token and stores
// the user id and role claims in the gin context.
func JWTAuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, claims, err := tokens.ParseUserID(parts[1])
		switch {
		case errors.Is(err, auth.ErrInvalidClaims):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// LoadActor resolves the authenticated user so that handlers work with the
// current role rather than the one baked into the token.
func LoadActor(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(UserIDKey)
		userID, valid := id.(uuid.UUID)
		if !ok || !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set(ActorKey, user)
		c.Set(RoleKey, user.Role)
		c.Next()
	}
}

// RequireRoles lets the request through only when the actor has one of roles.
// It must run after LoadActor.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}

// Actor returns the user stored by LoadActor, or nil.
func Actor(c *gin.Context) *model.User {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
