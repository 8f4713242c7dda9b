package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// AuthRequired validates the bearer token and stashes the identity on
// the context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUserRole, string(claims.Role))
		c.Next()
	}
}

// RequireAdmin allows only accounts with the administrative role.
func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != string(authdomain.RoleAdmin) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireSubscriber allows admins and users with an active
// subscription.
func (s *Server) RequireSubscriber() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) == string(authdomain.RoleAdmin) {
			c.Next()
			return
		}

		userID, err := currentUserID(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if _, err := s.paymentSvc.ActiveSubscription(c.Request.Context(), userID); err != nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, error) {
	raw := c.GetString(ctxUserID)
	if raw == "" {
		return 0, ErrUnauthorized
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return id, nil
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(ctxUserRole) == string(authdomain.RoleAdmin)
}
