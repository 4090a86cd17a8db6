package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/auth"
)

// Keys under which authenticated claims are stored on the gin context.
const (
	ContextKeyAdminID    = "adminID"
	ContextKeyEmployeeID = "employeeID"
	ContextKeyRole       = "role"
)

// AuthMiddleware validates bearer tokens issued to admin accounts.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// Swagger UI sometimes sends the token as a query parameter
		if authHeader == "" {
			authHeader = c.Query("token")
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Set(ContextKeyEmployeeID, claims.EmployeeID)
		c.Set(ContextKeyRole, models.AdminRole(claims.Role))
		c.Next()
	}
}

// RoleRequired lets the request through only for the listed roles.
func (m *AuthMiddleware) RoleRequired(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			HandleAPIError(c, apperrors.ErrUnauthorized)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrPermissionDenied, "this action requires role "+joinRoles(roles)))
	}
}

// CurrentAdminID returns the authenticated admin id, if any.
func CurrentAdminID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextKeyAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// CurrentRole returns the authenticated admin role, if any.
func CurrentRole(c *gin.Context) (models.AdminRole, bool) {
	v, ok := c.Get(ContextKeyRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.AdminRole)
	return role, ok
}

func joinRoles(roles []models.AdminRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
