package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/config"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

// TokenParser verifies a bearer token. *casdoorsdk.Client satisfies it.
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// AccountResolver maps an identity-provider account to a local identity.
type AccountResolver interface {
	Authenticate(ctx context.Context, account string) (*models.User, error)
}

// CasdoorAuthMiddleware authenticates requests with Casdoor-issued tokens.
// The token's user name is the local account; role and borrower type come
// from the local directory.
type CasdoorAuthMiddleware struct {
	BaseHandler
	parser   TokenParser
	resolver AccountResolver
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, resolver AccountResolver, logger utils.Logger) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return NewAuthMiddlewareWithParser(client, resolver, logger)
}

func NewAuthMiddlewareWithParser(parser TokenParser, resolver AccountResolver, logger utils.Logger) *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		BaseHandler: NewBaseHandler(logger),
		parser:      parser,
		resolver:    resolver,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor authentication
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			cam.RespondWithError(c, http.StatusUnauthorized, services.CodeUnauthorized, "missing or malformed authorization header", nil)
			return
		}

		claims, err := cam.parser.ParseJwtToken(token)
		if err != nil {
			cam.RespondWithError(c, http.StatusUnauthorized, services.CodeUnauthorized, "invalid token", err.Error())
			return
		}

		user, err := cam.resolver.Authenticate(c.Request.Context(), claims.Name)
		if err != nil {
			cam.HandleError(c, err)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			cam.RespondWithError(c, http.StatusForbidden, services.CodeForbidden, err.Error(), nil)
			return
		}

		for _, required := range requiredRoles {
			if role == required || role == models.RoleAdmin {
				c.Next()
				return
			}
		}

		cam.RespondWithError(c, http.StatusForbidden, services.CodeForbidden,
			fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles), nil)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
