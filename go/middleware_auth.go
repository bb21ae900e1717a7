package storefrontserver

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront-api/internal/platform/auth"
	apierrors "github.com/Apurer/go-gin-storefront-api/internal/shared/errors"
)

const (
	principalKey = "storefront.principal"
	authErrorKey = "storefront.auth_error"
)

// devPrincipal is used for every request when authentication is disabled.
var devPrincipal = auth.Principal{UserID: "local-admin", Role: auth.RoleAdmin}

// Authenticator resolves the caller from the bearer token and enforces route levels.
type Authenticator struct {
	verifier *auth.Verifier
	disabled bool
	logger   *slog.Logger
}

// NewAuthenticator verifies tokens with verifier. With disabled set every caller is treated as an admin.
func NewAuthenticator(verifier *auth.Verifier, disabled bool, logger *slog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, disabled: disabled, logger: logger}
}

// Identify attaches the principal, if any, to the request. It never rejects.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.disabled {
			principal := devPrincipal
			c.Set(principalKey, &principal)
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		principal, err := a.verify(header)
		if err != nil {
			if a.logger != nil {
				a.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "bearer token rejected",
					slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
			}
			c.Set(authErrorKey, err)
			c.Next()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// Require rejects callers below level: 401 without a valid token, 403 with the wrong role.
func (a *Authenticator) Require(level auth.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			problem := apierrors.ErrUnauthorized.WithCause(auth.ErrMissingToken)
			if err, ok := c.Get(authErrorKey); ok {
				problem = apierrors.ErrUnauthorized.WithCause(err.(error))
			}
			c.Header("WWW-Authenticate", `Bearer realm="storefront"`)
			problems.Respond(c, problem)
			return
		}
		if !level.Allows(principal) {
			problems.Respond(c, apierrors.ErrForbidden.WithDetail(level.String()+" access required"))
			return
		}
		c.Next()
	}
}

func (a *Authenticator) verify(header string) (*auth.Principal, error) {
	token, err := auth.BearerToken(header)
	if err != nil {
		return nil, err
	}
	if a.verifier == nil {
		return nil, auth.ErrInvalidToken
	}
	return a.verifier.Verify(token)
}

// PrincipalFrom returns the caller attached by Identify, or nil for anonymous requests.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*auth.Principal)
	return principal
}

// requireOwner writes a 403 unless the caller is userID or an admin.
func requireOwner(c *gin.Context, userID string) bool {
	principal := PrincipalFrom(c)
	if principal != nil && (principal.IsAdmin() || principal.UserID == userID) {
		return true
	}
	problems.Respond(c, apierrors.ErrForbidden.WithDetail("orders of another user cannot be accessed"))
	return false
}
