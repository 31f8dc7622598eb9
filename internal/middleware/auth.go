package middleware

import (
	"net/http"
	"strings"

	"storefront-api/pkg/authtoken"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const identityKey = "identity"

// BearerAuth verifies the identity-provider bearer token and stores the
// verified identity in the request context. Every review mutation runs
// behind it; handlers never trust a client-supplied user id.
func BearerAuth(verifier *authtoken.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			prometheus.AuthAttemptsCounter.Inc()

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header missing"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Verify the token against the identity provider's signing key
			identity, err := verifier.Verify(parts[1])
			if err != nil {
				log.Error("Invalid identity token", zap.Error(err))
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(identityKey, identity)
			log.Info("Request authenticated",
				zap.String("subject", identity.Subject))

			return next(c)
		}
	}
}

// IdentityFromContext retrieves the verified identity set by BearerAuth.
func IdentityFromContext(c echo.Context) (*authtoken.Identity, bool) {
	identity, ok := c.Get(identityKey).(*authtoken.Identity)
	return identity, ok
}
