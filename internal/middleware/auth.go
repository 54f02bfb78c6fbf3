package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware handler that resolves the session token to an
// account. The token is read from the Authorization header, or from the "token" query
// parameter for websocket upgrades where browsers cannot set headers.
func AuthMiddleware(identity portssvc.IdentityAuthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c)
		if !ok {
			logger.Warn("Session token missing or malformed")
			AbortWithError(c, apperrors.NewAppError(http.StatusUnauthorized,
				"Authorization header format must be Bearer {token}", apperrors.ErrUnauthorized))
			return
		}

		account, err := identity.Authorize(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Session token rejected", slog.String("error", err.Error()))
			AbortWithError(c, err)
			return
		}

		SetAccount(c, account)

		// Add the caller to the logger and store the enriched logger back into the context
		enrichedLogger := logger.With(
			slog.String("account_id", account.AccountID),
			slog.String("role", string(account.Role)),
		)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enrichedLogger))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if !isWebsocketUpgrade(c) {
			return "", false
		}
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// isWebsocketUpgrade keeps query-string tokens off ordinary REST calls.
func isWebsocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
