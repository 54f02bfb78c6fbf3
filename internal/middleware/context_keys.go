package middleware

import (
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// accountKey is the key used to store the authenticated account in the Gin context.
const accountKey = contextKey("account")

// GetAccountFromContext retrieves the authenticated account from the Gin context.
// It returns the account and a boolean indicating if it was found.
func GetAccountFromContext(c *gin.Context) (*domain.Account, bool) {
	val, exists := c.Get(string(accountKey))
	if !exists {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	if !ok || account == nil {
		return nil, false
	}
	return account, true
}

// SetAccount stores the authenticated account in the Gin context.
func SetAccount(c *gin.Context, account *domain.Account) {
	c.Set(string(accountKey), account)
}
