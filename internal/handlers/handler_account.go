package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles the admin account management requests.
type accountHandler struct {
	identity portssvc.IdentitySvcFacade
}

func newAccountHandler(identity portssvc.IdentitySvcFacade) *accountHandler {
	return &accountHandler{identity: identity}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, identity portssvc.IdentitySvcFacade) {
	h := newAccountHandler(identity)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/pending", h.listPendingAccounts)
		accounts.GET("/login-history", h.listLoginHistory)
		accounts.POST("/:id/approve", h.approveAccount)
		accounts.PUT("/:id/details", h.updateAccountDetails)
	}

	rg.GET("/clients/codes", h.listClientCodes)
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists every account, newest first (admin only).
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.identity.ListAccounts(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// listPendingAccounts godoc
// @Summary List accounts pending approval
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/pending [get]
func (h *accountHandler) listPendingAccounts(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	accounts, err := h.identity.ListPendingAccounts(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to list pending accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// approveAccount godoc
// @Summary Approve an account
// @Description Approves a pending account. Approving an approved account is a no-op.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/approve [post]
func (h *accountHandler) approveAccount(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	accountID := c.Param("id")

	account, err := h.identity.Approve(c.Request.Context(), caller, accountID)
	if err != nil {
		respondError(c, err, "Failed to approve account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account approval handled", slog.String("target_account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccountDetails godoc
// @Summary Update account details
// @Description Changes a client's company or city, or a staff member's assigned clients (admin only).
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param details body dto.UpdateAccountDetailsRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/details [put]
func (h *accountHandler) updateAccountDetails(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.identity.UpdateAccountDetails(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update account details")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listLoginHistory godoc
// @Summary Login history
// @Description Lists authentication attempts, newest first (admin only).
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.LoginEventResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/login-history [get]
func (h *accountHandler) listLoginHistory(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	events, err := h.identity.ListLoginHistory(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, err, "Failed to list login history")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginEventResponses(events))
}

// listClientCodes godoc
// @Summary Client codes
// @Description Lists the unique codes of approved clients a record can be associated with.
// @Tags clients
// @Produce json
// @Success 200 {array} dto.ClientCodeResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /clients/codes [get]
func (h *accountHandler) listClientCodes(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	clients, err := h.identity.ListClientCodes(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to list client codes")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientCodeResponses(clients))
}
