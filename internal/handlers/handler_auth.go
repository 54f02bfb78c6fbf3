package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles authentication related requests.
type authHandler struct {
	identity portssvc.IdentitySvcFacade
}

func newAuthHandler(identity portssvc.IdentitySvcFacade) *authHandler {
	return &authHandler{identity: identity}
}

// registerAuthRoutes sets up the public authentication routes. The login route sits behind
// the given rate limiter.
func registerAuthRoutes(rg *gin.RouterGroup, identity portssvc.IdentitySvcFacade, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(identity)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimit, h.login)
		auth.POST("/register", h.register)
	}
}

// registerSessionRoutes sets up the authenticated session routes.
func registerSessionRoutes(rg *gin.RouterGroup, identity portssvc.IdentitySvcFacade) {
	h := newAuthHandler(identity)
	rg.GET("/auth/me", h.me)
}

// register godoc
// @Summary Register a new account
// @Description Creates an account pending admin approval. Client accounts must carry company, unique code, city and pincode.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 503 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.identity.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// login godoc
// @Summary Log in
// @Description Authenticates an account for the given role and returns a session token. Clients must also send their pincode.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Pending approval"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	res, err := h.identity.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(res))
}

// me godoc
// @Summary Current account
// @Description Returns the account the session token belongs to.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	account, err := h.identity.GetAccount(c.Request.Context(), caller, caller.AccountID)
	if err != nil {
		respondError(c, err, "Failed to load current account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
