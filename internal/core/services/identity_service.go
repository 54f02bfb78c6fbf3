package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/notify"
	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/internal/utils"
	"github.com/google/uuid"
)

// identityService implements the IdentitySvcFacade interface
type identityService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	loginRepo     portsrepo.LoginEventRepository
	notifications portssvc.NotificationSvc

	jwtSecret           string
	jwtIssuer           string
	jwtExpiry           time.Duration
	bootstrapAdminEmail string
	phoneRegion         string
}

// NewIdentityService creates a new identity service.
func NewIdentityService(
	cfg *config.Config,
	accountRepo portsrepo.AccountRepositoryFacade,
	loginRepo portsrepo.LoginEventRepository,
	notifications portssvc.NotificationSvc,
	options ...ServiceOption,
) portssvc.IdentitySvcFacade {
	return &identityService{
		BaseService:         newBaseService(options...),
		accountRepo:         accountRepo,
		loginRepo:           loginRepo,
		notifications:       notifications,
		jwtSecret:           cfg.JWTSecret,
		jwtIssuer:           cfg.JWTIssuer,
		jwtExpiry:           cfg.JWTExpiryDuration,
		bootstrapAdminEmail: domain.NormalizeEmail(cfg.BootstrapAdminEmail),
		phoneRegion:         cfg.PhoneDefaultRegion,
	}
}

var _ portssvc.IdentitySvcFacade = (*identityService)(nil)

func (s *identityService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	email := domain.NormalizeEmail(req.Email)
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
	}
	if strings.TrimSpace(req.Name) == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required")
	}

	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Role:      req.Role,
	}

	if req.Phone != "" {
		phone, err := notify.NormalizePhone(req.Phone, s.phoneRegion)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid phone number: " + err.Error())
		}
		account.Phone = phone
	}

	if req.Role == domain.RoleClient {
		if err := s.applyClientFields(&account, req); err != nil {
			return nil, err
		}
	}

	if _, err := s.accountRepo.FindAccountByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAppError(http.StatusConflict, "an account with this email already exists", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up email", slog.String("email", email))
		return nil, err
	}

	if account.Role == domain.RoleClient {
		if _, err := s.accountRepo.FindClientByCode(ctx, account.UniqueCode); err == nil {
			return nil, apperrors.NewValidationError("unique code is already taken by another client")
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewValidationError("password cannot be used: " + err.Error())
	}
	account.PasswordHash = hash

	if account.Role == domain.RoleAdmin && s.bootstrapAdminEmail != "" && email == s.bootstrapAdminEmail {
		hasAdmin, err := s.accountRepo.HasApprovedAdmin(ctx)
		if err != nil {
			return nil, err
		}
		account.IsApproved = !hasAdmin
	}

	now := s.Now()
	account.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     domain.SelfRegistered,
		LastUpdatedAt: now,
		LastUpdatedBy: domain.SelfRegistered,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)),
		slog.Bool("approved", account.IsApproved))

	if account.IsApproved {
		s.LogInfo(ctx, "Bootstrap admin approved on registration", slog.String("account_id", account.AccountID))
	} else {
		s.notifications.Publish(ctx, domain.AccountRegisteredEvent(&account, now))
	}
	return &account, nil
}

func (s *identityService) applyClientFields(account *domain.Account, req dto.RegisterRequest) error {
	var missing []string
	company := strings.TrimSpace(req.Company)
	code := strings.TrimSpace(req.UniqueCode)
	city := strings.TrimSpace(req.City)
	pincode := strings.TrimSpace(req.Pincode)
	if company == "" {
		missing = append(missing, "company")
	}
	if code == "" {
		missing = append(missing, "uniqueCode")
	}
	if city == "" {
		missing = append(missing, "city")
	}
	if pincode == "" {
		missing = append(missing, "pincode")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("client accounts require " + strings.Join(missing, ", "))
	}
	if !dto.ValidPincode(pincode) {
		return apperrors.NewValidationError("pincode must be six digits")
	}
	account.Company = company
	account.UniqueCode = code
	account.Location = domain.Location{City: city, Pincode: pincode}
	return nil
}

func (s *identityService) Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResult, error) {
	email := domain.NormalizeEmail(req.Email)
	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no account is registered with this email")
		}
		return nil, err
	}

	now := s.Now()
	if outcome, err := checkLogin(account, req); err != nil {
		s.recordAttempt(ctx, account, req, outcome, now)
		s.LogInfo(ctx, "Login rejected",
			slog.String("account_id", account.AccountID),
			slog.String("outcome", string(outcome)))
		return nil, err
	}

	account.RecordLogin(now)
	if err := s.accountRepo.TouchLastLogin(ctx, account.AccountID, now); err != nil {
		s.LogError(ctx, err, "Failed to record last login", slog.String("account_id", account.AccountID))
		return nil, err
	}
	s.recordAttempt(ctx, account, req, domain.LoginSucceeded, now)

	token, expiresAt, err := utils.GenerateJWT(account.AccountID, account.Role, s.jwtSecret, s.jwtExpiry, s.jwtIssuer, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// checkLogin applies the login checks in their fixed order.
func checkLogin(account *domain.Account, req dto.LoginRequest) (domain.LoginOutcome, error) {
	if account.Role != req.Role {
		return domain.LoginRoleMismatch, apperrors.NewAppError(http.StatusUnauthorized,
			"account is not registered with role "+string(req.Role), apperrors.ErrRoleMismatch)
	}
	if !account.IsApproved {
		return domain.LoginPendingApproval, apperrors.NewAppError(http.StatusForbidden,
			"account is pending admin approval", apperrors.ErrPendingApproval)
	}
	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		return domain.LoginBadCredential, apperrors.NewAppError(http.StatusUnauthorized,
			"invalid credentials", apperrors.ErrBadCredential)
	}
	if account.IsClient() {
		pincode := strings.TrimSpace(req.Pincode)
		if pincode == "" {
			return domain.LoginPincodeRequired, apperrors.NewAppError(http.StatusBadRequest,
				"pincode is required for client login", apperrors.ErrPincodeRequired)
		}
		if pincode != account.Location.Pincode {
			return domain.LoginPincodeMismatch, apperrors.NewAppError(http.StatusUnauthorized,
				"pincode does not match", apperrors.ErrPincodeMismatch)
		}
	}
	return domain.LoginSucceeded, nil
}

// recordAttempt appends to the login history. A failed write is logged and does not affect
// the login result.
func (s *identityService) recordAttempt(ctx context.Context, account *domain.Account, req dto.LoginRequest, outcome domain.LoginOutcome, now time.Time) {
	event := domain.LoginEvent{
		EventID:    uuid.NewString(),
		AccountID:  account.AccountID,
		Email:      account.Email,
		Name:       account.Name,
		Role:       account.Role,
		Outcome:    outcome,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		OccurredAt: now,
	}
	if err := s.loginRepo.SaveLoginEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to append login history", slog.String("account_id", account.AccountID))
	}
}

func (s *identityService) Authorize(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.jwtSecret)
	if err != nil {
		s.LogDebug(ctx, "Rejected session token", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "invalid or expired token", apperrors.ErrInvalidToken)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "account no longer exists", apperrors.ErrAccountNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (s *identityService) Approve(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpApproveAccount); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !account.Approve(caller.AccountID, now) {
		s.LogDebug(ctx, "Account already approved", slog.String("account_id", accountID))
		return account, nil
	}
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to approve account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account approved",
		slog.String("account_id", accountID),
		slog.String("approved_by", caller.AccountID))
	s.notifications.Publish(ctx, domain.AccountApprovedEvent(account, now))
	return account, nil
}

func (s *identityService) UpdateAccountDetails(ctx context.Context, caller *domain.Account, accountID string, req dto.UpdateAccountDetailsRequest) (*domain.Account, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpEditAccountDetails); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if (req.Company != nil || req.City != nil) && !account.IsClient() {
		return nil, apperrors.NewValidationError("company and city apply to client accounts only")
	}
	if req.Company != nil {
		account.Company = strings.TrimSpace(*req.Company)
	}
	if req.City != nil {
		account.Location.City = strings.TrimSpace(*req.City)
	}

	if req.AssignedClientCodes != nil {
		if account.Role != domain.RoleStaff {
			return nil, apperrors.NewValidationError("client assignments apply to staff accounts only")
		}
		ids := make([]string, 0, len(req.AssignedClientCodes))
		for _, code := range req.AssignedClientCodes {
			client, err := s.accountRepo.FindClientByCode(ctx, strings.TrimSpace(code))
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewValidationError(fmt.Sprintf("unknown client code %q", code))
				}
				return nil, err
			}
			ids = append(ids, client.AccountID)
		}
		account.AssignedClientIDs = ids
	}

	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = caller.AccountID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account details", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *identityService) GetAccount(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error) {
	if caller == nil {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "authentication required", apperrors.ErrUnauthorized)
	}
	if caller.AccountID != accountID {
		if err := s.CheckPermission(ctx, caller, domain.OpListAccounts); err != nil {
			return nil, err
		}
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *identityService) ListAccounts(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.Account, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListAccounts); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Limit: params.Limit, Offset: params.Offset})
}

func (s *identityService) ListPendingAccounts(ctx context.Context, caller *domain.Account) ([]domain.Account, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListPendingAccounts); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{OnlyPending: true})
}

func (s *identityService) ListLoginHistory(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.LoginEvent, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListLoginHistory); err != nil {
		return nil, err
	}
	return s.loginRepo.ListLoginEvents(ctx, params.Limit, params.Offset)
}

func (s *identityService) ListClientCodes(ctx context.Context, caller *domain.Account) ([]domain.Account, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListClientCodes); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Role: domain.RoleClient, OnlyApproved: true})
}
