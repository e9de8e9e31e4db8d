package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/auth"
	"github.com/softalya/foodcourt/internal/domain"
	"github.com/softalya/foodcourt/internal/mailer"
	"github.com/softalya/foodcourt/internal/repo/postgres"
	"github.com/softalya/foodcourt/pkg/config"
	"github.com/softalya/foodcourt/pkg/events"
	"github.com/softalya/foodcourt/pkg/logger"
)

// invalidCredentials is the one message every authentication failure maps to,
// so callers cannot probe which emails are registered.
const invalidCredentials = "invalid credentials"

type AccountService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error
	UpdateProfile(ctx context.Context, accountID int64, req *domain.UpdateAccountRequest) (*domain.Account, error)

	ListAddresses(ctx context.Context, accountID int64) ([]domain.Address, error)
	CreateAddress(ctx context.Context, accountID int64, in *domain.AddressInput) (*domain.Address, error)
	UpdateAddress(ctx context.Context, accountID, addressID int64, in *domain.AddressInput) (*domain.Address, error)
	DeleteAddress(ctx context.Context, accountID, addressID int64) error
}

type accountService struct {
	accounts  postgres.AccountRepository
	addresses postgres.AddressRepository
	tokens    *auth.TokenService
	mail      mailer.Service
	bus       events.Publisher
	cfg       *config.Config
}

func NewAccountService(
	accounts postgres.AccountRepository,
	addresses postgres.AddressRepository,
	tokens *auth.TokenService,
	mail mailer.Service,
	bus events.Publisher,
	cfg *config.Config,
) AccountService {
	return &accountService{
		accounts:  accounts,
		addresses: addresses,
		tokens:    tokens,
		mail:      mail,
		bus:       bus,
		cfg:       cfg,
	}
}

// Register creates an account, sends the welcome email, and activates it.
// Accounts are self-activating: the inactive state between creation and
// activation is never observable from outside.
func (s *accountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Account, error) {
	req.Normalize()

	if req.Password != req.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if exists {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	account, err := s.accounts.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}

	s.sendActivationEmail(ctx, account)

	if err := s.accounts.Activate(ctx, account.ID); err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	account.IsActive = true

	s.publish(ctx, events.AccountRegistered, events.AccountRegisteredEvent{
		AccountID:   account.ID,
		Email:       account.Email,
		AccountType: account.AccountType,
		CreatedAt:   account.CreatedAt,
	})

	return account, nil
}

func (s *accountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if account == nil {
		return nil, apperr.Unauthorized(invalidCredentials, nil)
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, account.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperr.Unauthorized(invalidCredentials, nil)
	}

	token, err := s.tokens.Issue(account.ID, auth.PurposeAccess, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("issue token: %w", err))
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Account:   account.ToAccountInfo(),
	}, nil
}

// ForgotPassword mails a short-lived reset token. An unknown email is treated
// as success so the endpoint cannot be used to enumerate accounts. A template
// render failure aborts before anything is sent; a send failure does not.
func (s *accountService) ForgotPassword(ctx context.Context, email string) error {
	req := domain.ForgotPasswordRequest{Email: email}
	req.Normalize()

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return apperr.Dependency("an error occurred, please try again later", err)
	}
	if account == nil {
		logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	token, err := s.tokens.Issue(account.ID, auth.PurposePasswordReset, s.cfg.Auth.ResetTokenTTL)
	if err != nil {
		return apperr.Internal(fmt.Errorf("issue reset token: %w", err))
	}

	const subject = "Reset Password"
	html, err := mailer.RenderPasswordReset(mailer.PasswordResetData{
		Email:    account.Email,
		Subject:  "Reset Password Link",
		Token:    token,
		ResetURL: s.cfg.Email.ResetBaseURL + "?token=" + token,
	})
	if err != nil {
		return apperr.Dependency("an error occurred, please try again later", err)
	}

	text := fmt.Sprintf("Reset your password: %s?token=%s", s.cfg.Email.ResetBaseURL, token)
	if _, err := s.mail.Send(account.Email, account.FirstName, subject, text, html); err != nil {
		logger.ErrorContext(ctx, "failed to send reset email", "error", err, "account_id", account.ID)
	}

	return nil
}

func (s *accountService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	claims, err := s.tokens.VerifyPurpose(req.Token, auth.PurposePasswordReset)
	if err != nil {
		return apperr.Unauthorized("invalid or expired token", err)
	}

	account, err := s.accounts.FindByID(ctx, claims.Sub)
	if err != nil {
		return apperr.Dependency("an error occurred, please try again later", err)
	}
	if account == nil {
		return apperr.Unauthorized("invalid or expired token", nil)
	}

	if req.Password != req.ConfirmPassword {
		return apperr.Validation("passwords do not match")
	}
	if len(req.Password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return apperr.Dependency("an error occurred, please try again later", err)
	}

	return nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID int64, req *domain.UpdateAccountRequest) (*domain.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	account, err := s.accounts.UpdateProfile(ctx, accountID, req)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if account == nil {
		return nil, apperr.NotFound("account not found")
	}
	return account, nil
}

func (s *accountService) ListAddresses(ctx context.Context, accountID int64) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return addresses, nil
}

func (s *accountService) CreateAddress(ctx context.Context, accountID int64, in *domain.AddressInput) (*domain.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	address, err := s.addresses.Create(ctx, accountID, in)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return address, nil
}

func (s *accountService) UpdateAddress(ctx context.Context, accountID, addressID int64, in *domain.AddressInput) (*domain.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	address, err := s.addresses.Update(ctx, addressID, accountID, in)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if address == nil {
		return nil, apperr.NotFound("address not found")
	}
	return address, nil
}

func (s *accountService) DeleteAddress(ctx context.Context, accountID, addressID int64) error {
	if err := s.addresses.Delete(ctx, addressID, accountID); err != nil {
		return apperr.NotFound("address not found")
	}
	return nil
}

func (s *accountService) sendActivationEmail(ctx context.Context, account *domain.Account) {
	const subject = "Welcome to Food Delivery"
	html, err := mailer.RenderActivation(mailer.ActivationData{
		FirstName: account.FirstName,
		Subject:   "Congratulations!",
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to render activation email", "error", err, "account_id", account.ID)
		return
	}

	text := fmt.Sprintf("Hi %s, welcome to Food Delivery!", account.FirstName)
	if _, err := s.mail.Send(account.Email, account.FirstName, subject, text, html); err != nil {
		logger.ErrorContext(ctx, "failed to send activation email", "error", err, "account_id", account.ID)
	}
}

func (s *accountService) publish(ctx context.Context, subject string, payload any) {
	if s.bus == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.bus.Publish(publishCtx, subject, payload); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}
