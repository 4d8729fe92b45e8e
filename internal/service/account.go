package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/transport"
	pkg_hash "github.com/forcosplay/costume-shop/pkg/hash"
	"github.com/forcosplay/costume-shop/pkg/logging"
	middleware "github.com/forcosplay/costume-shop/pkg/middleware/auth"
	"github.com/forcosplay/costume-shop/pkg/tokens"
)

const minPasswordLen = 6

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrValidation)
	ErrAccountDisabled    = fmt.Errorf("account is disabled: %w", domain.ErrForbidden)
)

type AccountService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Now       Clock
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	Account     *models.Account
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email: %w", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrValidation)
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, req transport.RegisterRequest) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "account.register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	account := &models.Account{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: pwHash,
		Role:         middleware.RoleUser,
		Enabled:      true,
	}
	if err := s.Repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	l.Info("register_success", "account_id", account.ID)
	return account, nil
}

func (s *AccountService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "account.login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.Repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.Enabled {
		return nil, ErrAccountDisabled
	}
	if !pkg_hash.CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	exp := s.Now.now().Add(tokens.AccessTTL)
	token, err := tokens.NewAccessToken(account.ID, account.Email, account.Name, account.Role, exp, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_success", "account_id", account.ID)
	return &LoginResult{AccessToken: token, AccessExp: exp, Account: account}, nil
}

func (s *AccountService) Profile(ctx context.Context, accountID uint) (*models.Account, error) {
	return s.Repo.GetAccount(ctx, accountID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID uint, req transport.UpdateProfileRequest) (*models.Account, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("invalid email: %w", domain.ErrValidation)
		}
		fields["email"] = email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrValidation)
		}
		pwHash, err := pkg_hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = pwHash
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrValidation)
	}
	return s.Repo.UpdateAccount(ctx, accountID, fields)
}

func (s *AccountService) SaveAddress(ctx context.Context, accountID uint, address string) (*models.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address is required: %w", domain.ErrValidation)
	}
	return s.Repo.UpdateAccount(ctx, accountID, map[string]any{"address": address})
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.Repo.ListAccounts(ctx)
}

func (s *AccountService) ChangeStatus(ctx context.Context, accountID uint, enabled bool) (*models.Account, error) {
	account, err := s.Repo.UpdateAccount(ctx, accountID, map[string]any{"enabled": enabled})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("account_status_changed", "account_id", accountID, "enabled", enabled)
	return account, nil
}

func (s *AccountService) ChangeRole(ctx context.Context, accountID uint, role string) (*models.Account, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != middleware.RoleUser && role != middleware.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}
	account, err := s.Repo.UpdateAccount(ctx, accountID, map[string]any{"role": role})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("account_role_changed", "account_id", accountID, "role", role)
	return account, nil
}
