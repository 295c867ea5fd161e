// Package account implements registration, login and administrative account
// operations over the storage layer. No session tokens are issued: callers
// re-authenticate each request and pass the resulting account explicitly.
package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rcastillo/chartsight/internal/config"
	"github.com/rcastillo/chartsight/internal/storage"
)

var (
	ErrUsernameTaken      = errors.New("username is already registered")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrPhoneTaken         = errors.New("phone number is already registered")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrBadReferralCode    = errors.New("referral code does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

type Service struct {
	repo   *storage.Repository
	logger *zap.Logger
}

func NewService(repo *storage.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// RegisterInput is the data collected at sign-up. ReferralCode optionally
// links the new account to an existing referrer.
type RegisterInput struct {
	Username     string
	Email        string
	Phone        string
	Password     string
	FullName     string
	ReferralCode string
}

// Register creates a new account on the free plan.
func (s *Service) Register(in RegisterInput) (*storage.Account, error) {
	if len(in.Username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	if taken, err := s.repo.UsernameExists(in.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.repo.EmailExists(in.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}
	if in.Phone != "" {
		if taken, err := s.repo.PhoneExists(in.Phone); err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		} else if taken {
			return nil, ErrPhoneTaken
		}
	}

	var referredBy *uint
	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		referrer, err := s.repo.FindAccountByReferralCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBadReferralCode
			}
			return nil, fmt.Errorf("lookup referral code: %w", err)
		}
		referredBy = &referrer.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var phone *string
	if in.Phone != "" {
		phone = &in.Phone
	}

	acc := &storage.Account{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        phone,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Plan:         "free",
		Active:       true,
		ReferralCode: GenerateReferralCode(in.Username),
		ReferredBy:   referredBy,
	}
	if err := s.repo.CreateAccount(acc); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered",
		zap.String("username", acc.Username),
		zap.Bool("referred", referredBy != nil))
	return acc, nil
}

// Login verifies credentials and returns the account. Inactive accounts are
// rejected even with a correct password.
func (s *Service) Login(username, password string) (*storage.Account, error) {
	acc, err := s.repo.FindAccountByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrAccountInactive
	}

	if err := s.repo.TouchLastSeen(acc.ID); err != nil {
		s.logger.Warn("update last seen", zap.Error(err))
	}
	return acc, nil
}

// EnsureAdmin bootstraps the configured admin account when no admin exists
// yet, and promotes any configured usernames that already registered.
func (s *Service) EnsureAdmin(cfg config.Admin) error {
	exists, err := s.repo.AdminExists()
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	if !exists && cfg.Username != "" && cfg.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		acc := &storage.Account{
			Username:     cfg.Username,
			Email:        cfg.Email,
			PasswordHash: string(hash),
			FullName:     "Administrator",
			Plan:         "elite",
			Active:       true,
			Admin:        true,
			ReferralCode: GenerateReferralCode(cfg.Username),
		}
		if err := s.repo.CreateAccount(acc); err != nil {
			return fmt.Errorf("create admin account: %w", err)
		}
		s.logger.Info("bootstrap admin created", zap.String("username", cfg.Username))
	}

	for _, username := range cfg.Usernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		acc, err := s.repo.FindAccountByUsername(username)
		if err != nil {
			continue // not registered yet
		}
		if acc.Admin {
			continue
		}
		if err := s.repo.PromoteAdmin(acc.ID); err != nil {
			s.logger.Warn("promote admin", zap.String("username", username), zap.Error(err))
			continue
		}
		s.logger.Info("account promoted to admin", zap.String("username", username))
	}
	return nil
}

// Admin operations.

func (s *Service) ChangePlan(accountID uint, plan string) error {
	switch plan {
	case "free", "pro", "elite":
	default:
		return fmt.Errorf("unknown plan %q", plan)
	}
	return s.repo.UpdatePlan(accountID, plan)
}

func (s *Service) SetActive(accountID uint, active bool) error {
	return s.repo.SetActive(accountID, active)
}

func (s *Service) Promote(accountID uint) error {
	return s.repo.PromoteAdmin(accountID)
}

func (s *Service) Delete(accountID uint) error {
	return s.repo.DeleteAccount(accountID)
}

func (s *Service) SaveTelegramConfig(accountID uint, botToken, chatID string) error {
	return s.repo.SetTelegramConfig(accountID, botToken, chatID)
}

// GenerateReferralCode derives a 10-character uppercase code from the
// username and current time. Uniqueness is backed by the DB constraint.
func GenerateReferralCode(username string) string {
	base := fmt.Sprintf("%s-%d", username, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(base))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:10])
}
