package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventgallery/internal/domain"
)

// TokenTTL is the fixed lifetime of an issued bearer token.
const TokenTTL = 30 * time.Minute

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenIssuer
	mailer         domain.Mailer
	renderer       domain.EmailTemplateRenderer
	loginURL       string
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService creates a UserService. mailer and renderer may be nil, in
// which case no welcome email is sent on user creation.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, mailer domain.Mailer, renderer domain.EmailTemplateRenderer, loginURL string, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokens:         tokens,
		mailer:         mailer,
		renderer:       renderer,
		loginURL:       loginURL,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both return ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.Email, TokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *userService) ResolveByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Email: email, PasswordHash: hash, Salt: salt}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.sendWelcomeEmail(user.Email)
	return user, nil
}

func (s *userService) UpdateSelf(ctx context.Context, user *domain.User, email, password *string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if email != nil {
		newEmail := normalizeEmail(*email)
		if !emailRegexp.MatchString(newEmail) {
			return nil, fmt.Errorf("invalid email format")
		}
		if newEmail != user.Email {
			if _, err := s.userRepo.GetByEmail(ctx, newEmail); err == nil {
				return nil, domain.ErrDuplicateEmail
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		user.Email = newEmail
	}
	if password != nil {
		if len(*password) < minPasswordLen {
			return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
		}
		salt, err := s.hasher.GenerateSalt()
		if err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(salt, *password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Salt = salt
		user.PasswordHash = hash
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// EnsureAdmin seeds the initial admin account so a fresh deployment can log
// in: every mutating endpoint requires a bearer token, and tokens are only
// issued to existing users. Skips silently when the credentials are unset or
// the account already exists, so it is safe to run on every startup.
func EnsureAdmin(ctx context.Context, userRepo domain.UserRepository, users domain.UserService, email, password string, logger *slog.Logger) error {
	if email == "" || password == "" {
		logger.Warn("admin bootstrap credentials not set; skipping")
		return nil
	}
	if _, err := userRepo.GetByEmail(ctx, normalizeEmail(email)); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}
	if _, err := users.Create(ctx, email, password); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	logger.Info("seeded initial admin user", "email", normalizeEmail(email))
	return nil
}

// sendWelcomeEmail is best-effort: a mail failure never fails user creation.
func (s *userService) sendWelcomeEmail(to string) {
	if s.mailer == nil || s.renderer == nil {
		return
	}
	data := &domain.WelcomeEmailData{Email: to, LoginURL: s.loginURL}
	subject, html, text, err := s.renderer.Render("welcome", data)
	if err != nil {
		s.logger.Error("failed to render welcome email", "err", err)
		return
	}
	if err := s.mailer.Send(to, subject, html, text); err != nil {
		s.logger.Error("failed to send welcome email", "to", to, "err", err)
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
