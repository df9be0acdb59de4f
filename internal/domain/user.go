package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and authentication operations.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is the admin principal. The hash and salt never leave the server.
// swagger:model User
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed bearer tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns its subject (the email).
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// TokenCodec combines issuing and verification over one shared secret.
type TokenCodec interface {
	TokenIssuer
	TokenVerifier
}

// UserRepository defines the interface for user storage. There is no delete:
// users persist for the lifetime of the system.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserService defines the business logic for authentication and the admin
// user's self-service profile.
type UserService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	ResolveByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email, password string) (*User, error)
	UpdateSelf(ctx context.Context, user *User, email, password *string) (*User, error)
}
