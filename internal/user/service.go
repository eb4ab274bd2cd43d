package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

// PasswordHasher defines minimal hashing interface.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify uses bcrypt's constant-time comparison.
func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Repository is the credential store used by UserService.
type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// UserService orchestrates registration and login.
type UserService struct {
	repo       Repository
	hasher     PasswordHasher
	tokens     auth.TokenIssuer
	adminEmail string
}

func NewUserService(r Repository, hasher PasswordHasher, tokens auth.TokenIssuer, adminEmail string) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	return &UserService{repo: r, hasher: hasher, tokens: tokens, adminEmail: NormalizeEmail(adminEmail)}
}

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUnknownEmail = errors.New("no user with that email")
	ErrBadPassword  = errors.New("password does not match")
)

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  *entity.User
}

// NormalizeEmail trims and lower-cases an address; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleFor returns admin only for the configured privileged address. The
// comparison is on normalized addresses, so "Admin@Clinic.test" matches
// "admin@clinic.test"; stored emails are normalized the same way, which keeps
// the admin match consistent with case-insensitive email uniqueness.
func (s *UserService) RoleFor(email string) auth.Role {
	if s.adminEmail != "" && NormalizeEmail(email) == s.adminEmail {
		return auth.RoleAdmin
	}
	return auth.RoleBasic
}

// Register creates a user and signs a token for it. Input is assumed to be
// validated already.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           utilities.NewID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         s.RoleFor(email),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Login checks credentials and signs a token. Unknown email and wrong
// password are reported as different errors.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadPassword
	}
	token, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}
