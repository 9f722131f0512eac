package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the slice of the users store the gate needs.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

// TokenRepository is the slice of the tokens store the gate needs.
type TokenRepository interface {
	Create(ctx context.Context, token *entities.Token) error
	GetByValue(ctx context.Context, value string) (*entities.Token, error)
}

// Service verifies credentials and mints and resolves bearer tokens.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, tokens TokenRepository, cfg config.Auth) *Service {
	return &Service{users: users, tokens: tokens, config: cfg}
}

// CreateUser hashes the password and persists a new user. Input validation
// (charset, lengths) happens in the registration flow before this call.
func (s *Service) CreateUser(ctx context.Context, name, username, password string) (*entities.User, error) {
	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// MintToken creates and persists a fresh bearer token for a user. Every
// login mints a new row; existing tokens stay valid.
func (s *Service) MintToken(ctx context.Context, user *entities.User) (*entities.Token, error) {
	value, err := GenerateTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &entities.Token{
		Value:  value,
		UserID: user.ID,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return token, nil
}

// ResolveToken resolves a bearer value to its user.
func (s *Service) ResolveToken(ctx context.Context, value string) (*entities.User, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}
	token, err := s.tokens.GetByValue(ctx, value)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, token.UserID)
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
