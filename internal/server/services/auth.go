// Package services contains the business logic of the identity core:
// credential verification, user lifecycle transactions, role assignment,
// permission resolution, audit reads and profile-asset handling.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/auth"
	"github.com/mkalvans/userhub/internal/server/config"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
)

// dummyHash is compared against when the username matches no active user, so
// both halves of an InvalidCredentials failure cost one bcrypt verification.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthResult is what a successful login hands back to the transport layer.
type AuthResult struct {
	Token    string   `json:"token"`
	UserID   int64    `json:"userid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repos:         m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Authenticate checks the password of an active user and mints a token
// carrying the user id and its currently valid role names. An unknown
// username and a wrong password produce the same ErrInvalidCredentials;
// nothing is persisted either way.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repos.Users(s.db).GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	roles, err := s.repos.UserRoles(s.db).ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	token, err := auth.GenerateToken(user.ID, roles, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
	}, nil
}
