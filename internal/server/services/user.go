// Package services contains server-side business logic. This file implements
// UserService: registration, login, access-token refresh, and logout, backed
// by the refresh-token ledger.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/auth"
	"github.com/mbelozerov/eventkeeper/internal/server/config"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token, plus the user they were minted for.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// UserService implements the session lifecycle. Both tokens are HS256 JWTs;
// they are signed with different secrets, so one can never stand in for the
// other. Refresh tokens are additionally recorded in the ledger, which is
// consulted on every refresh.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       *auth.PasswordHasher
	accessTokenSecret            []byte
	refreshTokenSecret           []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		hasher:                       auth.NewPasswordHasher(cfg.BcryptCost),
		accessTokenSecret:            []byte(cfg.AccessTokenSecret),
		refreshTokenSecret:           []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a user with a bcrypt-hashed password. The plaintext is
// never stored or logged.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies username, email, and password together and mints a token
// pair. Every failure collapses to ErrorUnauthorized so a caller cannot
// probe which part was wrong.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	pair.User = user
	return pair, nil
}

// RefreshAccessToken exchanges a live refresh token for a new access token.
// The refresh token itself is not rotated. Checks run in a fixed order:
// signature and expiry first, then the subject, then the ledger.
// claimedUserID is what the caller says the token belongs to; when set it
// must agree with the token's own subject.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken, claimedUserID string) (string, error) {
	userID, err := auth.GetUserIDFromToken(refreshToken, s.refreshTokenSecret)
	if err != nil {
		return "", common.ErrorForbidden
	}
	if userID == "" || (claimedUserID != "" && claimedUserID != userID) {
		return "", common.ErrorUnauthorized
	}

	ledger := s.repomanager.RefreshTokens(s.db)
	valid, err := ledger.IsValid(ctx, userID, refreshToken)
	if err != nil {
		return "", common.ErrorInternal
	}
	if !valid {
		return "", common.ErrorForbidden
	}

	access, err := auth.GenerateToken(userID, s.accessTokenSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return access, nil
}

// Logout revokes the presented refresh token. The token must carry a valid
// refresh signature; revoking an already revoked or unknown token succeeds.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := auth.ParseToken(refreshToken, s.refreshTokenSecret); err != nil {
		return common.ErrorForbidden
	}

	ledger := s.repomanager.RefreshTokens(s.db)
	if err := ledger.Revoke(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ChangePassword stores a new hash and revokes every refresh token the user
// holds, forcing re-login on all devices.
func (s *UserService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).RevokeAll(ctx, userID)
	})
}

// DeleteUser removes a user and revokes their tokens in one transaction.
// Exposed for administrative tooling and test teardown only.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).RevokeAll(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.accessTokenSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(userID, s.refreshTokenSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	ledger := s.repomanager.RefreshTokens(s.db)
	expiresAt := time.Now().Add(s.refreshTokenValidityDuration)
	if err := ledger.Store(ctx, userID, refresh, expiresAt); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken checks an access token and returns its subject. Used by
// the HTTP auth guard; the ledger is deliberately not consulted here.
func (s *UserService) VerifyAccessToken(tokenString string) (string, error) {
	return auth.GetUserIDFromToken(tokenString, s.accessTokenSecret)
}
