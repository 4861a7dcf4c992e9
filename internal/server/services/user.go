// Package services contains server-side business logic. UserService owns
// user credentials; AuthService combines it with token issuance into the
// operations transports expose.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// UserService stores users and checks their passwords. Only public views
// leave it; the password hash never does.
type UserService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	hasher            passwords.Hasher
	dummyHash         string
	minPasswordLength int
	logger            logging.Logger
	metrics           *metrics.Metrics
}

// NewUserService builds a UserService. The dummy hash used on unknown-email
// logins is computed here, with the same hasher parameters as real hashes.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher passwords.Hasher,
	minPasswordLength int, logger logging.Logger, mt *metrics.Metrics) (*UserService, error) {

	dummy, err := passwords.DummyHash(hasher)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	if minPasswordLength < 1 {
		minPasswordLength = 1
	}

	return &UserService{
		db:                db,
		repomanager:       m,
		hasher:            hasher,
		dummyHash:         dummy,
		minPasswordLength: minPasswordLength,
		logger:            logger.With("module", "user_service"),
		metrics:           mt,
	}, nil
}

// Create registers a new user. Uniqueness is left to the store: a
// concurrent duplicate surfaces as common.ErrDuplicateEmail.
func (s *UserService) Create(ctx context.Context, email, password string, profile map[string]any) (*models.UserView, error) {
	email = common.NormalizeEmail(email)
	if err := validateRegistration(email, password, s.minPasswordLength); err != nil {
		if s.emailTaken(ctx, email, err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Profile: profile})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "create user", "email", email, "error", err)
		return nil, common.ErrStoreUnavailable
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID, "email", email)
	return user.View(), nil
}

// emailTaken reports whether a registration rejected only for its password
// names an existing account. An address that is already registered is a
// duplicate whatever the password, so that error takes precedence.
func (s *UserService) emailTaken(ctx context.Context, email string, validationErr error) bool {
	var ve *common.ValidationError
	if !errors.As(validationErr, &ve) {
		return false
	}
	if _, bad := ve.Fields["email"]; bad {
		return false
	}
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	return err == nil
}

// Verify checks email and password. Unknown email and wrong password both
// return common.ErrInvalidCredentials after one hash comparison each.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.UserView, error) {
	email = common.NormalizeEmail(email)
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "lookup user", "email", email, "error", err)
		return nil, common.ErrStoreUnavailable
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "verify password", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	return user.View(), nil
}

// rehash upgrades a stored hash to the current parameters. The swap only
// applies while the stored hash is still the one just verified, so a
// concurrent login's upgrade is never overwritten. Failure only costs the
// upgrade, not the login.
func (s *UserService) rehash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn(ctx, "rehash password", "user_id", user.ID, "error", err)
		return
	}

	updated, err := s.repomanager.Users(s.db).UpdatePasswordHash(ctx, user.ID, user.PasswordHash, hash)
	if err != nil {
		s.logger.Warn(ctx, "store rehashed password", "user_id", user.ID, "error", err)
		return
	}
	if !updated {
		s.logger.Debug(ctx, "password hash changed concurrently, upgrade skipped", "user_id", user.ID)
		return
	}
	s.metrics.Rehashed()
	s.logger.Info(ctx, "password hash upgraded", "user_id", user.ID)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.UserView, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get user", "user_id", id, "error", err)
		return nil, common.ErrStoreUnavailable
	}
	return user.View(), nil
}

func (s *UserService) FindAll(ctx context.Context) ([]*models.UserView, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list users", "error", err)
		return nil, common.ErrStoreUnavailable
	}
	return models.Views(users), nil
}
