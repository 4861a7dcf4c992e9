package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Session is what a successful register or login hands back.
type Session struct {
	User      *models.UserView `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// AuthService is the entry point used by transports. Every method returns
// either a value or an error classifiable with common.KindOf.
type AuthService struct {
	users   *UserService
	tokens  *auth.TokenIssuer
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewAuthService(users *UserService, tokens *auth.TokenIssuer, logger logging.Logger, mt *metrics.Metrics) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		logger:  logger.With("module", "auth_service"),
		metrics: mt,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, profile map[string]any) (sess *Session, err error) {
	defer s.observe(metrics.OpRegister, time.Now(), &err)

	user, err := s.users.Create(ctx, email, password, profile)
	if err != nil {
		return nil, err
	}
	return s.session(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (sess *Session, err error) {
	defer s.observe(metrics.OpLogin, time.Now(), &err)

	user, err := s.users.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.session(ctx, user)
}

// Authenticate resolves a bearer token to the user ID it was issued for.
// Expired and otherwise invalid tokens fail with different errors.
func (s *AuthService) Authenticate(ctx context.Context, token string) (userID string, err error) {
	defer s.observe(metrics.OpAuthenticate, time.Now(), &err)

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (user *models.UserView, err error) {
	defer s.observe(metrics.OpGetUser, time.Now(), &err)
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) (users []*models.UserView, err error) {
	defer s.observe(metrics.OpListUsers, time.Now(), &err)
	return s.users.FindAll(ctx)
}

func (s *AuthService) session(ctx context.Context, user *models.UserView) (*Session, error) {
	token, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "issue token", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}

func (s *AuthService) observe(op string, started time.Time, err *error) {
	s.metrics.Observe(op, started, *err)
}
