// Package auth registers and logs in users and turns bearer tokens back
// into sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "noto/errors"
	"noto/logger"
	"noto/models"
	"noto/utils"
)

const welcomeMailTimeout = 10 * time.Second

// UserStore is the persistence the service needs.
type UserStore interface {
	UserExists(ctx context.Context, username, email string) (bool, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type RegisterResult struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

type LoginResult struct {
	Token string              `json:"token"`
	User  models.LoginProfile `json:"user"`
}

type Service struct {
	users     UserStore
	tokens    *TokenService
	revoker   Revoker
	mailer    utils.Mailer
	validator *utils.Validator
	log       *logger.Logger
}

func NewService(users UserStore, tokens *TokenService, revoker Revoker, mailer utils.Mailer, log *logger.Logger) *Service {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	if mailer == nil {
		mailer = utils.NoopMailer{}
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		revoker:   revoker,
		mailer:    mailer,
		validator: utils.NewValidator(),
		log:       log,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.users.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("User already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.ValidationWithDetails("validation failed", map[string]string{
				"password": "must not exceed 72 bytes",
			})
		}
		return nil, err
	}

	// CreateUser maps a unique violation from a concurrent signup to
	// AlreadyExists as well.
	user, err := s.users.CreateUser(ctx, req.Username, req.Email, hash)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	go s.sendWelcome(context.WithoutCancel(ctx), user.Email, user.Username)

	return &RegisterResult{Token: token, User: user.Profile()}, nil
}

func (s *Service) sendWelcome(ctx context.Context, email, username string) {
	ctx, cancel := context.WithTimeout(ctx, welcomeMailTimeout)
	defer cancel()

	if err := s.mailer.SendWelcome(ctx, email, username); err != nil {
		s.log.WithError(err).Warn("welcome email failed", "username", username)
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByLogin(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials("Invalid username or email")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials("Invalid password")
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).Warn("failed to record last login", "user_id", user.ID)
	}

	return &LoginResult{Token: token, User: user.LoginProfile()}, nil
}

// Authenticate resolves a bearer token into its session. Revoked tokens are
// rejected like any other invalid token.
//
// It fails closed: if the revocation list cannot be read the token is not
// accepted and an internal error (HTTP 500) is returned. A Redis outage
// therefore fails every authenticated route.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Session, error) {
	session, err := s.tokens.Verify(token)
	if err != nil {
		return models.Session{}, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return models.Session{}, apperrors.Internal(err)
	}
	if revoked {
		return models.Session{}, apperrors.InvalidToken(errors.New("token has been revoked"))
	}
	return session, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, session models.Session) error {
	return s.revoker.Revoke(ctx, session.TokenID, session.Remaining(s.tokens.now()))
}
