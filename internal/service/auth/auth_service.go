package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/permission"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/session"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*domain.User, error)
	Register(ctx context.Context, actor *domain.User, input RegisterInput) (*domain.User, error)
}

type LoginResult struct {
	Session *domain.Session
	User    *domain.User
}

type RegisterInput struct {
	Username            string      `json:"username" binding:"required,max=50"`
	Email               string      `json:"email" binding:"required,email,max=100"`
	Password            string      `json:"password" binding:"required,min=8,max=72"`
	FirstName           string      `json:"firstName" binding:"max=100"`
	LastName            string      `json:"lastName" binding:"max=100"`
	Role                domain.Role `json:"role" binding:"required"`
	AssignedAirlineCode string      `json:"assignedAirlineCode" binding:"omitempty,min=2,max=3"`
}

type AuthService struct {
	users      repository.UserRepository
	airlines   repository.AirlineRepository
	sessions   session.Store
	bcryptCost int
	logger     *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, airlines repository.AirlineRepository, sessions session.Store, bcryptCost int, logger *zap.SugaredLogger) *AuthService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, airlines: airlines, sessions: sessions, bcryptCost: bcryptCost, logger: logger}
}

var errBadCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthenticated)

// Login verifies the password and opens a new session, revoking any the user already had.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return nil, errBadCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnw("failed login", "user_id", user.ID)
		return nil, errBadCredentials
	}

	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user logged in", "user_id", user.ID, "role", string(user.Role))
	return &LoginResult{Session: sess, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a session id to its active user.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: session user no longer exists", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, actor *domain.User, input RegisterInput) (*domain.User, error) {
	if err := permission.RequireSuperAdmin(actor); err != nil {
		return nil, err
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.AssignedAirlineCode = strings.TrimSpace(input.AssignedAirlineCode)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	role := domain.Role(strings.ToUpper(strings.TrimSpace(string(input.Role))))
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := domain.NewUser(
		input.Username,
		input.Email,
		string(hash),
		input.FirstName,
		input.LastName,
		role,
		input.AssignedAirlineCode,
	)
	if err != nil {
		return nil, err
	}

	if user.AssignedAirlineCode != "" {
		if _, err := s.airlines.GetByCode(ctx, user.AssignedAirlineCode); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Infow("user registered", "user_id", user.ID, "role", string(user.Role), "airline", user.AssignedAirlineCode, "actor", actor.Username)
	return user, nil
}

// HashPassword is exposed for seeding administrators.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var _ AuthUseCase = (*AuthService)(nil)
