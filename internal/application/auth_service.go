package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/librarypal/user-service/internal/domain/entity"
	repo "github.com/librarypal/user-service/internal/domain/repository"
	"github.com/librarypal/user-service/pkg/helpers"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const userInfoCacheTTL = 5 * time.Minute

// Service orchestrates signup, login and token-gated lookups by composing
// the user repository, the bcrypt hasher and the JWT manager. Redis is an
// optional read-through cache for public user info; the service works
// unchanged with a nil client.
type Service struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *Service {
	return &Service{Repo: r, JWT: jwt, Redis: rdb, Logger: logger}
}

// UserInfo is the public projection of a user record. It never carries the
// password hash.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResult struct {
	ID        int64
	Token     string
	ExpiresAt time.Time
}

func userInfoKey(id int64) string {
	return "user:info:" + strconv.FormatInt(id, 10)
}

// SignUp creates a user after uniqueness checks pass. Username is checked
// before email; when both conflict the username conflict wins. The insert
// itself maps uniqueness races to the same conflict errors, so concurrent
// signups never both succeed. No token is issued on signup.
func (s *Service) SignUp(ctx context.Context, username, email, password string) error {
	if _, err := s.Repo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u := &entity.User{Username: username, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return ErrUsernameTaken
		case errors.Is(err, repo.ErrDuplicateEmail):
			return ErrEmailTaken
		}
		return err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user signed up")
	}
	return nil
}

// Login validates credentials and issues a bearer token with the username as
// subject. Unknown username and wrong password collapse into the same
// ErrInvalidCredentials so responses do not reveal which check failed.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", username).Error("token generation failed")
		}
		return nil, err
	}
	return &LoginResult{ID: u.ID, Token: token, ExpiresAt: exp}, nil
}

// GetUserInfo returns the public fields of the user with the given id.
// Lookups go through the Redis cache when one is configured; cache failures
// fall back to the repository silently.
func (s *Service) GetUserInfo(ctx context.Context, id int64) (*UserInfo, error) {
	if s.Redis != nil {
		var cached UserInfo
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, userInfoKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	info := &UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, userInfoKey(id), info, userInfoCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("user info cache write failed")
		}
	}
	return info, nil
}

// ListUsers returns the public fields of all users in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]UserInfo, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, UserInfo{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	return infos, nil
}
