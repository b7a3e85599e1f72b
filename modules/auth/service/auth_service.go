package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"eventhub-api/core/cache"
	"eventhub-api/core/constants"
	"eventhub-api/core/database"
	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/core/utils"
	"eventhub-api/modules/auth/dto"
	"eventhub-api/modules/auth/entity"
	"eventhub-api/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.ICache
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.ICache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: c}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email address", err)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "password must be at least 8 characters", nil)
	}

	role := entity.RoleAttendee
	switch strings.ToUpper(req.Role) {
	case "", string(entity.RoleAttendee):
	case string(entity.RoleOrganizer):
		role = entity.RoleOrganizer
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "role must be ATTENDEE or ORGANIZER", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("AuthService:Register:GenerateFromPassword", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	resp := dto.ToUserResponse(created)
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	loginKey := constants.RedisKeyLoginAttempts + email

	if s.cache != nil {
		attempts, err := s.cache.IsLoginBlocked(ctx, loginKey)
		if err != nil {
			logger.Warn("AuthService:Login:IsLoginBlocked", "error", err)
		} else if attempts >= constants.MaxLoginAttempts {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "too many failed attempts, try again later", nil)
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.recordFailedAttempt(ctx, loginKey)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}
	if !user.IsActive() {
		return nil, errors.NewAppError(errors.ErrForbidden, "account is not active", nil)
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, loginKey); err != nil {
			logger.Warn("AuthService:Login:ClearAttempts", "error", err)
		}
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("AuthService:Login:UpdateLastLogin", "error", err)
	}
	user.LastLoginAt = &now

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        dto.ToUserResponse(user),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.AddToTokenBlacklist(ctx, token); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.IncrementLoginAttempt(ctx, key); err != nil {
		logger.Warn("AuthService:Login:IncrementLoginAttempt", "error", err)
	}
}
