package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/password"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const invalidCredentialsMessage = "invalid email or password"

// UserService manages back-office accounts and issues access tokens.
type UserService struct {
	UserRepo repository.UserRepository
	clock    clock.Clock
	config   *config.Config
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, clk clock.Clock, config *config.Config, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepo: userRepo,
		clock:    clk,
		config:   config,
		logger:   logger,
	}
}

// Login verifies credentials of an active user and returns a signed token
// whose subject is the user ID.
func (s *UserService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.UserRepo.GetByEmail(ctx, strings.TrimSpace(request.Email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapUnauthenticated(invalidCredentialsMessage)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !user.IsActive || !password.CheckPasswordHash(request.Password, user.PasswordHash) {
		return nil, customError.WrapUnauthenticated(invalidCredentialsMessage)
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.config.Auth.TokenTTL)
	claims := &domain.JwtCustomClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.config.Auth.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return nil, customError.NewBusinessError(customError.ErrCodeUnauthenticated, "could not issue token", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &domain.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *UserService) CreateUser(ctx context.Context, p domain.Principal, request *domain.CreateUserRequest) (*domain.User, error) {
	if err := authorize(p, "manage users", adminRoles...); err != nil {
		return nil, err
	}

	role, ok := domain.ParseRole(request.Role)
	if !ok {
		return nil, customError.WrapInvalidArgument("role must be Admin or Operator")
	}
	if len(request.Password) < 8 {
		return nil, customError.WrapInvalidArgument("password must be at least 8 characters")
	}

	hash, err := password.HashPassword(request.Password, s.config.Auth.BcryptCost)
	if err != nil {
		return nil, customError.WrapInvalidArgument("password cannot be hashed")
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(request.FullName),
		Email:        strings.TrimSpace(request.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapConflict("Email already exists.")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("role", string(role)), zap.String("created_by", p.ID))
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, p domain.Principal, page, pageSize int) (*domain.UserListResponse, error) {
	if err := authorize(p, "manage users", adminRoles...); err != nil {
		return nil, err
	}

	page, pageSize = utils.NormalizePage(page, pageSize, s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize)

	users, total, err := s.UserRepo.List(ctx, pageSize, utils.Offset(page, pageSize))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.UserListResponse{Users: users, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// SetUserActive enables or disables an account. Disabled users cannot log in.
func (s *UserService) SetUserActive(ctx context.Context, p domain.Principal, userID int64, active bool) error {
	if err := authorize(p, "manage users", adminRoles...); err != nil {
		return err
	}
	if strconv.FormatInt(userID, 10) == p.ID && !active {
		return customError.WrapInvalidArgument("you cannot deactivate your own account")
	}

	ok, err := s.UserRepo.SetActive(ctx, userID, active)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !ok {
		return customError.WrapNotFound("User", userID)
	}

	s.logger.Info("User activation changed", zap.Int64("user_id", userID), zap.Bool("active", active), zap.String("changed_by", p.ID))
	return nil
}
