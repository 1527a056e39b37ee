package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/mocks"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/password"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var userNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func newUserService() (*UserService, *mocks.MockUserRepository) {
	repo := &mocks.MockUserRepository{}
	return NewUserService(repo, fixedClock(userNow), testConfig(), zap.NewNop()), repo
}

func storedUser(t *testing.T, active bool) *domain.User {
	t.Helper()
	hash, err := password.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: 4, FullName: "Bola Ade", Email: "bola@example.com", PasswordHash: hash, Role: domain.RoleOperator, IsActive: active}
}

func TestLogin_IssuesToken(t *testing.T) {
	svc, repo := newUserService()
	repo.On("GetByEmail", mock.Anything, "bola@example.com").Return(storedUser(t, true), nil)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: " bola@example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, userNow.Add(time.Hour), resp.ExpiresAt)
	assert.Equal(t, int64(4), resp.User.ID)

	claims := &domain.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "4", claims.Subject)
	assert.Equal(t, "Operator", claims.Role)
	assert.Equal(t, "microloan-test", claims.Issuer)
	assert.Equal(t, userNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestLogin_Rejections(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, repo := newUserService()
		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "nobody@example.com", Password: "x"})
		assert.True(t, customError.HasCode(err, customError.ErrCodeUnauthenticated))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo := newUserService()
		repo.On("GetByEmail", mock.Anything, "bola@example.com").Return(storedUser(t, true), nil)

		_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "bola@example.com", Password: "wrong-horse"})
		assert.True(t, customError.HasCode(err, customError.ErrCodeUnauthenticated))
		assert.Contains(t, err.Error(), "invalid email or password")
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, repo := newUserService()
		repo.On("GetByEmail", mock.Anything, "bola@example.com").Return(storedUser(t, false), nil)

		_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "bola@example.com", Password: "correct-horse"})
		assert.True(t, customError.HasCode(err, customError.ErrCodeUnauthenticated))
	})
}

func TestCreateUser(t *testing.T) {
	svc, repo := newUserService()

	var saved *domain.User
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.User)
			saved.ID = 8
		}).
		Return(nil)

	user, err := svc.CreateUser(context.Background(), admin, &domain.CreateUserRequest{
		FullName: "Bola Ade", Email: "bola@example.com", Password: "correct-horse", Role: "operator",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8), user.ID)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, userNow, user.CreatedAt)
	assert.NotEqual(t, "correct-horse", saved.PasswordHash)
	assert.True(t, password.CheckPasswordHash("correct-horse", saved.PasswordHash))
}

func TestCreateUser_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		request   *domain.CreateUserRequest
		wantCode  string
	}{
		{
			name:      "operator cannot manage users",
			principal: operator,
			request:   &domain.CreateUserRequest{Email: "a@b.c", Password: "long-enough", Role: "Operator"},
			wantCode:  customError.ErrCodeForbidden,
		},
		{
			name:      "unknown role",
			principal: admin,
			request:   &domain.CreateUserRequest{Email: "a@b.c", Password: "long-enough", Role: "Auditor"},
			wantCode:  customError.ErrCodeInvalidArgument,
		},
		{
			name:      "short password",
			principal: admin,
			request:   &domain.CreateUserRequest{Email: "a@b.c", Password: "short", Role: "Admin"},
			wantCode:  customError.ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newUserService()

			_, err := svc.CreateUser(context.Background(), tt.principal, tt.request)
			assert.True(t, customError.HasCode(err, tt.wantCode), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo := newUserService()
		repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.CreateUser(context.Background(), admin, &domain.CreateUserRequest{
			Email: "a@b.c", Password: "long-enough", Role: "Admin",
		})
		assert.True(t, customError.HasCode(err, customError.ErrCodeConflict))
	})
}

func TestSetUserActive(t *testing.T) {
	svc, repo := newUserService()
	repo.On("SetActive", mock.Anything, int64(4), false).Return(true, nil)
	repo.On("SetActive", mock.Anything, int64(40), true).Return(false, nil)

	require.NoError(t, svc.SetUserActive(context.Background(), admin, 4, false))

	err := svc.SetUserActive(context.Background(), admin, 40, true)
	assert.True(t, customError.HasCode(err, customError.ErrCodeNotFound))

	err = svc.SetUserActive(context.Background(), admin, 1, false)
	assert.True(t, customError.HasCode(err, customError.ErrCodeInvalidArgument))

	err = svc.SetUserActive(context.Background(), operator, 4, false)
	assert.True(t, customError.HasCode(err, customError.ErrCodeForbidden))
}

func TestListUsers(t *testing.T) {
	svc, repo := newUserService()
	repo.On("List", mock.Anything, 10, 10).Return([]*domain.User{{ID: 11}}, 11, nil)

	resp, err := svc.ListUsers(context.Background(), admin, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 11, resp.TotalCount)
	assert.Equal(t, 2, resp.Page)
}
