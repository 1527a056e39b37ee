package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type principalKey struct{}

// WithPrincipal stores the authenticated actor in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the actor stored by AuthMiddleware. The zero Principal
// is returned for unauthenticated requests.
func PrincipalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey{}).(domain.Principal)
	return p
}

// AuthMiddleware verifies the bearer token and attaches its principal to the
// request context. Tokens must carry a subject and an Admin or Operator role.
func AuthMiddleware(cfg config.AuthConfig, clk clock.Clock) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clk.Now),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			claims := &domain.JwtCustomClaims{}
			token, err := parser.ParseWithClaims(strings.TrimSpace(tokenStr), claims, func(token *jwt.Token) (any, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				response.Unauthorized(w, "Invalid or expired JWT")
				return
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				response.Forbidden(w, "Access denied: insufficient permissions")
				return
			}

			p := domain.Principal{ID: claims.Subject, Role: role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

type AuthHandler struct {
	service   *service.UserService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewAuthHandler(service *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	resp, err := h.service.Login(r.Context(), &request)
	if err != nil {
		h.logger.Warn("Login failed", zap.String("email", request.Email))
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}
