package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	tokens   TokenCodec
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, tokens TokenCodec) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:      serviceLog,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (as *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, apierr.InvalidLogin()
	}

	users, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return "", nil, apierr.Store(err)
	}
	if len(users) != 1 || !passwordMatches(users[0].Password, password) {
		as.log.Info("Login rejected", "username", username)
		return "", nil, apierr.InvalidLogin()
	}

	user := users[0]
	token, err := as.tokens.Sign(user.Claims())
	if err != nil {
		as.log.Error("Failed to sign token", "error", err)
		return "", nil, apierr.New(http.StatusOK, apierr.CodeInternal, errors.New("An unexpected error occurred."))
	}
	return token, user, nil
}

// SetContextFromToken verifies the token and attaches its claims to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.AccessDenied()
	}
	claims, err := as.tokens.Decode(tokenString)
	if err != nil {
		as.log.Debug("Rejected bearer token", "error", err)
		return ctx, apierr.AccessDenied()
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		Claims:      *claims,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

// HashPassword returns the bcrypt hash stored in Users.password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// passwordMatches accepts bcrypt hashes and legacy plaintext rows.
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
