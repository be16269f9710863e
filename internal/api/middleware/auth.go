package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sirupsen/logrus"

	"message_wall/internal/common"
	"message_wall/internal/common/security"
	"message_wall/internal/domain/model"
)

type contextKey string

const UserCtxKey contextKey = "user"

var (
	ErrTokenMissing    = fmt.Errorf("authorization token required: %w", common.ErrUnauthorized)
	ErrTokenInvalid    = fmt.Errorf("invalid or expired token: %w", common.ErrUnauthorized)
	ErrUserNotExist    = fmt.Errorf("user does not exist: %w", common.ErrUnauthorized)
	ErrAccountDisabled = fmt.Errorf("account is disabled: %w", common.ErrUnauthorized)
	ErrNotAdmin        = fmt.Errorf("admin access required: %w", common.ErrForbidden)
)

// UserFinder resolves a token subject to a stored account.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// Guard authenticates requests by bearer token and gates admin routes.
type Guard struct {
	tokens *security.TokenService
	users  UserFinder
	log    logrus.FieldLogger
}

func NewGuard(tokens *security.TokenService, users UserFinder, log logrus.FieldLogger) *Guard {
	return &Guard{tokens: tokens, users: users, log: log}
}

// Authenticate returns the active account behind the request's bearer token.
func (g *Guard) Authenticate(r *http.Request) (*model.User, error) {
	raw := jwtauth.TokenFromHeader(r)
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims, ok := g.tokens.Verify(raw)
	if !ok {
		return nil, ErrTokenInvalid
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUserNotExist
	}
	user, err := g.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// AuthenticateAdmin is Authenticate followed by a role check.
func (g *Guard) AuthenticateAdmin(r *http.Request) (*model.User, error) {
	user, err := g.Authenticate(r)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return user, nil
}

func (g *Guard) RequireUser(next http.Handler) http.Handler {
	return g.require(g.Authenticate, next)
}

func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.require(g.AuthenticateAdmin, next)
}

func (g *Guard) require(authenticate func(*http.Request) (*model.User, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticate(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatusFromError(err)
	entry := g.log.WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
		entry.WithError(err).Debug("request not authenticated")
	case http.StatusForbidden:
		entry.WithError(err).Info("request forbidden")
	default:
		entry.WithError(err).Error("authentication lookup failed")
	}
	common.RespondWithDomainError(w, err)
}

// UserFromContext returns the account RequireUser or RequireAdmin attached.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok
}
