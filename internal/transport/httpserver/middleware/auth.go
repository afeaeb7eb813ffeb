package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tutormatch-go/internal/config"
	"tutormatch-go/internal/domain/identity"
	"tutormatch-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const callerKey contextKey = iota

// JWTAuth issues and verifies the HS256 tokens carrying the caller id and
// role. With SkipAuth set it injects a mock caller instead, for local
// development and in-process tests.
type JWTAuth struct {
	secret     []byte
	ttl        time.Duration
	skipAuth   bool
	mockCaller identity.Caller
	log        logger.Logger
}

func NewJWTAuth(cfg config.AuthConfig, log logger.Logger) *JWTAuth {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
		skipAuth: cfg.SkipAuth,
		mockCaller: identity.Caller{
			ID:   strings.TrimSpace(cfg.MockCallerID),
			Role: identity.Role(strings.TrimSpace(cfg.MockCallerRole)),
		},
		log: log,
	}
}

func (a *JWTAuth) IssueToken(member *identity.Member) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  member.ID,
		"role": string(member.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(a.ttl).Unix(),
	})
	return token.SignedString(a.secret)
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockCaller.ID == "" || !a.mockCaller.Role.Valid() {
				writeAuthError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock caller not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), a.mockCaller)))
			return
		}

		if len(a.secret) == 0 {
			writeAuthError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		tokenString, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		caller, err := a.parseToken(tokenString)
		if err != nil {
			a.log.Debug("auth: token rejected", "err", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func (a *JWTAuth) parseToken(tokenString string) (identity.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return identity.Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return identity.Caller{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	caller := identity.Caller{ID: sub, Role: identity.Role(role)}
	if caller.ID == "" || !caller.Role.Valid() {
		return identity.Caller{}, errors.New("incomplete claims")
	}
	return caller, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (identity.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(identity.Caller)
	if !ok || caller.ID == "" {
		return identity.Caller{}, false
	}
	return caller, true
}

func unauthorized(w http.ResponseWriter) {
	writeAuthError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
