package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/databases"
)

// TokenTTL is how long an issued access token stays valid
const TokenTTL = 24 * time.Hour

// MiddlewareDB holds what the auth middleware needs to validate callers
type MiddlewareDB struct {
	DB     databases.AccountDatabase
	Secret []byte
}

// Claims is the payload of an access token
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var (
	authenticator auth.Authenticator
	cache         store.Cache

	revokedMu sync.Mutex
	revoked   = map[string]time.Time{}
)

// Middleware adds some basic header authentication around accessing the routes
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("user %s authenticated", user.UserName())
		next.ServeHTTP(w, r)
	})
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), TokenTTL)
	basicStrategy := basic.New(m.ValidateUser, cache)
	tokenStrategy := bearer.New(m.ValidateToken, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// CreateToken issues a signed access token for the basic-auth caller
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, _, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	account, err := m.DB.FindByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "failed to get account by email", http.StatusUnauthorized)
		return
	}

	token, err := m.Sign(account.UserID, string(account.Role), account.Email, time.Now())
	if err != nil {
		zap.S().Errorw("failed to sign token", "userId", account.UserID, "error", err)
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}

	responseBody, err := json.Marshal(map[string]string{
		"token":  token,
		"userId": account.UserID,
		"role":   string(account.Role),
	})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseBody)
}

// Sign returns an HS256 access token for the given account
func (m MiddlewareDB) Sign(userID, role, email string, now time.Time) (string, error) {
	if len(m.Secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	claims := Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

// ValidateUser validates a basic-auth email and password pair
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	usernameHash := sha256.Sum256([]byte(strings.ToLower(email)))

	account, err := m.DB.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, fmt.Errorf("no matching email found")
		}
		return nil, fmt.Errorf("failed to get account by email")
	}

	expectedUsernameHash := sha256.Sum256([]byte(account.Email))
	usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1

	if !account.ComparePassword(password) {
		return nil, fmt.Errorf("failed to compare password")
	}
	if usernameMatch {
		return auth.NewDefaultUser(account.Email, account.UserID, []string{string(account.Role)}, nil), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

// ValidateToken verifies a bearer token's signature, expiry and revocation state
func (m MiddlewareDB) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	claims, err := m.Parse(token)
	if err != nil {
		return nil, err
	}
	return auth.NewDefaultUser(claims.Email, claims.Subject, []string{claims.Role}, nil), nil
}

// Parse verifies token and returns its claims
func (m MiddlewareDB) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if isRevoked(claims.ID) {
		return nil, fmt.Errorf("token revoked")
	}
	return claims, nil
}

// RevokeToken revokes the caller's bearer token
func (m MiddlewareDB) RevokeToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	reqToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || reqToken == "" {
		http.Error(w, "missing bearer token", http.StatusBadRequest)
		return
	}

	if claims, err := m.Parse(reqToken); err == nil && claims.ExpiresAt != nil {
		revoke(claims.ID, claims.ExpiresAt.Time)
	}
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	w.Write([]byte(`{"message": "token revoked"}`))
}

func revoke(id string, until time.Time) {
	revokedMu.Lock()
	defer revokedMu.Unlock()
	now := time.Now()
	for k, exp := range revoked {
		if exp.Before(now) {
			delete(revoked, k)
		}
	}
	revoked[id] = until
}

func isRevoked(id string) bool {
	revokedMu.Lock()
	defer revokedMu.Unlock()
	_, ok := revoked[id]
	return ok
}
