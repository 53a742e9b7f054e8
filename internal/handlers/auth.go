package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/services"
	"github.com/zonetrack/apiserver/internal/throttle"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

const defaultTokenTTL = 24 * time.Hour

// Authenticator checks credentials and loads the token subject.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (types.User, error)
	GetByID(ctx context.Context, id int) (*types.User, error)
}

// LoginThrottle guards the login endpoint against guessing.
type LoginThrottle interface {
	Check(ctx context.Context, login string) error
	Fail(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
	Lockout() time.Duration
}

// AuthHandler provides JWT authentication endpoints.
type AuthHandler struct {
	users    Authenticator
	limiter  LoginThrottle
	secret   []byte
	tokenTTL time.Duration
	validate *validation.Validator
	log      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users Authenticator, limiter LoginThrottle, jwtSecret string, tokenTTL time.Duration, validate *validation.Validator, log *zap.Logger) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthHandler{
		users:    users,
		limiter:  limiter,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		validate: validate,
		log:      log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth enforces JWT authentication and injects the subject into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return requireAuth(h.secret)(next)
}

func requireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			subject, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Login verifies credentials and returns a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)

	if err := h.limiter.Check(r.Context(), email); err != nil {
		if errors.Is(err, throttle.ErrLocked) {
			w.Header().Set("Retry-After", strconv.Itoa(int(h.limiter.Lockout().Seconds())))
			writeError(w, http.StatusTooManyRequests, "too many failed login attempts")
			return
		}
		writeInternalError(w, r, h.log, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if ferr := h.limiter.Fail(r.Context(), email); ferr != nil {
				h.log.Warn("record failed login", zap.Error(ferr))
			}
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeInternalError(w, r, h.log, err)
		return
	}
	if err := h.limiter.Reset(r.Context(), email); err != nil {
		h.log.Warn("reset login attempts", zap.Error(err))
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: dto.NewUserResponse(user)})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  dto.UserResponse `json:"user"`
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
