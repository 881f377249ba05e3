package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/banglish/backend/internal/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

var (
	errNoToken      = errors.New("missing authorization header")
	errBadHeader    = errors.New("malformed authorization header")
	errInvalidToken = errors.New("invalid token")
	errBadClaims    = errors.New("invalid token claims")
)

var authMessages = map[error]string{
	errNoToken:      "Authorization header required",
	errBadHeader:    "Invalid authorization header format",
	errInvalidToken: "Invalid or expired token",
	errBadClaims:    "Invalid user ID in token",
}

// JWTAuth middleware validates JWT tokens
func JWTAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := authenticate(r, jwtSecret)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(authMessages[err]))
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, role)))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets anonymous requests through. A malformed or expired token is still
// rejected.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := authenticate(r, jwtSecret)
			switch {
			case errors.Is(err, errNoToken):
				next.ServeHTTP(w, r)
			case err != nil:
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(authMessages[err]))
			default:
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, role)))
			}
		})
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
			return
		}
		if GetRole(r.Context()) != models.RoleAdmin {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetRole(ctx context.Context) models.Role {
	role, ok := ctx.Value(RoleKey).(models.Role)
	if !ok {
		return ""
	}
	return role
}

func withIdentity(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

func authenticate(r *http.Request, jwtSecret string) (string, models.Role, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", errNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", errBadHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errBadClaims
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", errBadClaims
	}

	role := models.RoleUser
	if r, ok := claims["role"].(string); ok && models.Role(r) == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return userID, role, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
