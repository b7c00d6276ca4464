// Package server verifies identity tokens on the /auth endpoint. This is a
// pass-through boundary: the hub never consumes the verified record, since
// connection identity always comes from the name allocator.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserRecord is the verified identity returned by the auth endpoint.
type UserRecord struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// AuthHandler verifies the bearer token in the Authorization header and
// responds with the embedded user record, or 401 on any verification
// failure. With no AUTH_SECRET configured the endpoint is disabled.
func (rt *Router) AuthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if rt.cfg.AuthSecret == "" {
		http.Error(w, "Authentication is not configured", http.StatusServiceUnavailable)
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	record, err := verifyToken(token, []byte(rt.cfg.AuthSecret))
	if err != nil {
		rt.log.Warn("token verification failed", zap.Error(err))
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		rt.log.Warn("error writing auth response", zap.Error(err))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

// verifyToken parses and validates an HMAC-signed JWT and extracts the user
// record from its claims.
func verifyToken(token string, secret []byte) (*UserRecord, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("claims type mismatch")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	record := &UserRecord{ID: sub}
	if name, ok := claims["name"].(string); ok {
		record.Name = name
	}
	return record, nil
}
