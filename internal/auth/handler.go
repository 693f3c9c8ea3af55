package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"
)

type LoginHandler struct {
	Auth   *Service
	Logger *slog.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sess, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.Logger.Error("login", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// Same answer for unknown user and wrong password.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
		return
	}
	h.Logger.Info("login", "user", sess.Username, "role", sess.Role)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Token:       sess.Token,
		Username:    sess.Username,
		Role:        sess.Role,
		DisplayName: sess.DisplayName,
	})
}

type LogoutHandler struct {
	Sessions *SessionStore
	Logger   *slog.Logger
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	token, username := carrier(r)
	if token != "" {
		h.Sessions.Logout(token)
		h.Logger.Info("logout", "user", username)
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionHandler answers the reload probe: it validates (and thereby
// refreshes) the presented session and returns the caller's identity.
type SessionHandler struct {
	Logger *slog.Logger
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"username":     sess.Username,
		"role":         sess.Role,
		"display_name": sess.DisplayName,
		"can_upload":   sess.Role.CanUpload(),
	})
}
