package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

const (
	cookieSessionID     = "session_id"
	cookieSessionSecret = "session_secret"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account. Public registration only yields
// owner or provider accounts; admin accounts are created through the admin
// API by an existing admin.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	role := types.RoleOwner
	if req.Role != "" {
		role = types.Role(strings.ToLower(req.Role))
		if role == types.RoleAdmin {
			writeError(r.Context(), w, goerr.New("admin accounts cannot be self-registered"), http.StatusForbidden)
			return
		}
		if !role.IsValid() {
			writeError(r.Context(), w, goerr.New("invalid role"), http.StatusBadRequest)
			return
		}
	}

	user, err := h.authUC.Register(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, model.ErrEmailTaken) {
			status = http.StatusConflict
		}
		writeError(r.Context(), w, err, status)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and sets session cookies
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	session, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ctxlog.From(r.Context()).Debug("Login failed", "error", err, "email", req.Email)
		// Uniform message so credentials cannot be probed
		writeError(r.Context(), w, goerr.New("invalid email or password"), http.StatusUnauthorized)
		return
	}

	h.setSessionCookies(w, r, session)
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"user_id":    session.UserID.String(),
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

// HandleLogout deletes the session and clears cookies
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieSessionID); err == nil {
		if err := h.authUC.DeleteSession(r.Context(), cookie.Value); err != nil {
			ctxlog.From(r.Context()).Debug("Failed to delete session", "error", err)
		}
	}

	h.clearSessionCookies(w, r)
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "logged out"})
}

// HandleUserMe returns the authenticated user
func (h *AuthHandler) HandleUserMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, r *http.Request, session *model.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	secure := !isLocalhost(r)

	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionID,
		Value:    session.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionSecret,
		Value:    session.Secret.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	secure := !isLocalhost(r)
	for _, name := range []string{cookieSessionID, cookieSessionSecret} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// isLocalhost checks if the request is from localhost (development)
func isLocalhost(r *http.Request) bool {
	host := r.Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host == "localhost" || host == "127.0.0.1"
}
