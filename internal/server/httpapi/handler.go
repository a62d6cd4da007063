// Package httpapi exposes the session lifecycle over HTTP. Handlers decode
// JSON intents, delegate to the session service, and translate the sentinel
// errors into status codes; no business rules live here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/dberzins/authsvc/internal/common"
	"github.com/dberzins/authsvc/internal/logging"
	"github.com/dberzins/authsvc/internal/server/auth"
	"github.com/dberzins/authsvc/internal/server/models"
	"github.com/dberzins/authsvc/internal/server/services"
)

const maxJSONBodyBytes = 1 << 20

// sessionService is the surface of services.SessionService the handlers use.
type sessionService interface {
	Register(ctx context.Context, email string, password string) (*models.User, error)
	Login(ctx context.Context, email string, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	WhoAmI(claims *auth.Claims) string
}

type Handler struct {
	sessions sessionService
	issuer   *auth.TokenIssuer
	logger   logging.Logger
}

func NewHandler(sessions sessionService, issuer *auth.TokenIssuer, logger logging.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		issuer:   issuer,
		logger:   logger.With("module", "httpapi"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.sessions.Register(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			writeError(w, http.StatusConflict, "email already exists")
			return
		}
		h.internalError(r, w, "registration failed", err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "user registered"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	pair, err := h.sessions.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.internalError(r, w, "login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshTokenRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredToken) {
			writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.internalError(r, w, "refresh failed", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	var body refreshTokenRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := h.sessions.Revoke(r.Context(), body.RefreshToken); err != nil {
		if errors.Is(err, common.ErrTokenNotFound) {
			writeError(w, http.StatusNotFound, "refresh token not found")
			return
		}
		h.internalError(r, w, "revoke failed", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "token revoked"})
}

// Me answers with the identity of the verified caller. The claims were
// placed on the context by RequireAccessToken; there is no store access.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": h.sessions.WhoAmI(claims)})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) internalError(r *http.Request, w http.ResponseWriter, msg string, err error) {
	h.logger.Error(r.Context(), msg, "error", err.Error())
	sentry.CaptureException(err)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
