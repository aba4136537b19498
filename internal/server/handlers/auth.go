package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/server/middleware"
	"github.com/avolkov/sadhana-tracker/internal/server/response"
	"github.com/avolkov/sadhana-tracker/internal/service"
	"github.com/google/uuid"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService *service.AuthService
	refreshTTL  time.Duration
}

func NewAuthHandler(authService *service.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, refreshTTL: refreshTTL}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password are required")
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			response.Error(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.JSON(w, http.StatusCreated, AuthResponse{
		User:        UserResponse{ID: result.User.ID.String(), Email: result.User.Email},
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.JSON(w, http.StatusOK, AuthResponse{
		User:        UserResponse{ID: result.User.ID.String(), Email: result.User.Email},
		AccessToken: result.AccessToken,
	})
}

// Refresh exchanges the refresh cookie for a new access token and rotates
// the cookie. 401 here is terminal for the client's session; anything else
// the client treats as transient.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "NOT_AUTHORIZED", "Missing refresh credential")
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrAuthDenied) {
			h.clearRefreshCookie(w)
			response.Error(w, http.StatusUnauthorized, "NOT_AUTHORIZED", "Refresh credential rejected")
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.JSON(w, http.StatusOK, RefreshResponse{AccessToken: result.AccessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "NOT_AUTHORIZED", "Unauthorized")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "NOT_AUTHORIZED", "Invalid token claims")
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	h.clearRefreshCookie(w)
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
