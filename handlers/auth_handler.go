package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"invoicepro/repository"
	"invoicepro/session"
)

type AuthHandler struct {
	Session *session.Manager
	Logger  *slog.Logger
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string        `json:"token"`
	State session.State `json:"session"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.Session.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, repository.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already exists")
		return
	}
	if err != nil {
		h.Logger.Error("signup failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "User signed up successfully",
		Data:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := h.Session.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.Logger.Error("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Login successful",
		Data:    loginResponse{Token: st.Token, State: st},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.SignOut()
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Signed out"})
}

// RequireAuth rejects requests without the current session's bearer token.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Please sign in to upload to Drive.")
			return
		}
		if _, err := h.Session.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "Please sign in to upload to Drive.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
