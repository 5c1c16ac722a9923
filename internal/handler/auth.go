package handler

import (
	"log/slog"
	"net/http"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

// AuthHandler handles HTTP requests for account registration and recovery.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleVerifyEmail handles GET /api/auth/verify-email?token= requests.
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "Email verified successfully", User: user})
}

// HandleManualVerifyEmail handles POST /api/auth/verify-email requests. It is
// a testing shortcut and answers 404 in release builds.
func (h *AuthHandler) HandleManualVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if !verificationBypassCompiled {
		writeJSON(w, http.StatusNotFound, errorResponse(service.ErrBypassDisabled.Error()))
		return
	}

	var req model.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.ManualVerifyEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "Email manually verified for testing", User: user})
}

// HandleForgotPassword handles POST /api/auth/forgot-password requests.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleResetPassword handles POST /api/auth/reset-password requests.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.ResetPassword(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "Password reset successfully", User: user})
}
