package http

import (
	"log/slog"
	"net/http"

	"github.com/asqwklop12/sparta/internal/service"
	"github.com/asqwklop12/sparta/pkg/httputil"
	"github.com/asqwklop12/sparta/pkg/validator"
)

// UserHandler handles sign-up and login.
type UserHandler struct {
	service UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// SignupRequest is the JSON request body for sign-up.
type SignupRequest struct {
	Username   string `json:"username" validate:"required,min=4,max=10,lowercase,alphanum"`
	Password   string `json:"password" validate:"required,min=8,max=15"`
	Email      string `json:"email" validate:"required,email"`
	Admin      bool   `json:"admin"`
	AdminToken string `json:"adminToken"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	User        UserResponse `json:"user"`
}

// Signup handles POST /api/user/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.Signup(r.Context(), &service.SignupInput{
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		Admin:      req.Admin,
		AdminToken: req.AdminToken,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, newUserResponse(user))
}

// Login handles POST /api/user/login. The token is also returned in the
// Authorization header.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Authorization", "Bearer "+res.AccessToken)
	httputil.WriteData(w, http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		User:        newUserResponse(res.User),
	})
}
