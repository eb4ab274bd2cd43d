package user

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/validate"
)

// Handler exposes HTTP endpoints for user operations (register / login).
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRequest request body for register endpoint.
type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,maxbytes=72"`
}

func (RegisterRequest) FieldMessages() validate.Messages {
	return validate.Messages{
		"name":     "Name is required",
		"email":    "Please include a valid email",
		"password": "Please enter a password with 6 or more characters",

		"password.maxbytes": "Password must be at most 72 bytes",
	}
}

// RegisterResponse carries the new token and a role-inclusive message.
type RegisterResponse struct {
	Token string `json:"token"`
	Msg   string `json:"msg"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	res, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			apierror.Write(w, h.logger, apierror.Conflict("User already exists"))
			return
		}
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	h.logger.Infow("user registered", "user", res.User.ID, "role", res.User.Role)
	apierror.WriteJSON(w, http.StatusOK, RegisterResponse{
		Token: res.Token,
		Msg:   fmt.Sprintf("User registered successfully as %s", res.User.Role),
	})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) FieldMessages() validate.Messages {
	return validate.Messages{
		"email":    "Please include a valid email",
		"password": "Password is required",
	}
}

// LoginResponse carries the token only.
type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debugw("login failed", "err", err)
		switch {
		case errors.Is(err, ErrUnknownEmail):
			apierror.Write(w, h.logger, apierror.BadRequest("Invalid Credentials (Email)"))
		case errors.Is(err, ErrBadPassword):
			apierror.Write(w, h.logger, apierror.BadRequest("Invalid Credentials (Password)"))
		default:
			apierror.Write(w, h.logger, apierror.Internal(err))
		}
		return
	}
	apierror.WriteJSON(w, http.StatusOK, LoginResponse{Token: res.Token})
}
