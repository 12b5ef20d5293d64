package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/respond"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/validate"
)

// Handler exposes HTTP endpoints for account operations (register / login).
// A successful call issues a production-family session token so the caller
// is authenticated from there on.
type Handler struct {
	svc    *UserService
	tokens *auth.TokenService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// RegisterRules and LoginRules are evaluated by the router's validation
// stage before this package's handlers run.
var RegisterRules = []validate.Rule{
	{Field: "username", Message: "Username is required and must be at least 5 characters long", Check: validate.MinLen(5)},
	{Field: "password", Message: "Password is required and must be at least 8 characters long", Check: validate.MinLen(8)},
	{Field: "email", Message: "Email is required and must be a valid email address", Check: validate.Email},
}

var LoginRules = []validate.Rule{
	{Field: "username", Message: "Username is required and must be at least 5 characters long", Check: validate.MinLen(5)},
	{Field: "password", Message: "Password is required and must be at least 8 characters long", Check: validate.MinLen(8)},
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		respond.Message(w, http.StatusBadRequest, "Could not register")
		return
	}
	id, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			respond.Message(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Warnw("register failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	token, err := h.tokens.Issue(strconv.FormatInt(id, 10))
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, "Could not register")
		return
	}
	respond.Write(w, http.StatusCreated, respond.Envelope{Message: "User registered", Token: token})
}

// LoginRequest request body for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		respond.Message(w, http.StatusBadRequest, "Could not login")
		return
	}
	id, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			respond.Message(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Warnw("login failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	token, err := h.tokens.Issue(strconv.FormatInt(id, 10))
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, "Could not login")
		return
	}
	respond.Write(w, http.StatusOK, respond.Envelope{Message: "User logged in", Token: token})
}
