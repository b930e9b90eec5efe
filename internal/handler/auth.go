package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/auth"
	"github.com/sakif/forum-backend/internal/service"
)

// UserHandler serves registration, login and user lookups.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, answer {id, token}
//   - HandleLogin    → check credentials, answer {id, token}
//   - HandleMe       → the caller's own {id, login} (behind RequireAuth)
//   - HandleGetUser  → any user's {id, login}
//
// Register and login are reached WITHOUT the auth gate: they are how a client
// gets a token in the first place.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// RegisterRequest is the body of register. The bounds apply to new accounts only.
type RegisterRequest struct {
	Login    string `json:"login"    validate:"required,min=3,max=40"`
	Password string `json:"password" validate:"required,min=3,max=40"`
}

// LoginRequest is the body of login. No length rules: any pair that does not
// match an account, however long or short, gets the same 401.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/users/register
// REQUEST BODY: {"login": "alice", "password": "hunter2"}
// RESPONSE:     201 {"id": 1, "token": "eyJ..."}
//
// A taken login answers 400, not the 409 other conflicts get: that is the
// contract existing clients of this endpoint rely on.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.Is(err, apperror.ErrConflict) && errors.As(err, &appErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Err: appErr.Message})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /api/users/login
// RESPONSE: 200 {"id": 1, "token": "eyJ..."}, or
//
//	401 {"err": "login or password is incorrect"}
//
// The 401 body is identical whether the login is unknown or the password is wrong.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleMe returns the user the bearer token belongs to.
//
// HTTP: GET /api/users/me (protected)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGetUser returns {id, login} for any user.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// callerID reads the authenticated user id that RequireAuth put on the
// request context. Routes that call it must be mounted behind the gate.
func callerID(r *http.Request) (int64, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperror.Unauthorized(auth.MessagePassToken)
	}
	return id, nil
}
