package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

// UserService is the user use-case surface the handlers need.
type UserService interface {
	ListAll(ctx context.Context) ([]types.User, error)
	GetByID(ctx context.Context, id int) (*types.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (types.User, error)
	Update(ctx context.Context, id int, req dto.UpdateUserRequest) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	ListByType(ctx context.Context, userType types.UserType) ([]types.User, error)
}

// ConnectionProber runs the database reachability query.
type ConnectionProber func(ctx context.Context) (string, error)

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	users    UserService
	probe    ConnectionProber
	validate *validation.Validator
	log      *zap.Logger
}

func NewUserHandler(users UserService, probe ConnectionProber, validate *validation.Validator, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, probe: probe, validate: validate, log: log}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users UserService, probe ConnectionProber, validate *validation.Validator, log *zap.Logger) {
	handler := NewUserHandler(users, probe, validate, log)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Get("/test-connection", handler.TestConnection)
	r.Get("/type/{type}", handler.ListUsersByType)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
	})
}

// DBProber adapts store.Ping to a ConnectionProber.
func DBProber(db *sql.DB) ConnectionProber {
	return func(ctx context.Context) (string, error) {
		return store.Ping(ctx, db)
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponses(users))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, userNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

func (h *UserHandler) ListUsersByType(w http.ResponseWriter, r *http.Request) {
	userType, err := types.ParseUserType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := h.users.ListByType(r.Context(), userType)
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponses(users))
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, duplicateEmail)
			return
		}
		writeInternalError(w, r, h.log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	updated, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, duplicateEmail)
			return
		}
		writeInternalError(w, r, h.log, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, userNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, userNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestConnection proves the database answers a trivial query.
func (h *UserHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	message, err := h.probe(r.Context())
	if err != nil {
		h.log.Warn("connection test failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.ConnectionTestResponse{
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

const duplicateEmail = "A user with this email already exists."

func userNotFound(id int) string {
	return fmt.Sprintf("User with ID %d not found.", id)
}
