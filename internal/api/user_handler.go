package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/service"
)

// UserHandler handles account-related HTTP requests.
type UserHandler struct {
	users   service.UserService
	uploads *Uploader
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, uploads *Uploader, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:   users,
		uploads: uploads,
		logger:  logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UsersResponse{Users: views})
}

// SignUp handles POST /users/signup. The body is JSON or multipart with an optional image.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignupRequest
	img, cleanup, err := h.uploads.Decode(w, r, &req)
	defer cleanup()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	req.normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	imageRef, err := h.uploads.Store(ctx, img)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.users.SignUp(ctx, service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		ImageRef: imageRef,
	})
	if err != nil {
		h.uploads.Discard(ctx, imageRef)
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID: result.UserID,
		Email:  result.Email,
		Token:  result.Token,
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	req.normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidInputs(err))
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: result.UserID,
		Email:  result.Email,
		Token:  result.Token,
	})
}
