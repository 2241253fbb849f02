package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/api/transport"
	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/pkg/httpcontext"
	"github.com/taskbuddy/backend/repository"
)

type UserHandler struct {
	baseHandler
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		users:       users,
	}
}

// CreateUser registers a directory entry. Authentication lives outside
// this service; the directory only exists so matching and request
// resolution can find people.
// @Summary Register a user
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(ctx *fasthttp.RequestCtx) {
	var req transport.CreateUserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "name and email are required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user := &domain.User{
		ID:    req.ID,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if existing, err := h.users.GetByEmail(stdCtx, user.Email); err == nil && existing != nil {
		h.respondJSON(ctx, http.StatusConflict, transport.NewError(string(domain.ErrCodeConflict), "email already registered"))
		return
	}
	if err := h.users.Save(stdCtx, user); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}
