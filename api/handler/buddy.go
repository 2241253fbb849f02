package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/api/transport"
	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/pkg/httpcontext"
	"github.com/taskbuddy/backend/repository"
	matchUC "github.com/taskbuddy/backend/usecase/match"
)

type BuddyHandler struct {
	baseHandler
	uc    *matchUC.UseCase
	users repository.UserRepository
}

func NewBuddyHandler(uc *matchUC.UseCase, users repository.UserRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *BuddyHandler {
	return &BuddyHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		users:       users,
	}
}

// @Summary List buddy relations
// @Tags buddies
// @Router /api/v1/buddies [get]
func (h *BuddyHandler) GetBuddies(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	relations, err := h.uc.Relations(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, relations)
}

// @Summary Assign a random buddy to an unpaired user
// @Tags buddies
// @Router /api/v1/buddies/ensure [post]
func (h *BuddyHandler) EnsurePaired(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.users.GetByID(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	relation, err := h.uc.EnsurePaired(stdCtx, user)
	if err != nil {
		// An empty pool is informational, not a failure; the client
		// retries on a later poll.
		if domain.IsDomainError(err, domain.ErrCodeNoCandidate) {
			h.respondJSON(ctx, http.StatusOK, transport.NewInfo(string(domain.ErrCodeNoCandidate), err.Error()))
			return
		}
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, relation)
}

// @Summary Send a buddy request by email
// @Tags buddies
// @Router /api/v1/buddies/requests [post]
func (h *BuddyHandler) SendRequest(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.BuddyRequestSend
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sender, err := h.users.GetByID(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	request, err := h.uc.SendRequest(stdCtx, sender, req.Email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, request)
}

// @Summary List buddy requests
// @Tags buddies
// @Router /api/v1/buddies/requests [get]
func (h *BuddyHandler) GetRequests(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	requests, err := h.uc.Requests(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, requests)
}

// @Summary Accept or reject a buddy request
// @Tags buddies
// @Router /api/v1/buddies/requests/{id} [put]
func (h *BuddyHandler) RespondRequest(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	requestID, _ := ctx.UserValue("id").(string)
	if requestID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing request id"))
		return
	}

	var req transport.BuddyRequestRespond
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	relation, err := h.uc.Respond(stdCtx, userID, requestID, req.Accept)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, relation)
}

// @Summary Remove a buddy relation from both sides
// @Tags buddies
// @Router /api/v1/buddies/{id} [delete]
func (h *BuddyHandler) RemoveBuddy(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	buddyID, _ := ctx.UserValue("id").(string)
	if buddyID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing buddy id"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RemoveBuddy(stdCtx, userID, buddyID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
