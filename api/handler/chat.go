package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/api/transport"
	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/services"
	"github.com/taskbuddy/backend/pkg/httpcontext"
	"github.com/taskbuddy/backend/repository"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
)

type ChatHandler struct {
	baseHandler
	uc     *chatUC.UseCase
	users  repository.UserRepository
	unread *services.UnreadRefresher
}

func NewChatHandler(uc *chatUC.UseCase, users repository.UserRepository, unread *services.UnreadRefresher, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		users:       users,
		unread:      unread,
	}
}

// GetConversation returns the log for a buddy+task thread and marks it
// read for the viewer, mirroring what opening the conversation does.
// @Summary Open a conversation
// @Tags chat
// @Router /api/v1/chat/{buddyId}/{taskId} [get]
func (h *ChatHandler) GetConversation(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	buddyID, _ := ctx.UserValue("buddyId").(string)
	taskID, _ := ctx.UserValue("taskId").(string)
	if buddyID == "" || taskID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing conversation ids"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	key := domain.ConversationKey(userID, buddyID, taskID)
	if err := h.uc.MarkRead(stdCtx, key, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	log, err := h.uc.Log(stdCtx, key)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, log)
}

// @Summary Post a message
// @Tags chat
// @Router /api/v1/chat [post]
func (h *ChatHandler) PostMessage(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.PostMessageRequest
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

	msg, err := h.uc.Post(stdCtx, chatUC.PostInput{
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: req.RecipientID,
		TaskID:      req.TaskID,
		TaskTitle:   req.TaskTitle,
		Text:        req.Text,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, msg)
}

// @Summary Unread counts per conversation
// @Tags chat
// @Router /api/v1/unread [get]
func (h *ChatHandler) GetUnread(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	counts, err := h.unread.Snapshot(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, counts)
}
