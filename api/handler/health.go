package handler

import (
	"net/http"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	records *recordstore.BoltStore
	redis   *redislib.Client
}

func NewHealthHandler(records *recordstore.BoltStore, redis *redislib.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		records:     records,
		redis:       redis,
	}
}

// @Summary Health check
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status := map[string]interface{}{
		"records": h.records != nil,
		"time":    time.Now().Format(time.RFC3339),
	}
	if h.records != nil {
		status["record_txs"] = h.records.Stats().TxN
	}
	if h.redis != nil {
		status["notify_outbox"] = h.redis.Ping(stdCtx).Err() == nil
	}

	h.respondSuccess(ctx, http.StatusOK, status)
}
