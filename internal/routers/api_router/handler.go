// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/middleware"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"

	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
	WSS *pkgapp.WebsocketServer
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// NewHandlerWithWSS 创建带 WebSocket 服务的 Handler 实例
func NewHandlerWithWSS(a *app.App, wss *pkgapp.WebsocketServer) *Handler {
	return &Handler{App: a, WSS: wss}
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", middleware.GetTraceID(ctx)),
	)
}

// pushToUser 将变更推送到该用户的其他在线会话
// 推送经 Worker Pool 异步执行，池满或已关闭时降级为同步推送
// WSS 未注入时静默跳过
func (h *Handler) pushToUser(uid int64, action string, data any) {
	if h.WSS == nil {
		return
	}

	err := h.App.SubmitTaskAsync(context.Background(), func(ctx context.Context) error {
		h.WSS.PushToUser(uid, action, data)
		return nil
	})
	if err != nil {
		h.App.Logger().Warn("Handler.pushToUser.SubmitTaskAsync", zap.Error(err))
		h.WSS.PushToUser(uid, action, data)
	}
}
