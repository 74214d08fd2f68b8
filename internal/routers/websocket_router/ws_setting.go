package websocket_router

import (
	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// SettingWSHandler WebSocket 设置处理器
type SettingWSHandler struct {
	*WSHandler
}

// NewSettingWSHandler 创建 SettingWSHandler 实例
func NewSettingWSHandler(a *app.App) *SettingWSHandler {
	return &SettingWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// SettingModify 处理设置写入消息
func (h *SettingWSHandler) SettingModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.SettingModifyRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	setting, err := h.App.SettingService.Modify(ctx, c.User.UID, params)
	if err != nil {
		h.respondCodeError(c, code.ErrorSettingSaveFailed, err, "websocket_router.setting.SettingModify")
		return
	}

	h.logInfo(c, "SettingModify",
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String("key", setting.Key))

	c.ToResponse(code.Success.WithData(setting), dto.SettingModify)
	c.BroadcastResponse(code.Success.WithData(setting), true, dto.SettingModify)
}

// SettingSync 增量同步，逐条下发变更设置，以 SettingSyncEnd 结束
func (h *SettingWSHandler) SettingSync(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.SettingSyncRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	settings, err := h.App.SettingService.Sync(ctx, c.User.UID, params)
	if err != nil {
		h.respondCodeError(c, code.ErrorSettingQueryFailed, err, "websocket_router.setting.SettingSync")
		return
	}

	lastTime := params.LastTime
	for _, setting := range settings {
		if setting.UpdatedTimestamp > lastTime {
			lastTime = setting.UpdatedTimestamp
		}
		c.ToResponse(code.Success.WithData(setting), dto.SettingModify)
	}

	c.ToResponse(code.Success.WithData(dto.SyncEndDTO{
		LastTime: lastTime,
		Count:    len(settings),
	}), dto.SettingSyncEnd)
}
