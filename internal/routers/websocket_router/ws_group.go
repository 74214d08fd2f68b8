package websocket_router

import (
	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// GroupWSHandler WebSocket 分组处理器
type GroupWSHandler struct {
	*WSHandler
}

// NewGroupWSHandler 创建 GroupWSHandler 实例
func NewGroupWSHandler(a *app.App) *GroupWSHandler {
	return &GroupWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// GroupModify 处理分组创建或重命名消息
func (h *GroupWSHandler) GroupModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.GroupModifyOrCreateRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	isNew, group, err := h.App.GroupService.ModifyOrCreate(ctx, c.User.UID, params)
	if err != nil {
		h.respondCodeError(c, code.ErrorGroupUpdateFailed, err, "websocket_router.group.GroupModify")
		return
	}

	h.logInfo(c, "GroupModify",
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String("groupId", group.ID),
		zap.Bool("isNew", isNew))

	c.ToResponse(code.Success.WithData(group), dto.GroupModify)
	c.BroadcastResponse(code.Success.WithData(group), true, dto.GroupModify)
}

// GroupSetNotes 整体覆盖分组的笔记集合
// 笔记侧引用按差异同步，部分失败时分组已写入，错误码带回客户端但仍然广播
func (h *GroupWSHandler) GroupSetNotes(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.GroupSetNotesRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	group, err := h.App.GroupService.SetNotes(ctx, c.User.UID, params)
	if err != nil {
		if group == nil {
			h.respondCodeError(c, code.ErrorGroupUpdateFailed, err, "websocket_router.group.GroupSetNotes")
			return
		}
		// 引用部分失败，分组已落库，错误码带回发起方，其他会话照常广播
		h.logWarn(c, "websocket_router.group.GroupSetNotes.RefSync", zap.Error(err))
		c.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(group), dto.GroupModify)
		c.BroadcastResponse(code.Success.WithData(group), true, dto.GroupModify)
		return
	}

	c.ToResponse(code.Success.WithData(group), dto.GroupModify)
	c.BroadcastResponse(code.Success.WithData(group), true, dto.GroupModify)
}

// GroupDelete 处理分组删除消息，笔记不随分组删除
func (h *GroupWSHandler) GroupDelete(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.GroupDeleteRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	group, err := h.App.GroupService.Delete(ctx, c.User.UID, params)
	if err != nil {
		if group == nil {
			h.respondCodeError(c, code.ErrorGroupDeleteFailed, err, "websocket_router.group.GroupDelete")
			return
		}
		// 级联清理部分失败，分组已删除，错误码带回发起方，其他会话照常广播
		h.logWarn(c, "websocket_router.group.GroupDelete.RefSync", zap.Error(err))
		c.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(group), dto.GroupDelete)
		c.BroadcastResponse(code.Success.WithData(group), true, dto.GroupDelete)
		return
	}

	h.logInfo(c, "GroupDelete",
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String("groupId", params.ID))

	c.ToResponse(code.Success.WithData(group), dto.GroupDelete)
	c.BroadcastResponse(code.Success.WithData(group), true, dto.GroupDelete)
}

// GroupSync 增量同步，逐条下发变更分组，以 GroupSyncEnd 结束
func (h *GroupWSHandler) GroupSync(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.GroupSyncRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	groups, err := h.App.GroupService.Sync(ctx, c.User.UID, params)
	if err != nil {
		h.respondCodeError(c, code.ErrorDBQuery, err, "websocket_router.group.GroupSync")
		return
	}

	lastTime := params.LastTime
	for _, group := range groups {
		if group.UpdatedTimestamp > lastTime {
			lastTime = group.UpdatedTimestamp
		}
		c.ToResponse(code.Success.WithData(group), dto.GroupModify)
	}

	c.ToResponse(code.Success.WithData(dto.SyncEndDTO{
		LastTime: lastTime,
		Count:    len(groups),
	}), dto.GroupSyncEnd)
}
