package websocket_router

import (
	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// NoteWSHandler WebSocket note handler
// NoteWSHandler WebSocket 笔记处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type NoteWSHandler struct {
	*WSHandler
}

// NewNoteWSHandler creates NoteWSHandler instance
// NewNoteWSHandler 创建 NoteWSHandler 实例
func NewNoteWSHandler(a *app.App) *NoteWSHandler {
	return &NoteWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// NoteModify handles note creation or modification messages
// 处理客户端发送的笔记创建或修改消息，校验参数、写库并广播给该用户的其他在线会话
// 分组引用部分失败时笔记本身已写入，错误码带回客户端但仍然广播
func (h *NoteWSHandler) NoteModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteModifyOrCreateRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	isNew, note, err := h.App.NoteService.ModifyOrCreate(ctx, c.User.UID, params)
	if err != nil {
		if note == nil {
			h.respondCodeError(c, code.ErrorNoteUpdateFailed, err, "websocket_router.note.NoteModify")
			return
		}
		// 引用部分失败，笔记已落库，错误码带回发起方，其他会话照常广播
		h.logWarn(c, "websocket_router.note.NoteModify.RefSync", zap.Error(err))
		c.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(note), dto.NoteModify)
		c.BroadcastResponse(code.Success.WithData(note), true, dto.NoteModify)
		return
	}

	h.logInfo(c, "NoteModify",
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String("noteId", note.ID),
		zap.Bool("isNew", isNew))

	c.ToResponse(code.Success.WithData(note), dto.NoteModify)
	c.BroadcastResponse(code.Success.WithData(note), true, dto.NoteModify)
}

// NoteDelete 处理笔记删除消息，级联清理分组引用并取消提醒
func (h *NoteWSHandler) NoteDelete(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteDeleteRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	note, err := h.App.NoteService.Delete(ctx, c.User.UID, params)
	if err != nil {
		if note == nil {
			h.respondCodeError(c, code.ErrorNoteDeleteFailed, err, "websocket_router.note.NoteDelete")
			return
		}
		// 级联清理部分失败，笔记已删除，错误码带回发起方，其他会话照常广播
		h.logWarn(c, "websocket_router.note.NoteDelete.RefSync", zap.Error(err))
		c.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(note), dto.NoteDelete)
		c.BroadcastResponse(code.Success.WithData(note), true, dto.NoteDelete)
		return
	}

	h.logInfo(c, "NoteDelete",
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String("noteId", params.ID))

	c.ToResponse(code.Success.WithData(note), dto.NoteDelete)
	c.BroadcastResponse(code.Success.WithData(note), true, dto.NoteDelete)
}

// NoteSync 增量同步
// 逐条下发 lastTime 之后变更的笔记，最后以 NoteSyncEnd 结束
func (h *NoteWSHandler) NoteSync(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteSyncRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Context()

	notes, err := h.App.NoteService.Sync(ctx, c.User.UID, params)
	if err != nil {
		h.respondCodeError(c, code.ErrorDBQuery, err, "websocket_router.note.NoteSync")
		return
	}

	lastTime := params.LastTime
	for _, note := range notes {
		if note.UpdatedTimestamp > lastTime {
			lastTime = note.UpdatedTimestamp
		}
		c.ToResponse(code.Success.WithData(note), dto.NoteModify)
	}

	c.ToResponse(code.Success.WithData(dto.SyncEndDTO{
		LastTime: lastTime,
		Count:    len(notes),
	}), dto.NoteSyncEnd)
}

// UserInfo 连接鉴权回调，校验用户存在并返回昵称
func (h *NoteWSHandler) UserInfo(c *pkgapp.WebsocketClient, uid int64) (string, error) {
	return h.App.UserService.VerifyUID(c.Context(), uid)
}
