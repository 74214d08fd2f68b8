package api_router

import (
	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	apperrors "github.com/dailynotes/daily-note-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler note API router handler
// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler creates NoteHandler instance
// NewNoteHandler 创建 NoteHandler 实例，REST 写操作通过 WSS 通知在线会话
func NewNoteHandler(a *app.App, wss *pkgapp.WebsocketServer) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandlerWithWSS(a, wss),
	}
}

// CreateOrUpdate note creation or modification
// @Summary Create or update a note
// @Description 创建或修改笔记，分组引用双向同步，变更推送到该用户的其他在线会话
// @Tags Note
// @Accept json
// @Produce json
// @Param params body dto.NoteModifyOrCreateRequest true "Note Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Router /api/note [post]
func (h *NoteHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteModifyOrCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	isNew, note, err := h.App.NoteService.ModifyOrCreate(ctx, uid, params)
	if err != nil {
		if note == nil {
			h.logError(ctx, "NoteHandler.CreateOrUpdate", err)
			apperrors.ErrorResponse(c, err)
			return
		}
		// 引用部分失败，笔记已落库，响应带明确的部分失败码
		h.App.Logger().Warn("NoteHandler.CreateOrUpdate.RefSync", zap.Error(err))
		h.pushToUser(uid, dto.NoteModify, note)
		response.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(note))
		return
	}

	h.pushToUser(uid, dto.NoteModify, note)

	h.App.Logger().Debug("note saved",
		zap.Int64("uid", uid),
		zap.String("noteId", note.ID),
		zap.Bool("isNew", isNew))

	response.ToResponse(code.Success.WithData(note))
}

// Delete note deletion
// @Summary Delete a note
// @Description 删除笔记并级联清理分组引用
// @Tags Note
// @Produce json
// @Param id query string true "Note ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	note, err := h.App.NoteService.Delete(ctx, uid, params)
	if err != nil {
		if note == nil {
			h.logError(ctx, "NoteHandler.Delete", err)
			apperrors.ErrorResponse(c, err)
			return
		}
		// 级联清理部分失败，笔记已删除，响应带明确的部分失败码
		h.App.Logger().Warn("NoteHandler.Delete.RefSync", zap.Error(err))
		h.pushToUser(uid, dto.NoteDelete, note)
		response.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(note))
		return
	}

	h.pushToUser(uid, dto.NoteDelete, note)

	response.ToResponse(code.Success.WithData(note))
}

// Get single note
// @Summary Get a note
// @Tags Note
// @Produce json
// @Param id query string true "Note ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	note, err := h.App.NoteService.Get(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// List notes with pagination
// @Summary List notes
// @Tags Note
// @Produce json
// @Success 200 {object} pkgapp.ListRes{list=[]dto.NoteDTO} "Success"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	notes, count, err := h.App.NoteService.List(ctx, pkgapp.GetUID(c), pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, notes, int(count))
}

// Search notes by keyword
// @Summary Search notes
// @Description 大小写不敏感的标题/内容子串搜索
// @Tags Note
// @Produce json
// @Param keyword query string true "Keyword"
// @Success 200 {object} pkgapp.ListRes{list=[]dto.NoteDTO} "Success"
// @Router /api/notes/search [get]
func (h *NoteHandler) Search(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteSearchRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	notes, count, err := h.App.NoteService.Search(ctx, pkgapp.GetUID(c), params.Keyword, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.Search", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, notes, int(count))
}

// Sync incremental note changes
// @Summary Sync notes
// @Description 获取在 lastTime 之后变更的笔记
// @Tags Note
// @Produce json
// @Param lastTime query int false "Last sync timestamp"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteDTO} "Success"
// @Router /api/notes/sync [get]
func (h *NoteHandler) Sync(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteSyncRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	notes, err := h.App.NoteService.Sync(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Sync", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notes))
}
