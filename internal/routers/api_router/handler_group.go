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

// GroupHandler 分组 API 路由处理器
type GroupHandler struct {
	*Handler
}

// NewGroupHandler 创建 GroupHandler 实例，REST 写操作通过 WSS 通知在线会话
func NewGroupHandler(a *app.App, wss *pkgapp.WebsocketServer) *GroupHandler {
	return &GroupHandler{
		Handler: NewHandlerWithWSS(a, wss),
	}
}

// CreateOrUpdate 创建或重命名分组
// @Summary Create or rename a group
// @Tags Group
// @Accept json
// @Produce json
// @Param params body dto.GroupModifyOrCreateRequest true "Group Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.GroupDTO} "Success"
// @Router /api/group [post]
func (h *GroupHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GroupModifyOrCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	_, group, err := h.App.GroupService.ModifyOrCreate(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "GroupHandler.CreateOrUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	h.pushToUser(uid, dto.GroupModify, group)

	response.ToResponse(code.Success.WithData(group))
}

// SetNotes 整体覆盖分组的笔记集合
// @Summary Replace a group's note membership
// @Tags Group
// @Accept json
// @Produce json
// @Param params body dto.GroupSetNotesRequest true "Membership Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.GroupDTO} "Success"
// @Router /api/group/notes [put]
func (h *GroupHandler) SetNotes(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GroupSetNotesRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	group, err := h.App.GroupService.SetNotes(ctx, uid, params)
	if err != nil {
		if group == nil {
			h.logError(ctx, "GroupHandler.SetNotes", err)
			apperrors.ErrorResponse(c, err)
			return
		}
		// 引用部分失败，分组已落库，响应带明确的部分失败码
		h.App.Logger().Warn("GroupHandler.SetNotes.RefSync", zap.Error(err))
		h.pushToUser(uid, dto.GroupModify, group)
		response.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(group))
		return
	}

	h.pushToUser(uid, dto.GroupModify, group)

	response.ToResponse(code.Success.WithData(group))
}

// Delete 删除分组，笔记不随分组删除
// @Summary Delete a group
// @Tags Group
// @Produce json
// @Param id query string true "Group ID"
// @Success 200 {object} pkgapp.Res{data=dto.GroupDTO} "Success"
// @Router /api/group [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GroupDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	group, err := h.App.GroupService.Delete(ctx, uid, params)
	if err != nil {
		if group == nil {
			h.logError(ctx, "GroupHandler.Delete", err)
			apperrors.ErrorResponse(c, err)
			return
		}
		// 级联清理部分失败，分组已删除，响应带明确的部分失败码
		h.App.Logger().Warn("GroupHandler.Delete.RefSync", zap.Error(err))
		h.pushToUser(uid, dto.GroupDelete, group)
		response.ToResponse(code.ErrorRefSyncPartial.WithDetails(err.Error()).WithData(group))
		return
	}

	h.pushToUser(uid, dto.GroupDelete, group)

	response.ToResponse(code.Success.WithData(group))
}

// List 获取用户全部分组
// @Summary List groups
// @Tags Group
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.GroupDTO} "Success"
// @Router /api/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	groups, err := h.App.GroupService.List(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "GroupHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(groups))
}

// Sync 获取在 lastTime 之后变更的分组
// @Summary Sync groups
// @Tags Group
// @Produce json
// @Param lastTime query int false "Last sync timestamp"
// @Success 200 {object} pkgapp.Res{data=[]dto.GroupDTO} "Success"
// @Router /api/groups/sync [get]
func (h *GroupHandler) Sync(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GroupSyncRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	groups, err := h.App.GroupService.Sync(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "GroupHandler.Sync", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(groups))
}
