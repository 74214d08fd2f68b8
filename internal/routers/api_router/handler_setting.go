package api_router

import (
	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	apperrors "github.com/dailynotes/daily-note-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SettingHandler 设置 API 路由处理器
type SettingHandler struct {
	*Handler
}

// NewSettingHandler 创建 SettingHandler 实例，REST 写操作通过 WSS 通知在线会话
func NewSettingHandler(a *app.App, wss *pkgapp.WebsocketServer) *SettingHandler {
	return &SettingHandler{
		Handler: NewHandlerWithWSS(a, wss),
	}
}

// Get 获取单个设置项，未写入过时返回默认值
// @Summary Get a setting
// @Tags Setting
// @Produce json
// @Param key query string true "Setting key (userName or theme)"
// @Success 200 {object} pkgapp.Res{data=dto.SettingDTO} "Success"
// @Router /api/setting [get]
func (h *SettingHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SettingGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	setting, err := h.App.SettingService.Get(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "SettingHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(setting))
}

// List 获取用户全部设置
// @Summary List settings
// @Tags Setting
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.SettingDTO} "Success"
// @Router /api/settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	settings, err := h.App.SettingService.List(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "SettingHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(settings))
}

// Save 写入设置项
// @Summary Save a setting
// @Description 主题取值限定为 light、dark、special
// @Tags Setting
// @Accept json
// @Produce json
// @Param params body dto.SettingModifyRequest true "Setting Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.SettingDTO} "Success"
// @Router /api/setting [post]
func (h *SettingHandler) Save(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SettingModifyRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	setting, err := h.App.SettingService.Modify(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "SettingHandler.Save", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	h.pushToUser(uid, dto.SettingModify, setting)

	response.ToResponse(code.Success.WithData(setting))
}

// Sync 获取在 lastTime 之后变更的设置
// @Summary Sync settings
// @Tags Setting
// @Produce json
// @Param lastTime query int false "Last sync timestamp"
// @Success 200 {object} pkgapp.Res{data=[]dto.SettingDTO} "Success"
// @Router /api/settings/sync [get]
func (h *SettingHandler) Sync(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SettingSyncRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	settings, err := h.App.SettingService.Sync(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "SettingHandler.Sync", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(settings))
}
