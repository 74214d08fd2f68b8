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

// UserHandler user API router handler
// UserHandler 用户 API 路由处理器
// Uses App Container to inject dependencies, supports unified error handling
// 使用 App Container 注入依赖，支持统一错误处理
type UserHandler struct {
	*Handler
}

// NewUserHandler creates UserHandler instance
// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(a),
	}
}

// Anonymous anonymous sign-in
// @Summary Anonymous sign-in
// @Description Handle anonymous sign-in HTTP request, the same client id always maps to the same user. Registration may be disabled in server settings, in which case a guest session is issued.
// @Description 处理匿名登录 HTTP 请求，相同客户端标识总是映射到同一用户。注册关闭时降级为访客会话。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserAnonymousRequest true "Anonymous Sign-in Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserTokenDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters"
// @Router /api/user/anonymous [post]
func (h *UserHandler) Anonymous(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserAnonymousRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Anonymous.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	tokenDTO, err := h.App.UserService.Anonymous(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Anonymous", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(tokenDTO))
}
