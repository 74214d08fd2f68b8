package routers

import (
	"context"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/internal/middleware"
	"github.com/dailynotes/daily-note-sync-service/internal/routers/api_router"
	"github.com/dailynotes/daily-note-sync-service/internal/routers/websocket_router"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/auth",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// wsReminderNotifier 通过 WebSocket 将到期提醒推送给该用户的所有在线会话
// 推送经 Worker Pool 异步执行，池满或已关闭时降级为同步推送
type wsReminderNotifier struct {
	app *app.App
	wss *pkgapp.WebsocketServer
}

func (n *wsReminderNotifier) ReminderFire(uid int64, note *domain.Note) {
	payload := dto.ReminderFireDTO{
		NoteID:  note.ID,
		Title:   note.Title,
		AlarmAt: note.AlarmAt,
		FiredAt: time.Now().UnixMilli(),
	}

	err := n.app.SubmitTaskAsync(context.Background(), func(ctx context.Context) error {
		n.wss.PushToUser(uid, dto.ReminderFire, payload)
		return nil
	})
	if err != nil {
		n.app.Logger().Warn("routers.ReminderFire.SubmitTaskAsync", zap.Error(err))
		n.wss.PushToUser(uid, dto.ReminderFire, payload)
	}
}

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	var wss = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:    true,
			ParallelEnabled:     true,                                 // 开启并行消息处理
			Recovery:            gws.Recovery,                         // 开启异常恢复
			PermessageDeflate:   gws.PermessageDeflate{Enabled: true}, // 开启压缩
			ParallelGolimit:     8,
			ReadMaxPayloadSize:  1024 * 1024 * 64, // 设置最大读取缓冲区大小 64MB
			WriteMaxPayloadSize: 1024 * 1024 * 64, // 设置最大写入缓冲区大小 64MB
		},
		IsReturnSuccess: cfg.App.IsReturnSuccess,
		TokenManager:    appContainer.TokenManager,
		Logger:          appContainer.Logger(),
	})

	// 创建 WebSocket Handlers（注入 App Container）
	noteWSHandler := websocket_router.NewNoteWSHandler(appContainer)
	groupWSHandler := websocket_router.NewGroupWSHandler(appContainer)
	settingWSHandler := websocket_router.NewSettingWSHandler(appContainer)

	// 修改 创建
	wss.Use(dto.NoteModify, noteWSHandler.NoteModify)
	// 删除
	wss.Use(dto.NoteDelete, noteWSHandler.NoteDelete)
	// 基于 lastTime 的增量同步
	wss.Use(dto.NoteSync, noteWSHandler.NoteSync)

	// 分组同步
	wss.Use(dto.GroupModify, groupWSHandler.GroupModify)
	wss.Use(dto.GroupSetNotes, groupWSHandler.GroupSetNotes)
	wss.Use(dto.GroupDelete, groupWSHandler.GroupDelete)
	wss.Use(dto.GroupSync, groupWSHandler.GroupSync)

	// 设置同步
	wss.Use(dto.SettingModify, settingWSHandler.SettingModify)
	wss.Use(dto.SettingSync, settingWSHandler.SettingSync)

	wss.UserVerifyUse(noteWSHandler.UserInfo)

	// 到期提醒通过 WebSocket 推送
	if cfg.Reminder.Enabled {
		appContainer.ReminderService.SetNotifier(&wsReminderNotifier{app: appContainer, wss: wss})
	}

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(gin.Logger())
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		userHandler := api_router.NewUserHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer, wss)
		groupHandler := api_router.NewGroupHandler(appContainer, wss)
		settingHandler := api_router.NewSettingHandler(appContainer, wss)
		versionHandler := api_router.NewVersionHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		api.POST("/user/anonymous", userHandler.Anonymous)
		api.GET("/user/sync", wss.Run())

		// 无需认证的系统接口
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/note", noteHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/note", noteHandler.CreateOrUpdate)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/note", noteHandler.Delete)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/notes", noteHandler.List)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/notes/search", noteHandler.Search)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/notes/sync", noteHandler.Sync)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/group", groupHandler.CreateOrUpdate)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/group", groupHandler.Delete)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).PUT("/group/notes", groupHandler.SetNotes)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/groups", groupHandler.List)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/groups/sync", groupHandler.Sync)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/setting", settingHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/setting", settingHandler.Save)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/settings", settingHandler.List)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/settings/sync", settingHandler.Sync)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
