package task

import (
	"context"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/service"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// RefRepairTask 周期性修复笔记与分组之间的双向引用
// 正常路径下引用由写入时同步维护，这里兜底处理中途失败留下的单边引用
type RefRepairTask struct {
	app      *app.App
	logger   *zap.Logger
	interval time.Duration
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewRefRepairTask(appContainer)
	})
}

// NewRefRepairTask 创建引用修复任务，配置禁用时返回 nil
func NewRefRepairTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config()
	if !cfg.Repair.Enabled {
		return nil, nil
	}
	return &RefRepairTask{
		app:      appContainer,
		logger:   appContainer.Logger(),
		interval: cfg.GetRepairInterval(),
	}, nil
}

// Name 任务名称
func (t *RefRepairTask) Name() string {
	return "RefRepair"
}

// LoopInterval 执行间隔
func (t *RefRepairTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 启动时执行一次
func (t *RefRepairTask) IsStartupRun() bool {
	return true
}

// Run 逐用户执行引用一致性修复
// 访客会话共享 uid 0，一并纳入
func (t *RefRepairTask) Run(ctx context.Context) error {
	users, err := t.app.UserRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	uids := make([]int64, 0, len(users)+1)
	uids = append(uids, service.GuestUID)
	for _, u := range users {
		uids = append(uids, u.UID)
	}

	repaired := 0
	for _, uid := range uids {
		if err := t.app.RefSyncService.Repair(ctx, uid); err != nil {
			t.logger.Warn("ref repair failed",
				zap.String(logger.FieldTask, t.Name()),
				zap.Int64(logger.FieldUID, uid),
				zap.Error(err))
			continue
		}
		repaired++
	}

	t.logger.Debug("ref repair completed",
		zap.String(logger.FieldTask, t.Name()),
		zap.Int("users", repaired))

	return nil
}
