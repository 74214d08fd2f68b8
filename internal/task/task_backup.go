package task

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"
	"github.com/dailynotes/daily-note-sync-service/pkg/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// backupKeyPrefix 备份对象的统一前缀
// 平铺命名，所有存储后端的 List 都能按前缀过滤
const backupKeyPrefix = "db-backup-"

// BackupTask 按 Cron 表达式备份 SQLite 数据库文件到配置的存储后端
// 每分钟检查一次调度点，超过保留份数的旧备份会被清理
type BackupTask struct {
	app     *app.App
	logger  *zap.Logger
	storage storage.Storager

	dbPath     string
	keepCopies int

	mu       sync.Mutex
	schedule cron.Schedule
	nextRun  time.Time
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewBackupTask(appContainer)
	})
}

// NewBackupTask 创建备份任务，配置禁用或数据库非 SQLite 时返回 nil
func NewBackupTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config()
	if !cfg.Backup.Enabled {
		return nil, nil
	}
	if cfg.Database.Type != "sqlite" {
		appContainer.Logger().Warn("backup task only supports sqlite databases",
			zap.String("databaseType", cfg.Database.Type))
		return nil, nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cfg.Backup.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid backup cron expression %q: %w", cfg.Backup.Cron, err)
	}

	client, err := storage.NewClient(&cfg.Backup.Storage, appContainer.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create backup storage client: %w", err)
	}

	return &BackupTask{
		app:        appContainer,
		logger:     appContainer.Logger(),
		storage:    client,
		dbPath:     cfg.Database.Path,
		keepCopies: cfg.Backup.KeepCopies,
		schedule:   schedule,
		nextRun:    schedule.Next(time.Now()),
	}, nil
}

// Name 任务名称
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// LoopInterval 每分钟检查一次调度点
func (t *BackupTask) LoopInterval() time.Duration {
	return time.Minute
}

// IsStartupRun 启动时不立即备份
func (t *BackupTask) IsStartupRun() bool {
	return false
}

// Run 到达调度点时执行备份并清理旧份
func (t *BackupTask) Run(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	if now.Before(t.nextRun) {
		t.mu.Unlock()
		return nil
	}
	t.nextRun = t.schedule.Next(now)
	t.mu.Unlock()

	if err := t.backup(now); err != nil {
		return err
	}

	if err := t.prune(); err != nil {
		t.logger.Warn("backup prune failed",
			zap.String(logger.FieldTask, t.Name()),
			zap.Error(err))
	}

	return nil
}

// backup 将数据库文件写入存储后端
func (t *BackupTask) backup(now time.Time) error {
	file, err := os.Open(t.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer file.Close()

	key := fmt.Sprintf("%s%s.sqlite3", backupKeyPrefix, now.Format("20060102-150405"))
	url, err := t.storage.SendFile(key, file, now)
	if err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}

	t.logger.Info("backup completed",
		zap.String(logger.FieldTask, t.Name()),
		zap.String(logger.FieldKey, key),
		zap.String("url", url))

	return nil
}

// prune 清理超过保留份数的旧备份
// 备份键内嵌时间戳，按字典序排序即为时间序
func (t *BackupTask) prune() error {
	if t.keepCopies <= 0 {
		return nil
	}

	keys, err := t.storage.List(backupKeyPrefix)
	if err != nil {
		return err
	}
	if len(keys) <= t.keepCopies {
		return nil
	}

	sort.Strings(keys)
	for _, key := range keys[:len(keys)-t.keepCopies] {
		if err := t.storage.Delete(key); err != nil {
			t.logger.Warn("failed to delete old backup",
				zap.String(logger.FieldTask, t.Name()),
				zap.String(logger.FieldKey, key),
				zap.Error(err))
			continue
		}
		t.logger.Info("old backup removed",
			zap.String(logger.FieldTask, t.Name()),
			zap.String(logger.FieldKey, key))
	}

	return nil
}
