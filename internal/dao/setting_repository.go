package dao

import (
	"context"
	"errors"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/model"
	"github.com/dailynotes/daily-note-sync-service/pkg/timex"

	"gorm.io/gorm"
)

// settingRepository 实现 domain.SettingRepository 接口
type settingRepository struct {
	dao *Dao
}

// NewSettingRepository 创建 SettingRepository 实例
func NewSettingRepository(dao *Dao) domain.SettingRepository {
	return &settingRepository{dao: dao}
}

func (r *settingRepository) toDomain(m *model.Setting) *domain.Setting {
	if m == nil {
		return nil
	}
	return &domain.Setting{
		ID:               m.ID,
		UID:              m.UID,
		Key:              m.Key,
		Value:            m.Value,
		UpdatedTimestamp: m.UpdatedTimestamp,
		CreatedAt:        m.CreatedAt.Time(),
		UpdatedAt:        m.UpdatedAt.Time(),
	}
}

// Get 获取单个设置项，不存在时返回 nil
func (r *settingRepository) Get(ctx context.Context, uid int64, key string) (*domain.Setting, error) {
	r.dao.useTable("Setting")

	var m model.Setting
	err := r.dao.db.WithContext(ctx).
		Where(&model.Setting{UID: uid, Key: key}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListAll 获取用户全部设置
func (r *settingRepository) ListAll(ctx context.Context, uid int64) ([]*domain.Setting, error) {
	r.dao.useTable("Setting")

	var ms []*model.Setting
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	settings := make([]*domain.Setting, 0, len(ms))
	for _, m := range ms {
		settings = append(settings, r.toDomain(m))
	}
	return settings, nil
}

// ListChangedSince 根据更新时间戳获取变更的设置列表
func (r *settingRepository) ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*domain.Setting, error) {
	r.dao.useTable("Setting")

	var ms []*model.Setting
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND updated_timestamp > ?", uid, timestamp).
		Order("updated_timestamp ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	settings := make([]*domain.Setting, 0, len(ms))
	for _, m := range ms {
		settings = append(settings, r.toDomain(m))
	}
	return settings, nil
}

// Save 写入设置项，存在则覆盖
func (r *settingRepository) Save(ctx context.Context, uid int64, key, value string) (*domain.Setting, error) {
	r.dao.useTable("Setting")

	err := r.dao.ExecuteWrite(ctx, uid, func() error {
		var m model.Setting
		err := r.dao.db.WithContext(ctx).
			Where(&model.Setting{UID: uid, Key: key}).
			First(&m).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			m = model.Setting{
				UID:              uid,
				Key:              key,
				Value:            value,
				UpdatedTimestamp: time.Now().UnixMilli(),
				CreatedAt:        timex.Now(),
				UpdatedAt:        timex.Now(),
			}
			return r.dao.db.WithContext(ctx).Create(&m).Error
		}

		return r.dao.db.WithContext(ctx).
			Model(&model.Setting{}).
			Where(&model.Setting{UID: uid, Key: key}).
			Updates(map[string]interface{}{
				"value":             value,
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, uid, key)
}
