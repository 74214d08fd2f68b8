package dao

import (
	"context"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/model"
	"github.com/dailynotes/daily-note-sync-service/pkg/timex"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"github.com/google/uuid"
)

// groupRepository 实现 domain.GroupRepository 接口
type groupRepository struct {
	dao *Dao
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(dao *Dao) domain.GroupRepository {
	return &groupRepository{dao: dao}
}

func (r *groupRepository) toDomain(m *model.Group) *domain.Group {
	if m == nil {
		return nil
	}
	return &domain.Group{
		ID:               m.ID,
		UID:              m.UID,
		Name:             m.Name,
		NoteIDs:          []string(m.NoteIDs),
		UpdatedTimestamp: m.UpdatedTimestamp,
		CreatedAt:        m.CreatedAt.Time(),
		UpdatedAt:        m.UpdatedAt.Time(),
	}
}

func (r *groupRepository) toModel(group *domain.Group) *model.Group {
	if group == nil {
		return nil
	}
	noteIDs := group.NoteIDs
	if noteIDs == nil {
		noteIDs = []string{}
	}
	return &model.Group{
		ID:               group.ID,
		UID:              group.UID,
		Name:             group.Name,
		NoteIDs:          model.StringSet(noteIDs),
		UpdatedTimestamp: group.UpdatedTimestamp,
		CreatedAt:        timex.Time(group.CreatedAt),
		UpdatedAt:        timex.Time(group.UpdatedAt),
	}
}

func (r *groupRepository) toDomainList(ms []*model.Group) []*domain.Group {
	groups := make([]*domain.Group, 0, len(ms))
	for _, m := range ms {
		groups = append(groups, r.toDomain(m))
	}
	return groups
}

// Create 创建分组，ID 由仓储生成
func (r *groupRepository) Create(ctx context.Context, group *domain.Group, uid int64) (*domain.Group, error) {
	r.dao.useTable("Group")

	m := r.toModel(group)
	m.UID = uid
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.UpdatedTimestamp = time.Now().UnixMilli()
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	err := r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取分组
func (r *groupRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.Group, error) {
	r.dao.useTable("Group")

	var m model.Group
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListAll 获取用户全部分组，按更新时间倒序
func (r *groupRepository) ListAll(ctx context.Context, uid int64) ([]*domain.Group, error) {
	r.dao.useTable("Group")

	var ms []*model.Group
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("updated_timestamp DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListChangedSince 根据更新时间戳获取变更的分组列表
func (r *groupRepository) ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*domain.Group, error) {
	r.dao.useTable("Group")

	var ms []*model.Group
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND updated_timestamp > ?", uid, timestamp).
		Order("updated_timestamp ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Update 更新分组
func (r *groupRepository) Update(ctx context.Context, group *domain.Group, uid int64) (*domain.Group, error) {
	r.dao.useTable("Group")

	noteIDs := group.NoteIDs
	if noteIDs == nil {
		noteIDs = []string{}
	}

	values := map[string]interface{}{
		"name":              group.Name,
		"note_ids":          model.StringSet(noteIDs),
		"updated_timestamp": time.Now().UnixMilli(),
		"updated_at":        timex.Now(),
	}

	err := r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Model(&model.Group{}).
			Where("id = ? AND uid = ?", group.ID, uid).
			Updates(values).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, group.ID, uid)
}

// AddNoteRef 向分组的笔记引用集合中原子添加
func (r *groupRepository) AddNoteRef(ctx context.Context, groupID, noteID string, uid int64) error {
	r.dao.useTable("Group")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		var m model.Group
		if err := r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", groupID, uid).
			First(&m).Error; err != nil {
			return err
		}
		if m.NoteIDs.Contains(noteID) {
			return nil
		}
		return r.dao.db.WithContext(ctx).
			Model(&model.Group{}).
			Where("id = ? AND uid = ?", groupID, uid).
			Updates(map[string]interface{}{
				"note_ids":          model.StringSet(util.AppendUnique(m.NoteIDs, noteID)),
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
}

// RemoveNoteRef 从分组的笔记引用集合中原子移除
func (r *groupRepository) RemoveNoteRef(ctx context.Context, groupID, noteID string, uid int64) error {
	r.dao.useTable("Group")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		var m model.Group
		if err := r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", groupID, uid).
			First(&m).Error; err != nil {
			return err
		}
		if !m.NoteIDs.Contains(noteID) {
			return nil
		}
		return r.dao.db.WithContext(ctx).
			Model(&model.Group{}).
			Where("id = ? AND uid = ?", groupID, uid).
			Updates(map[string]interface{}{
				"note_ids":          model.StringSet(util.RemoveValue(m.NoteIDs, noteID)),
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
}

// SetNoteIDs 整体覆盖分组的笔记引用集合
func (r *groupRepository) SetNoteIDs(ctx context.Context, groupID string, noteIDs []string, uid int64) error {
	r.dao.useTable("Group")

	if noteIDs == nil {
		noteIDs = []string{}
	}

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Model(&model.Group{}).
			Where("id = ? AND uid = ?", groupID, uid).
			Updates(map[string]interface{}{
				"note_ids":          model.StringSet(noteIDs),
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
}

// Delete 物理删除分组
func (r *groupRepository) Delete(ctx context.Context, id string, uid int64) error {
	r.dao.useTable("Group")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", id, uid).
			Delete(&model.Group{}).Error
	})
}
