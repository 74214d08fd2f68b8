package dao

import (
	"context"
	"strings"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/model"
	"github.com/dailynotes/daily-note-sync-service/pkg/timex"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"github.com/google/uuid"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:               m.ID,
		UID:              m.UID,
		Title:            m.Title,
		Content:          m.Content,
		AlarmAt:          m.AlarmAt,
		GroupIDs:         []string(m.GroupIDs),
		UpdatedTimestamp: m.UpdatedTimestamp,
		CreatedAt:        m.CreatedAt.Time(),
		UpdatedAt:        m.UpdatedAt.Time(),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	groupIDs := note.GroupIDs
	if groupIDs == nil {
		groupIDs = []string{}
	}
	return &model.Note{
		ID:               note.ID,
		UID:              note.UID,
		Title:            note.Title,
		Content:          note.Content,
		AlarmAt:          note.AlarmAt,
		GroupIDs:         model.StringSet(groupIDs),
		UpdatedTimestamp: note.UpdatedTimestamp,
		CreatedAt:        timex.Time(note.CreatedAt),
		UpdatedAt:        timex.Time(note.UpdatedAt),
	}
}

func (r *noteRepository) toDomainList(ms []*model.Note) []*domain.Note {
	notes := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, r.toDomain(m))
	}
	return notes
}

// Create 创建笔记，ID 由仓储生成
func (r *noteRepository) Create(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	r.dao.useTable("Note")

	m := r.toModel(note)
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

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	r.dao.useTable("Note")

	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// List 分页获取笔记列表，按更新时间倒序
func (r *noteRepository) List(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	r.dao.useTable("Note")

	var ms []*model.Note
	q := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("updated_timestamp DESC")
	if pageSize > 0 {
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListCount 获取笔记数量
func (r *noteRepository) ListCount(ctx context.Context, uid int64) (int64, error) {
	r.dao.useTable("Note")

	var count int64
	err := r.dao.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("uid = ?", uid).
		Count(&count).Error
	return count, err
}

// searchPattern 构造大小写不敏感的 LIKE 模式
func searchPattern(keyword string) string {
	keyword = strings.ToLower(keyword)
	keyword = strings.ReplaceAll(keyword, `\`, `\\`)
	keyword = strings.ReplaceAll(keyword, "%", `\%`)
	keyword = strings.ReplaceAll(keyword, "_", `\_`)
	return "%" + keyword + "%"
}

// Search 大小写不敏感的标题/内容子串搜索，分页
func (r *noteRepository) Search(ctx context.Context, uid int64, keyword string, page, pageSize int) ([]*domain.Note, error) {
	r.dao.useTable("Note")

	pattern := searchPattern(keyword)
	var ms []*model.Note
	q := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("updated_timestamp DESC")
	if pageSize > 0 {
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// SearchCount 获取搜索结果数量
func (r *noteRepository) SearchCount(ctx context.Context, uid int64, keyword string) (int64, error) {
	r.dao.useTable("Note")

	pattern := searchPattern(keyword)
	var count int64
	err := r.dao.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("uid = ?", uid).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, pattern, pattern).
		Count(&count).Error
	return count, err
}

// ListAll 获取用户全部笔记
func (r *noteRepository) ListAll(ctx context.Context, uid int64) ([]*domain.Note, error) {
	return r.List(ctx, uid, 0, 0)
}

// ListChangedSince 根据更新时间戳获取变更的笔记列表
func (r *noteRepository) ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*domain.Note, error) {
	r.dao.useTable("Note")

	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND updated_timestamp > ?", uid, timestamp).
		Order("updated_timestamp ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListAlarmed 获取所有用户中设置了提醒的笔记
func (r *noteRepository) ListAlarmed(ctx context.Context) ([]*domain.Note, error) {
	r.dao.useTable("Note")

	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Where("alarm_at > 0").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Update 更新笔记
func (r *noteRepository) Update(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	r.dao.useTable("Note")

	groupIDs := note.GroupIDs
	if groupIDs == nil {
		groupIDs = []string{}
	}

	now := time.Now().UnixMilli()
	values := map[string]interface{}{
		"title":             note.Title,
		"content":           note.Content,
		"alarm_at":          note.AlarmAt,
		"group_ids":         model.StringSet(groupIDs),
		"updated_timestamp": now,
		"updated_at":        timex.Now(),
	}

	err := r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Model(&model.Note{}).
			Where("id = ? AND uid = ?", note.ID, uid).
			Updates(values).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, note.ID, uid)
}

// AddGroupRef 向笔记的分组引用集合中原子添加
// 读-改-写通过写队列串行化
func (r *noteRepository) AddGroupRef(ctx context.Context, noteID, groupID string, uid int64) error {
	r.dao.useTable("Note")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		var m model.Note
		if err := r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", noteID, uid).
			First(&m).Error; err != nil {
			return err
		}
		if m.GroupIDs.Contains(groupID) {
			return nil
		}
		return r.dao.db.WithContext(ctx).
			Model(&model.Note{}).
			Where("id = ? AND uid = ?", noteID, uid).
			Updates(map[string]interface{}{
				"group_ids":         model.StringSet(util.AppendUnique(m.GroupIDs, groupID)),
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
}

// RemoveGroupRef 从笔记的分组引用集合中原子移除
func (r *noteRepository) RemoveGroupRef(ctx context.Context, noteID, groupID string, uid int64) error {
	r.dao.useTable("Note")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		var m model.Note
		if err := r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", noteID, uid).
			First(&m).Error; err != nil {
			return err
		}
		if !m.GroupIDs.Contains(groupID) {
			return nil
		}
		return r.dao.db.WithContext(ctx).
			Model(&model.Note{}).
			Where("id = ? AND uid = ?", noteID, uid).
			Updates(map[string]interface{}{
				"group_ids":         model.StringSet(util.RemoveValue(m.GroupIDs, groupID)),
				"updated_timestamp": time.Now().UnixMilli(),
				"updated_at":        timex.Now(),
			}).Error
	})
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id string, uid int64) error {
	r.dao.useTable("Note")

	return r.dao.ExecuteWrite(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Where("id = ? AND uid = ?", id, uid).
			Delete(&model.Note{}).Error
	})
}
