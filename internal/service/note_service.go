package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"gorm.io/gorm"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {

	// ModifyOrCreate 创建或修改笔记，返回是否为新建
	ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest) (bool, *dto.NoteDTO, error)

	// Delete 删除笔记并级联清理分组引用
	Delete(ctx context.Context, uid int64, params *dto.NoteDeleteRequest) (*dto.NoteDTO, error)

	// Get 获取单条笔记
	Get(ctx context.Context, uid int64, params *dto.NoteGetRequest) (*dto.NoteDTO, error)

	// List 分页获取笔记列表
	List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteDTO, int64, error)

	// Search 大小写不敏感的标题/内容子串搜索
	Search(ctx context.Context, uid int64, keyword string, page, pageSize int) ([]*dto.NoteDTO, int64, error)

	// Sync 获取在 lastTime 之后变更的笔记
	Sync(ctx context.Context, uid int64, params *dto.NoteSyncRequest) ([]*dto.NoteDTO, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo domain.NoteRepository
	refSync  RefSyncService
	reminder ReminderService
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, refSync RefSyncService, reminder ReminderService) NoteService {
	return &noteService{
		noteRepo: noteRepo,
		refSync:  refSync,
		reminder: reminder,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *noteService) domainToDTO(note *domain.Note) *dto.NoteDTO {
	if note == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:               note.ID,
		Title:            note.Title,
		Content:          note.Content,
		Alarm:            util.FormatAlarmTime(note.AlarmAt),
		AlarmAt:          note.AlarmAt,
		GroupIDs:         note.GroupIDs,
		UpdatedTimestamp: note.UpdatedTimestamp,
	}
}

func (s *noteService) domainToDTOList(notes []*domain.Note) []*dto.NoteDTO {
	list := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, s.domainToDTO(n))
	}
	return list
}

// ModifyOrCreate 创建或修改笔记
// ID 为空或不存在时创建，否则更新；分组引用按前后差异双向同步，
// 引用部分失败不回滚笔记本身的写入
func (s *noteService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest) (bool, *dto.NoteDTO, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return false, nil, code.ErrorNoteTitleEmpty
	}
	if strings.TrimSpace(params.Content) == "" {
		return false, nil, code.ErrorNoteContentEmpty
	}

	var alarmAt int64
	if params.Alarm != "" {
		t, err := util.ParseAlarmTime(params.Alarm)
		if err != nil {
			return false, nil, code.ErrorNoteAlarmFormat.WithDetails(err.Error())
		}
		alarmAt = t.UnixMilli()
	}

	groupIDs := util.ArrayUnique(params.GroupIDs)

	var existing *domain.Note
	if params.ID != "" {
		n, err := s.noteRepo.GetByID(ctx, params.ID, uid)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		existing = n
	}

	note := &domain.Note{
		ID:       params.ID,
		Title:    title,
		Content:  params.Content,
		AlarmAt:  alarmAt,
		GroupIDs: groupIDs,
	}

	var saved *domain.Note
	var err error
	isNew := existing == nil
	if isNew {
		saved, err = s.noteRepo.Create(ctx, note, uid)
		if err != nil {
			return true, nil, code.ErrorNoteCreateFailed.WithDetails(err.Error())
		}
	} else {
		saved, err = s.noteRepo.Update(ctx, note, uid)
		if err != nil {
			return false, nil, code.ErrorNoteUpdateFailed.WithDetails(err.Error())
		}
	}

	s.reminder.Upsert(uid, saved)

	// 客户端提供基线快照时以其为差异基准，避免并发会话互相覆盖引用
	oldGroupIDs := []string{}
	if !isNew {
		oldGroupIDs = existing.GroupIDs
	}
	if params.BaseGroupIDs != nil {
		oldGroupIDs = params.BaseGroupIDs
	}

	refErr := s.refSync.ApplyNoteGroupChange(ctx, uid, saved.ID, oldGroupIDs, groupIDs)
	return isNew, s.domainToDTO(saved), refErr
}

// Delete 删除笔记并级联清理分组引用
func (s *noteService) Delete(ctx context.Context, uid int64, params *dto.NoteDeleteRequest) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.noteRepo.Delete(ctx, params.ID, uid); err != nil {
		return nil, code.ErrorNoteDeleteFailed.WithDetails(err.Error())
	}

	s.reminder.CancelNote(params.ID)

	refErr := s.refSync.CascadeDeleteNote(ctx, uid, params.ID, note.GroupIDs)
	return s.domainToDTO(note), refErr
}

// Get 获取单条笔记
func (s *noteService) Get(ctx context.Context, uid int64, params *dto.NoteGetRequest) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(note), nil
}

// List 分页获取笔记列表，按更新时间倒序
func (s *noteService) List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteDTO, int64, error) {
	count, err := s.noteRepo.ListCount(ctx, uid)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	notes, err := s.noteRepo.List(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTOList(notes), count, nil
}

// Search 大小写不敏感的标题/内容子串搜索
// 空关键词退化为普通列表
func (s *noteService) Search(ctx context.Context, uid int64, keyword string, page, pageSize int) ([]*dto.NoteDTO, int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.List(ctx, uid, page, pageSize)
	}

	count, err := s.noteRepo.SearchCount(ctx, uid, keyword)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	notes, err := s.noteRepo.Search(ctx, uid, keyword, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTOList(notes), count, nil
}

// Sync 获取在 lastTime 之后变更的笔记
func (s *noteService) Sync(ctx context.Context, uid int64, params *dto.NoteSyncRequest) ([]*dto.NoteDTO, error) {
	notes, err := s.noteRepo.ListChangedSince(ctx, uid, params.LastTime)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTOList(notes), nil
}
