package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/convert"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"gorm.io/gorm"
)

// GroupService 定义分组业务服务接口
type GroupService interface {

	// ModifyOrCreate 创建或重命名分组，返回是否为新建
	ModifyOrCreate(ctx context.Context, uid int64, params *dto.GroupModifyOrCreateRequest) (bool, *dto.GroupDTO, error)

	// SetNotes 整体覆盖分组的笔记集合并双向同步引用
	SetNotes(ctx context.Context, uid int64, params *dto.GroupSetNotesRequest) (*dto.GroupDTO, error)

	// Delete 删除分组并级联清理笔记引用
	Delete(ctx context.Context, uid int64, params *dto.GroupDeleteRequest) (*dto.GroupDTO, error)

	// List 获取用户全部分组
	List(ctx context.Context, uid int64) ([]*dto.GroupDTO, error)

	// Sync 获取在 lastTime 之后变更的分组
	Sync(ctx context.Context, uid int64, params *dto.GroupSyncRequest) ([]*dto.GroupDTO, error)
}

// groupService 实现 GroupService 接口
type groupService struct {
	groupRepo domain.GroupRepository
	refSync   RefSyncService
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(groupRepo domain.GroupRepository, refSync RefSyncService) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		refSync:   refSync,
	}
}

func (s *groupService) domainToDTO(group *domain.Group) *dto.GroupDTO {
	if group == nil {
		return nil
	}
	out := convert.StructAssign(group, &dto.GroupDTO{}).(*dto.GroupDTO)
	if out.NoteIDs == nil {
		out.NoteIDs = []string{}
	}
	return out
}

func (s *groupService) domainToDTOList(groups []*domain.Group) []*dto.GroupDTO {
	list := make([]*dto.GroupDTO, 0, len(groups))
	for _, g := range groups {
		list = append(list, s.domainToDTO(g))
	}
	return list
}

// ModifyOrCreate 创建或重命名分组
// 重命名不改变分组的笔记集合
func (s *groupService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.GroupModifyOrCreateRequest) (bool, *dto.GroupDTO, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return false, nil, code.ErrorGroupNameEmpty
	}

	var existing *domain.Group
	if params.ID != "" {
		g, err := s.groupRepo.GetByID(ctx, params.ID, uid)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		existing = g
	}

	if existing == nil {
		group := &domain.Group{
			ID:      params.ID,
			Name:    name,
			NoteIDs: []string{},
		}
		created, err := s.groupRepo.Create(ctx, group, uid)
		if err != nil {
			return true, nil, code.ErrorGroupCreateFailed.WithDetails(err.Error())
		}
		return true, s.domainToDTO(created), nil
	}

	existing.Name = name
	updated, err := s.groupRepo.Update(ctx, existing, uid)
	if err != nil {
		return false, nil, code.ErrorGroupUpdateFailed.WithDetails(err.Error())
	}
	return false, s.domainToDTO(updated), nil
}

// SetNotes 整体覆盖分组的笔记集合
// 笔记侧引用按前后差异同步，部分失败不回滚分组本身的写入
func (s *groupService) SetNotes(ctx context.Context, uid int64, params *dto.GroupSetNotesRequest) (*dto.GroupDTO, error) {
	group, err := s.groupRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorGroupNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	noteIDs := util.ArrayUnique(params.NoteIDs)
	if err := s.groupRepo.SetNoteIDs(ctx, params.ID, noteIDs, uid); err != nil {
		return nil, code.ErrorGroupUpdateFailed.WithDetails(err.Error())
	}

	refErr := s.refSync.ApplyGroupNoteChange(ctx, uid, params.ID, group.NoteIDs, noteIDs)

	updated, err := s.groupRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(updated), refErr
}

// Delete 删除分组并级联清理笔记引用
func (s *groupService) Delete(ctx context.Context, uid int64, params *dto.GroupDeleteRequest) (*dto.GroupDTO, error) {
	group, err := s.groupRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorGroupNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.groupRepo.Delete(ctx, params.ID, uid); err != nil {
		return nil, code.ErrorGroupDeleteFailed.WithDetails(err.Error())
	}

	refErr := s.refSync.CascadeDeleteGroup(ctx, uid, params.ID, group.NoteIDs)
	return s.domainToDTO(group), refErr
}

// List 获取用户全部分组，按更新时间倒序
func (s *groupService) List(ctx context.Context, uid int64) ([]*dto.GroupDTO, error) {
	groups, err := s.groupRepo.ListAll(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTOList(groups), nil
}

// Sync 获取在 lastTime 之后变更的分组
func (s *groupService) Sync(ctx context.Context, uid int64, params *dto.GroupSyncRequest) ([]*dto.GroupDTO, error) {
	groups, err := s.groupRepo.ListChangedSince(ctx, uid, params.LastTime)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTOList(groups), nil
}
