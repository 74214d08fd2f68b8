package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"go.uber.org/zap"
)

// RefSyncService maintains the bidirectional references between notes and groups.
// A group id appears in a note's groupIds exactly when the note id appears in
// that group's noteIds.
// RefSyncService 维护笔记与分组之间的双向引用，
// 分组 id 出现在笔记的 groupIds 中当且仅当笔记 id 出现在该分组的 noteIds 中
type RefSyncService interface {

	// ApplyNoteGroupChange 根据笔记分组集合的前后差异，同步各分组的 noteIds
	ApplyNoteGroupChange(ctx context.Context, uid int64, noteID string, oldGroupIDs, newGroupIDs []string) error

	// ApplyGroupNoteChange 根据分组笔记集合的前后差异，同步各笔记的 groupIds
	ApplyGroupNoteChange(ctx context.Context, uid int64, groupID string, oldNoteIDs, newNoteIDs []string) error

	// CascadeDeleteNote 删除笔记后，从其引用的所有分组中移除该笔记
	CascadeDeleteNote(ctx context.Context, uid int64, noteID string, groupIDs []string) error

	// CascadeDeleteGroup 删除分组后，从其引用的所有笔记中移除该分组
	CascadeDeleteGroup(ctx context.Context, uid int64, groupID string, noteIDs []string) error

	// Repair 以当前数据为准全量修复双向引用，幂等
	Repair(ctx context.Context, uid int64) error
}

// refSyncService 实现 RefSyncService 接口
type refSyncService struct {
	noteRepo  domain.NoteRepository
	groupRepo domain.GroupRepository
	logger    *zap.Logger
}

// NewRefSyncService 创建 RefSyncService 实例
func NewRefSyncService(noteRepo domain.NoteRepository, groupRepo domain.GroupRepository, lg *zap.Logger) RefSyncService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &refSyncService{
		noteRepo:  noteRepo,
		groupRepo: groupRepo,
		logger:    lg,
	}
}

// ApplyNoteGroupChange 同步分组侧引用
// 逐个分组顺序写入，目标不存在同样计入失败（快照与写入之间分组可能被并发删除），
// 失败不回滚已完成的更新，统一汇总上报给调用方
func (s *refSyncService) ApplyNoteGroupChange(ctx context.Context, uid int64, noteID string, oldGroupIDs, newGroupIDs []string) error {
	added := util.Difference(newGroupIDs, oldGroupIDs)
	removed := util.Difference(oldGroupIDs, newGroupIDs)

	var failures []string
	for _, groupID := range added {
		if err := s.groupRepo.AddNoteRef(ctx, groupID, noteID, uid); err != nil {
			failures = append(failures, fmt.Sprintf("add %s: %v", groupID, err))
		}
	}
	for _, groupID := range removed {
		if err := s.groupRepo.RemoveNoteRef(ctx, groupID, noteID, uid); err != nil {
			failures = append(failures, fmt.Sprintf("remove %s: %v", groupID, err))
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("note ref sync partial failure",
			zap.Int64(logger.FieldUID, uid),
			zap.String("noteId", noteID),
			zap.Strings("failures", failures))
		return code.ErrorRefSyncPartial.WithDetails(strings.Join(failures, "; "))
	}
	return nil
}

// ApplyGroupNoteChange 同步笔记侧引用
func (s *refSyncService) ApplyGroupNoteChange(ctx context.Context, uid int64, groupID string, oldNoteIDs, newNoteIDs []string) error {
	added := util.Difference(newNoteIDs, oldNoteIDs)
	removed := util.Difference(oldNoteIDs, newNoteIDs)

	var failures []string
	for _, noteID := range added {
		if err := s.noteRepo.AddGroupRef(ctx, noteID, groupID, uid); err != nil {
			failures = append(failures, fmt.Sprintf("add %s: %v", noteID, err))
		}
	}
	for _, noteID := range removed {
		if err := s.noteRepo.RemoveGroupRef(ctx, noteID, groupID, uid); err != nil {
			failures = append(failures, fmt.Sprintf("remove %s: %v", noteID, err))
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("group ref sync partial failure",
			zap.Int64(logger.FieldUID, uid),
			zap.String("groupId", groupID),
			zap.Strings("failures", failures))
		return code.ErrorRefSyncPartial.WithDetails(strings.Join(failures, "; "))
	}
	return nil
}

// CascadeDeleteNote 笔记删除后的引用清理，清理失败汇总上报，不影响已完成的删除
func (s *refSyncService) CascadeDeleteNote(ctx context.Context, uid int64, noteID string, groupIDs []string) error {
	return s.ApplyNoteGroupChange(ctx, uid, noteID, groupIDs, nil)
}

// CascadeDeleteGroup 分组删除后的引用清理，清理失败汇总上报，不影响已完成的删除
func (s *refSyncService) CascadeDeleteGroup(ctx context.Context, uid int64, groupID string, noteIDs []string) error {
	return s.ApplyGroupNoteChange(ctx, uid, groupID, noteIDs, nil)
}

// Repair 全量修复双向引用
// 任意一侧存在的引用视为有效，指向不存在对象的引用被清除，重复执行结果一致
func (s *refSyncService) Repair(ctx context.Context, uid int64) error {
	notes, err := s.noteRepo.ListAll(ctx, uid)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	groups, err := s.groupRepo.ListAll(ctx, uid)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	noteByID := make(map[string]*domain.Note, len(notes))
	for _, n := range notes {
		noteByID[n.ID] = n
	}
	groupByID := make(map[string]*domain.Group, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}

	// 合并两侧引用
	noteGroups := make(map[string]map[string]bool, len(notes))
	for _, n := range notes {
		noteGroups[n.ID] = make(map[string]bool)
		for _, gid := range n.GroupIDs {
			if _, ok := groupByID[gid]; ok {
				noteGroups[n.ID][gid] = true
			}
		}
	}
	for _, g := range groups {
		for _, nid := range g.NoteIDs {
			if refs, ok := noteGroups[nid]; ok {
				refs[g.ID] = true
			}
		}
	}

	var failures []string
	for _, n := range notes {
		desired := sortedKeys(noteGroups[n.ID])
		if sameStringSet(n.GroupIDs, desired) {
			continue
		}
		n.GroupIDs = desired
		if _, err := s.noteRepo.Update(ctx, n, uid); err != nil {
			failures = append(failures, fmt.Sprintf("note %s: %v", n.ID, err))
		}
	}
	for _, g := range groups {
		desired := make([]string, 0)
		for nid, refs := range noteGroups {
			if refs[g.ID] {
				desired = append(desired, nid)
			}
		}
		sort.Strings(desired)
		if sameStringSet(g.NoteIDs, desired) {
			continue
		}
		if err := s.groupRepo.SetNoteIDs(ctx, g.ID, desired, uid); err != nil {
			failures = append(failures, fmt.Sprintf("group %s: %v", g.ID, err))
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("ref repair partial failure",
			zap.Int64(logger.FieldUID, uid),
			zap.Strings("failures", failures))
		return code.ErrorRefSyncPartial.WithDetails(strings.Join(failures, "; "))
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sameStringSet 忽略顺序与重复比较两个集合
func sameStringSet(a, b []string) bool {
	as := util.ArrayUnique(append([]string(nil), a...))
	bs := util.ArrayUnique(append([]string(nil), b...))
	if len(as) != len(bs) {
		return false
	}
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
