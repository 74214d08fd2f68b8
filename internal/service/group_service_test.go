package service

import (
	"context"
	"testing"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupTestService() (GroupService, *memNoteRepo, *memGroupRepo) {
	noteRepo := newMemNoteRepo()
	groupRepo := newMemGroupRepo()
	refSync := NewRefSyncService(noteRepo, groupRepo, nil)
	return NewGroupService(groupRepo, refSync), noteRepo, groupRepo
}

func TestGroupModifyOrCreate(t *testing.T) {
	svc, _, groupRepo := newGroupTestService()
	ctx := context.Background()

	_, _, err := svc.ModifyOrCreate(ctx, 1, &dto.GroupModifyOrCreateRequest{Name: "  "})
	assert.Equal(t, code.ErrorGroupNameEmpty, err)

	isNew, group, err := svc.ModifyOrCreate(ctx, 1, &dto.GroupModifyOrCreateRequest{Name: " work "})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "work", group.Name)
	assert.NotEmpty(t, group.ID)

	// 重命名不改变笔记集合
	_ = groupRepo.AddNoteRef(ctx, group.ID, "n1", 1)
	isNew, renamed, err := svc.ModifyOrCreate(ctx, 1, &dto.GroupModifyOrCreateRequest{ID: group.ID, Name: "projects"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "projects", renamed.Name)
	assert.Equal(t, []string{"n1"}, renamed.NoteIDs)
}

func TestGroupSetNotes(t *testing.T) {
	svc, noteRepo, groupRepo := newGroupTestService()
	ctx := context.Background()

	_, _ = noteRepo.Create(ctx, &domain.Note{ID: "n1", Title: "t", Content: "c", GroupIDs: []string{"g1"}}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{ID: "n2", Title: "t", Content: "c"}, 1)
	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g1", Name: "work", NoteIDs: []string{"n1"}}, 1)

	group, err := svc.SetNotes(ctx, 1, &dto.GroupSetNotesRequest{ID: "g1", NoteIDs: []string{"n2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"n2"}, group.NoteIDs)

	n1, _ := noteRepo.GetByID(ctx, "n1", 1)
	n2, _ := noteRepo.GetByID(ctx, "n2", 1)
	assert.False(t, n1.InGroup("g1"))
	assert.True(t, n2.InGroup("g1"))

	_, err = svc.SetNotes(ctx, 1, &dto.GroupSetNotesRequest{ID: "missing"})
	assert.Equal(t, code.ErrorGroupNotFound, err)
}

func TestGroupDeleteCascades(t *testing.T) {
	svc, noteRepo, groupRepo := newGroupTestService()
	ctx := context.Background()

	_, _ = noteRepo.Create(ctx, &domain.Note{ID: "n1", Title: "t", Content: "c", GroupIDs: []string{"g1"}}, 1)
	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g1", Name: "work", NoteIDs: []string{"n1"}}, 1)

	deleted, err := svc.Delete(ctx, 1, &dto.GroupDeleteRequest{ID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, "g1", deleted.ID)

	// 笔记不随分组删除，仅引用被清理
	n1, err := noteRepo.GetByID(ctx, "n1", 1)
	require.NoError(t, err)
	assert.Empty(t, n1.GroupIDs)

	_, err = svc.Delete(ctx, 1, &dto.GroupDeleteRequest{ID: "g1"})
	assert.Equal(t, code.ErrorGroupNotFound, err)
}

func TestGroupSync(t *testing.T) {
	svc, _, groupRepo := newGroupTestService()
	ctx := context.Background()

	first, _ := groupRepo.Create(ctx, &domain.Group{Name: "a"}, 1)
	_, _ = groupRepo.Create(ctx, &domain.Group{Name: "b"}, 1)

	changed, err := svc.Sync(ctx, 1, &dto.GroupSyncRequest{LastTime: first.UpdatedTimestamp})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "b", changed[0].Name)
}
