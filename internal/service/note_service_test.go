package service

import (
	"context"
	"testing"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newNoteTestService 构造带内存仓储的笔记服务
func newNoteTestService(now time.Time) (NoteService, *memNoteRepo, *memGroupRepo, ReminderService) {
	noteRepo := newMemNoteRepo()
	groupRepo := newMemGroupRepo()
	refSync := NewRefSyncService(noteRepo, groupRepo, nil)
	reminder := NewReminderService(nil, WithReminderClock(fixedClock(now)))
	return NewNoteService(noteRepo, refSync, reminder), noteRepo, groupRepo, reminder
}

func TestNoteModifyOrCreateValidation(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		params  *dto.NoteModifyOrCreateRequest
		wantErr *code.Code
	}{
		{
			name:    "blank title rejected",
			params:  &dto.NoteModifyOrCreateRequest{Title: "   ", Content: "c"},
			wantErr: code.ErrorNoteTitleEmpty,
		},
		{
			name:    "blank content rejected",
			params:  &dto.NoteModifyOrCreateRequest{Title: "t", Content: " \n "},
			wantErr: code.ErrorNoteContentEmpty,
		},
		{
			name:    "malformed alarm rejected",
			params:  &dto.NoteModifyOrCreateRequest{Title: "t", Content: "c", Alarm: "tomorrow"},
			wantErr: code.ErrorNoteAlarmFormat,
		},
		{
			name:    "impossible alarm date rejected",
			params:  &dto.NoteModifyOrCreateRequest{Title: "t", Content: "c", Alarm: "2026-13-01T10:00"},
			wantErr: code.ErrorNoteAlarmFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, reminder := newNoteTestService(now)
			defer reminder.CancelAll()

			_, _, err := svc.ModifyOrCreate(context.Background(), 1, tt.params)
			require.Error(t, err)
			codeErr, ok := err.(*code.Code)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr.Code(), codeErr.Code())
		})
	}
}

func TestNoteCreateAssignsIDAndSyncsRefs(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, _, groupRepo, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g1", Name: "work"}, 1)

	isNew, note, err := svc.ModifyOrCreate(ctx, 1, &dto.NoteModifyOrCreateRequest{
		Title:    "  groceries  ",
		Content:  "milk",
		GroupIDs: []string{"g1", "g1"},
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "groceries", note.Title)
	assert.Equal(t, []string{"g1"}, note.GroupIDs)

	g, _ := groupRepo.GetByID(ctx, "g1", 1)
	assert.True(t, g.HasNote(note.ID))
}

func TestNoteUpdateUsesBaseSnapshot(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, noteRepo, groupRepo, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g1", Name: "work", NoteIDs: []string{"n1"}}, 1)
	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g2", Name: "home"}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{ID: "n1", Title: "t", Content: "c", GroupIDs: []string{"g1"}}, 1)

	// 客户端基于旧快照 g1 提交新集合 g2
	isNew, note, err := svc.ModifyOrCreate(ctx, 1, &dto.NoteModifyOrCreateRequest{
		ID:           "n1",
		Title:        "t",
		Content:      "c",
		GroupIDs:     []string{"g2"},
		BaseGroupIDs: []string{"g1"},
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, []string{"g2"}, note.GroupIDs)

	g1, _ := groupRepo.GetByID(ctx, "g1", 1)
	g2, _ := groupRepo.GetByID(ctx, "g2", 1)
	assert.False(t, g1.HasNote("n1"))
	assert.True(t, g2.HasNote("n1"))
}

func TestNoteAlarmSchedulesReminder(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, _, _, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	alarm := util.FormatAlarmTime(now.Add(time.Hour).UnixMilli())
	_, note, err := svc.ModifyOrCreate(ctx, 1, &dto.NoteModifyOrCreateRequest{
		Title:   "call dentist",
		Content: "ask about friday",
		Alarm:   alarm,
	})
	require.NoError(t, err)
	assert.Equal(t, alarm, note.Alarm)
	assert.Equal(t, 1, reminder.ArmedCount())

	// 清除提醒
	_, note, err = svc.ModifyOrCreate(ctx, 1, &dto.NoteModifyOrCreateRequest{
		ID:      note.ID,
		Title:   "call dentist",
		Content: "ask about friday",
	})
	require.NoError(t, err)
	assert.Empty(t, note.Alarm)
	assert.Equal(t, 0, reminder.ArmedCount())
}

func TestNotePastAlarmStoredButNotArmed(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, _, _, reminder := newNoteTestService(now)
	defer reminder.CancelAll()

	alarm := util.FormatAlarmTime(now.Add(-time.Hour).UnixMilli())
	_, note, err := svc.ModifyOrCreate(context.Background(), 1, &dto.NoteModifyOrCreateRequest{
		Title:   "t",
		Content: "c",
		Alarm:   alarm,
	})
	require.NoError(t, err)
	assert.Equal(t, alarm, note.Alarm)
	assert.Equal(t, 0, reminder.ArmedCount())
}

func TestNoteDelete(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, noteRepo, groupRepo, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	_, _ = groupRepo.Create(ctx, &domain.Group{ID: "g1", Name: "work", NoteIDs: []string{"n1"}}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{
		ID: "n1", Title: "t", Content: "c",
		AlarmAt:  now.Add(time.Hour).UnixMilli(),
		GroupIDs: []string{"g1"},
	}, 1)
	reminder.Upsert(1, &domain.Note{ID: "n1", AlarmAt: now.Add(time.Hour).UnixMilli()})

	deleted, err := svc.Delete(ctx, 1, &dto.NoteDeleteRequest{ID: "n1"})
	require.NoError(t, err)
	assert.Equal(t, "n1", deleted.ID)
	assert.Equal(t, 0, reminder.ArmedCount())

	g, _ := groupRepo.GetByID(ctx, "g1", 1)
	assert.Empty(t, g.NoteIDs)

	_, err = svc.Delete(ctx, 1, &dto.NoteDeleteRequest{ID: "n1"})
	assert.Equal(t, code.ErrorNoteNotFound, err)
}

func TestNoteSearch(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, noteRepo, _, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	_, _ = noteRepo.Create(ctx, &domain.Note{Title: "Shopping List", Content: "milk and eggs"}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{Title: "work log", Content: "review MILK pricing"}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{Title: "ideas", Content: "nothing here"}, 1)

	// 大小写不敏感，标题和内容都参与匹配
	notes, count, err := svc.Search(ctx, 1, "MiLk", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, notes, 2)

	// 空关键词退化为列表
	notes, count, err = svc.Search(ctx, 1, "  ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, notes, 3)
}

func TestNoteSync(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc, noteRepo, _, reminder := newNoteTestService(now)
	defer reminder.CancelAll()
	ctx := context.Background()

	first, _ := noteRepo.Create(ctx, &domain.Note{Title: "a", Content: "c"}, 1)
	_, _ = noteRepo.Create(ctx, &domain.Note{Title: "b", Content: "c"}, 1)

	changed, err := svc.Sync(ctx, 1, &dto.NoteSyncRequest{LastTime: first.UpdatedTimestamp})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "b", changed[0].Title)
}
