package service

import (
	"sync"
	"testing"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordNotifier 记录触发的提醒
type recordNotifier struct {
	mu    sync.Mutex
	fired []string
}

func (r *recordNotifier) ReminderFire(uid int64, note *domain.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, note.ID)
}

func (r *recordNotifier) firedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fired...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestReminderUpsert(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		alarmAt   int64
		wantArmed int
	}{
		{"future alarm armed", now.Add(time.Hour).UnixMilli(), 1},
		{"past alarm never armed", now.Add(-time.Hour).UnixMilli(), 0},
		{"alarm exactly now not armed", now.UnixMilli(), 0},
		{"no alarm not armed", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReminderService(nil, WithReminderClock(fixedClock(now)))
			defer svc.CancelAll()

			svc.Upsert(1, &domain.Note{ID: "n1", AlarmAt: tt.alarmAt})
			assert.Equal(t, tt.wantArmed, svc.ArmedCount())
		})
	}
}

func TestReminderUpsertIdempotent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc := NewReminderService(nil, WithReminderClock(fixedClock(now)))
	defer svc.CancelAll()

	note := &domain.Note{ID: "n1", AlarmAt: now.Add(time.Hour).UnixMilli()}
	svc.Upsert(1, note)
	svc.Upsert(1, note)
	svc.Upsert(1, note)
	assert.Equal(t, 1, svc.ArmedCount())
}

func TestReminderUpsertClearCancels(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc := NewReminderService(nil, WithReminderClock(fixedClock(now)))
	defer svc.CancelAll()

	svc.Upsert(1, &domain.Note{ID: "n1", AlarmAt: now.Add(time.Hour).UnixMilli()})
	assert.Equal(t, 1, svc.ArmedCount())

	// 清除提醒时间等同取消
	svc.Upsert(1, &domain.Note{ID: "n1", AlarmAt: 0})
	assert.Equal(t, 0, svc.ArmedCount())
}

func TestReminderCancelNote(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc := NewReminderService(nil, WithReminderClock(fixedClock(now)))
	defer svc.CancelAll()

	svc.Upsert(1, &domain.Note{ID: "n1", AlarmAt: now.Add(time.Hour).UnixMilli()})
	svc.Upsert(1, &domain.Note{ID: "n2", AlarmAt: now.Add(2 * time.Hour).UnixMilli()})

	svc.CancelNote("n1")
	assert.Equal(t, 1, svc.ArmedCount())

	svc.CancelNote("missing")
	assert.Equal(t, 1, svc.ArmedCount())
}

func TestReminderReconcile(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	svc := NewReminderService(nil, WithReminderClock(fixedClock(now)))
	defer svc.CancelAll()

	future := now.Add(time.Hour).UnixMilli()
	past := now.Add(-time.Hour).UnixMilli()

	svc.Upsert(1, &domain.Note{ID: "stale", AlarmAt: future})
	svc.Upsert(2, &domain.Note{ID: "other-user", AlarmAt: future})

	notes := []*domain.Note{
		{ID: "n1", AlarmAt: future},
		{ID: "n2", AlarmAt: past},
		{ID: "n3", AlarmAt: 0},
	}
	svc.Reconcile(1, notes)

	// 用户1仅 n1 被调度，stale 被取消；用户2不受影响
	assert.Equal(t, 2, svc.ArmedCount())

	// 幂等
	svc.Reconcile(1, notes)
	assert.Equal(t, 2, svc.ArmedCount())
}

func TestReminderFireOnce(t *testing.T) {
	notifier := &recordNotifier{}
	svc := NewReminderService(nil)
	svc.SetNotifier(notifier)
	defer svc.CancelAll()

	note := &domain.Note{ID: "n1", AlarmAt: time.Now().Add(50 * time.Millisecond).UnixMilli()}
	svc.Upsert(1, note)

	require.Eventually(t, func() bool {
		return len(notifier.firedIDs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"n1"}, notifier.firedIDs())
	assert.Equal(t, 0, svc.ArmedCount())

	// 触发后不会重复
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"n1"}, notifier.firedIDs())
}

func TestReminderCancelPreventsFire(t *testing.T) {
	notifier := &recordNotifier{}
	svc := NewReminderService(nil)
	svc.SetNotifier(notifier)
	defer svc.CancelAll()

	svc.Upsert(1, &domain.Note{ID: "n1", AlarmAt: time.Now().Add(80 * time.Millisecond).UnixMilli()})
	svc.CancelNote("n1")

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, notifier.firedIDs())
}
