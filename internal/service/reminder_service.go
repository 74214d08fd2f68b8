package service

import (
	"sync"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// ReminderNotifier delivers a fired reminder to the user's online sessions.
// ReminderNotifier 将触发的提醒投递到用户的在线会话
type ReminderNotifier interface {
	ReminderFire(uid int64, note *domain.Note)
}

// ReminderService schedules one-shot reminders for notes with an alarm time.
// Reminders in the past are never fired, scheduling is idempotent.
// ReminderService 为带提醒时间的笔记调度一次性提醒，
// 过期提醒不会补发，调度操作幂等
type ReminderService interface {

	// Upsert 根据笔记当前的提醒时间调整其定时器
	Upsert(uid int64, note *domain.Note)

	// Reconcile 将某用户的定时器集合对齐到给定笔记集合，幂等
	Reconcile(uid int64, notes []*domain.Note)

	// CancelNote 取消单条笔记的提醒
	CancelNote(noteID string)

	// CancelAll 取消全部提醒，用于停机
	CancelAll()

	// SetNotifier 注入提醒投递通道
	SetNotifier(n ReminderNotifier)

	// ArmedCount 当前已调度的提醒数量
	ArmedCount() int
}

// reminderEntry 单个已调度的提醒
type reminderEntry struct {
	uid     int64
	note    *domain.Note
	alarmAt int64
	timer   *time.Timer
}

// reminderService 实现 ReminderService 接口
type reminderService struct {
	mu       sync.Mutex
	entries  map[string]*reminderEntry
	notifier ReminderNotifier
	now      func() time.Time
	logger   *zap.Logger
}

// ReminderOption 提醒服务配置选项
type ReminderOption func(*reminderService)

// WithReminderClock 注入时间源，供测试使用
func WithReminderClock(now func() time.Time) ReminderOption {
	return func(s *reminderService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReminderService 创建 ReminderService 实例
func NewReminderService(lg *zap.Logger, opts ...ReminderOption) ReminderService {
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &reminderService{
		entries: make(map[string]*reminderEntry),
		now:     time.Now,
		logger:  lg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier 注入提醒投递通道
// 路由层建立 WebSocket 服务后注入
func (s *reminderService) SetNotifier(n ReminderNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Upsert 根据笔记当前的提醒时间调整其定时器
func (s *reminderService) Upsert(uid int64, note *domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(uid, note)
}

func (s *reminderService) upsertLocked(uid int64, note *domain.Note) {
	if note == nil {
		return
	}

	alarmAt := note.AlarmAt
	if alarmAt <= s.now().UnixMilli() {
		// 过期或未设置的提醒不调度，已有定时器一并取消
		alarmAt = 0
	}

	existing := s.entries[note.ID]
	if existing != nil && existing.alarmAt == alarmAt && alarmAt != 0 {
		existing.note = note
		return
	}
	if existing != nil {
		existing.timer.Stop()
		delete(s.entries, note.ID)
	}
	if alarmAt == 0 {
		return
	}

	entry := &reminderEntry{
		uid:     uid,
		note:    note,
		alarmAt: alarmAt,
	}
	delay := time.UnixMilli(alarmAt).Sub(s.now())
	entry.timer = time.AfterFunc(delay, func() {
		s.fire(note.ID, entry)
	})
	s.entries[note.ID] = entry

	s.logger.Debug("reminder armed",
		zap.Int64(logger.FieldUID, uid),
		zap.String("noteId", note.ID),
		zap.Int64("alarmAt", alarmAt))
}

// fire 定时器到期回调
func (s *reminderService) fire(noteID string, entry *reminderEntry) {
	s.mu.Lock()
	current := s.entries[noteID]
	if current != entry {
		// 已被取消或重新调度
		s.mu.Unlock()
		return
	}
	delete(s.entries, noteID)
	notifier := s.notifier
	s.mu.Unlock()

	if notifier == nil {
		s.logger.Warn("reminder fired without notifier",
			zap.Int64(logger.FieldUID, entry.uid),
			zap.String("noteId", noteID))
		return
	}

	s.logger.Info("reminder fired",
		zap.Int64(logger.FieldUID, entry.uid),
		zap.String("noteId", noteID),
		zap.Int64("alarmAt", entry.alarmAt))
	notifier.ReminderFire(entry.uid, entry.note)
}

// Reconcile 将某用户的定时器集合对齐到给定笔记集合
// 集合外的定时器取消，集合内按各自提醒时间调整，重复执行结果一致
func (s *reminderService) Reconcile(uid int64, notes []*domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n != nil {
			wanted[n.ID] = true
		}
	}

	for id, entry := range s.entries {
		if entry.uid != uid {
			continue
		}
		if !wanted[id] {
			entry.timer.Stop()
			delete(s.entries, id)
		}
	}

	for _, n := range notes {
		s.upsertLocked(uid, n)
	}
}

// CancelNote 取消单条笔记的提醒
func (s *reminderService) CancelNote(noteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[noteID]; ok {
		entry.timer.Stop()
		delete(s.entries, noteID)
	}
}

// CancelAll 取消全部提醒
func (s *reminderService) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		entry.timer.Stop()
		delete(s.entries, id)
	}
}

// ArmedCount 当前已调度的提醒数量
func (s *reminderService) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
