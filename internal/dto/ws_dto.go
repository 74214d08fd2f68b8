package dto

// WebSocketAction WebSocket text message type
// WebSocket 文本消息类型
type WebSocketAction = string

const (
	// Note related
	// 笔记相关

	// NoteModify note creation or modification
	// NoteModify 笔记创建或修改
	NoteModify WebSocketAction = "NoteModify"
	// NoteDelete note deletion
	// NoteDelete 笔记删除
	NoteDelete WebSocketAction = "NoteDelete"
	// NoteSync note incremental synchronization
	// NoteSync 笔记增量同步
	NoteSync WebSocketAction = "NoteSync"
	// NoteSyncEnd note synchronization finished
	// NoteSyncEnd 笔记同步结束
	NoteSyncEnd WebSocketAction = "NoteSyncEnd"

	// Group related
	// 分组相关

	// GroupModify group creation or rename
	// GroupModify 分组创建或重命名
	GroupModify WebSocketAction = "GroupModify"
	// GroupDelete group deletion
	// GroupDelete 分组删除
	GroupDelete WebSocketAction = "GroupDelete"
	// GroupSetNotes replaces a group's note membership
	// GroupSetNotes 整体覆盖分组的笔记集合
	GroupSetNotes WebSocketAction = "GroupSetNotes"
	// GroupSync group incremental synchronization
	// GroupSync 分组增量同步
	GroupSync WebSocketAction = "GroupSync"
	// GroupSyncEnd group synchronization finished
	// GroupSyncEnd 分组同步结束
	GroupSyncEnd WebSocketAction = "GroupSyncEnd"

	// Setting related
	// 设置相关

	// SettingModify setting write
	// SettingModify 设置写入
	SettingModify WebSocketAction = "SettingModify"
	// SettingSync setting incremental synchronization
	// SettingSync 设置增量同步
	SettingSync WebSocketAction = "SettingSync"
	// SettingSyncEnd setting synchronization finished
	// SettingSyncEnd 设置同步结束
	SettingSyncEnd WebSocketAction = "SettingSyncEnd"

	// Reminder related
	// 提醒相关

	// ReminderFire server push when a note reminder becomes due
	// ReminderFire 笔记提醒到期时的服务端推送
	ReminderFire WebSocketAction = "ReminderFire"
)

// SyncEndDTO Payload for sync end messages, carries the latest change timestamp
// SyncEndDTO 同步结束消息载荷，携带最新变更时间戳
type SyncEndDTO struct {
	LastTime int64 `json:"lastTime"`
	Count    int   `json:"count"`
}

// ReminderFireDTO Server push payload when a reminder fires
// ReminderFireDTO 提醒触发时的服务端推送载荷
type ReminderFireDTO struct {
	NoteID  string `json:"noteId"`
	Title   string `json:"title"`
	AlarmAt int64  `json:"alarmAt"`
	FiredAt int64  `json:"firedAt"`
}
