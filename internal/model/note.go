package model

import "github.com/dailynotes/daily-note-sync-service/pkg/timex"

const TableNameNote = "note"

// Note 笔记表
// AlarmAt 为提醒时间的毫秒时间戳，0 表示未设置提醒
type Note struct {
	ID               string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID              int64      `gorm:"column:uid;not null;index:idx_note_uid,priority:1" json:"uid" form:"uid"`
	Title            string     `gorm:"column:title;not null" json:"title" form:"title"`
	Content          string     `gorm:"column:content;not null" json:"content" form:"content"`
	AlarmAt          int64      `gorm:"column:alarm_at;not null;default:0;index:idx_note_alarm" json:"alarmAt" form:"alarmAt"`
	GroupIDs         StringSet  `gorm:"column:group_ids;type:text" json:"groupIds" form:"groupIds"`
	UpdatedTimestamp int64      `gorm:"column:updated_timestamp;not null;index:idx_note_uid,priority:2" json:"updatedTimestamp" form:"updatedTimestamp"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
