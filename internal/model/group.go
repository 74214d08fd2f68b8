package model

import "github.com/dailynotes/daily-note-sync-service/pkg/timex"

const TableNameGroup = "group"

// Group 分组表
type Group struct {
	ID               string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID              int64      `gorm:"column:uid;not null;index:idx_group_uid,priority:1" json:"uid" form:"uid"`
	Name             string     `gorm:"column:name;not null" json:"name" form:"name"`
	NoteIDs          StringSet  `gorm:"column:note_ids;type:text" json:"noteIds" form:"noteIds"`
	UpdatedTimestamp int64      `gorm:"column:updated_timestamp;not null;index:idx_group_uid,priority:2" json:"updatedTimestamp" form:"updatedTimestamp"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName Group's table name
func (*Group) TableName() string {
	return TableNameGroup
}
