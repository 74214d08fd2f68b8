package model

import "github.com/dailynotes/daily-note-sync-service/pkg/timex"

const TableNameSetting = "setting"

// Setting 用户设置表，按 uid + key 唯一
type Setting struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID              int64      `gorm:"column:uid;not null;uniqueIndex:idx_setting_uid_key,priority:1" json:"uid" form:"uid"`
	Key              string     `gorm:"column:key;not null;uniqueIndex:idx_setting_uid_key,priority:2" json:"key" form:"key"`
	Value            string     `gorm:"column:value" json:"value" form:"value"`
	UpdatedTimestamp int64      `gorm:"column:updated_timestamp;not null" json:"updatedTimestamp" form:"updatedTimestamp"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName Setting's table name
func (*Setting) TableName() string {
	return TableNameSetting
}
