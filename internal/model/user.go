package model

import "github.com/dailynotes/daily-note-sync-service/pkg/timex"

const TableNameUser = "user"

// User 匿名用户表，ClientID 为设备绑定的匿名身份标识
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	ClientID  string     `gorm:"column:client_id;not null;uniqueIndex:idx_user_client_id" json:"clientId" form:"clientId"`
	Nickname  string     `gorm:"column:nickname" json:"nickname" form:"nickname"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
