package domain

import "time"

// User 匿名用户领域模型
// ClientID 为设备绑定的匿名身份标识
type User struct {
	UID       int64
	ClientID  string
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
