// Package domain 定义领域模型和接口
package domain

import "time"

// Note 笔记领域模型
// AlarmAt 为提醒时间的毫秒时间戳，0 表示未设置提醒
type Note struct {
	ID               string
	UID              int64
	Title            string
	Content          string
	AlarmAt          int64
	GroupIDs         []string
	UpdatedTimestamp int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasAlarm 判断笔记是否设置了提醒
func (n *Note) HasAlarm() bool {
	return n.AlarmAt > 0
}

// AlarmTime 返回提醒时间
func (n *Note) AlarmTime() time.Time {
	return time.UnixMilli(n.AlarmAt)
}

// InGroup 判断笔记是否引用了指定分组
func (n *Note) InGroup(groupID string) bool {
	for _, id := range n.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
