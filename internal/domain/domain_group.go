package domain

import "time"

// Group 分组领域模型
type Group struct {
	ID               string
	UID              int64
	Name             string
	NoteIDs          []string
	UpdatedTimestamp int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasNote 判断分组是否引用了指定笔记
func (g *Group) HasNote(noteID string) bool {
	for _, id := range g.NoteIDs {
		if id == noteID {
			return true
		}
	}
	return false
}
