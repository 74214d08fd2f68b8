// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Alarm            string   `json:"alarm"`
	AlarmAt          int64    `json:"alarmAt"`
	GroupIDs         []string `json:"groupIds"`
	UpdatedTimestamp int64    `json:"lastTime"`
}

// NoteModifyOrCreateRequest Request parameters for creating or modifying a note
// 用于创建或修改笔记的请求参数
type NoteModifyOrCreateRequest struct {
	ID           string   `json:"id" form:"id"`
	Title        string   `json:"title" form:"title" binding:"required"`
	Content      string   `json:"content" form:"content" binding:"required"`
	Alarm        string   `json:"alarm" form:"alarm" binding:"alarmtime"`
	GroupIDs     []string `json:"groupIds" form:"groupIds"`
	BaseGroupIDs []string `json:"baseGroupIds" form:"baseGroupIds"`
}

// NoteDeleteRequest Request parameters for deleting a note
// 用于删除笔记的请求参数
type NoteDeleteRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// NoteGetRequest Request parameters for fetching a single note
// 用于获取单条笔记的请求参数
type NoteGetRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// NoteSearchRequest Request parameters for note search
// 用于笔记搜索的请求参数
type NoteSearchRequest struct {
	Keyword string `json:"keyword" form:"keyword" binding:"required"`
}

// NoteSyncRequest Client request for incremental note synchronization
// 客户端用于笔记增量同步的请求参数
type NoteSyncRequest struct {
	LastTime int64 `json:"lastTime" form:"lastTime"`
}
