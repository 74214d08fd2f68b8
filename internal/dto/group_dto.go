package dto

// GroupDTO Group data transfer object
// GroupDTO 分组数据传输对象
type GroupDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	NoteIDs          []string `json:"noteIds"`
	UpdatedTimestamp int64    `json:"lastTime"`
}

// GroupModifyOrCreateRequest Request parameters for creating or renaming a group
// 用于创建或重命名分组的请求参数
type GroupModifyOrCreateRequest struct {
	ID   string `json:"id" form:"id"`
	Name string `json:"name" form:"name" binding:"required"`
}

// GroupSetNotesRequest Request parameters for replacing a group's note membership
// 用于整体覆盖分组笔记集合的请求参数
type GroupSetNotesRequest struct {
	ID      string   `json:"id" form:"id" binding:"required"`
	NoteIDs []string `json:"noteIds" form:"noteIds"`
}

// GroupDeleteRequest Request parameters for deleting a group
// 用于删除分组的请求参数
type GroupDeleteRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// GroupSyncRequest Client request for incremental group synchronization
// 客户端用于分组增量同步的请求参数
type GroupSyncRequest struct {
	LastTime int64 `json:"lastTime" form:"lastTime"`
}
