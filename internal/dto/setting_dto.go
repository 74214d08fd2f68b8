package dto

// SettingDTO Setting data transfer object
// SettingDTO 设置数据传输对象
type SettingDTO struct {
	Key              string `json:"key"`
	Value            string `json:"value"`
	UpdatedTimestamp int64  `json:"lastTime"`
}

// SettingModifyRequest Request parameters for writing a setting
// 用于写入设置的请求参数
type SettingModifyRequest struct {
	Key   string `json:"key" form:"key" binding:"required"`
	Value string `json:"value" form:"value"`
}

// SettingGetRequest Request parameters for fetching a single setting
// 用于获取单个设置的请求参数
type SettingGetRequest struct {
	Key string `json:"key" form:"key" binding:"required"`
}

// SettingSyncRequest Client request for incremental setting synchronization
// 客户端用于设置增量同步的请求参数
type SettingSyncRequest struct {
	LastTime int64 `json:"lastTime" form:"lastTime"`
}
