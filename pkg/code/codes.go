package code

// 通用状态码
var (
	Success = NewSuss(200, lang{"Success", "成功"})
	Failed  = NewError(400, lang{"Failed", "失败"})

	ErrorServerInternal  = NewError(10000, lang{"Server internal error", "服务内部错误"})
	ErrorInvalidParams   = NewError(10001, lang{"Invalid params", "入参错误"})
	ErrorNotFoundAPI     = NewError(10002, lang{"Not found", "找不到接口"})
	ErrorTooManyRequests = NewError(10003, lang{"Too many requests", "请求过多"})
	ErrorRequestTimeout  = NewError(10004, lang{"Request timeout", "请求超时"})
)

// 用户与鉴权
var (
	ErrorNotUserAuthToken      = NewError(20001, lang{"Auth token is missing", "缺少用户令牌"})
	ErrorInvalidUserAuthToken  = NewError(20002, lang{"Auth token is invalid", "用户令牌无效"})
	ErrorUserAuthTokenGenerate = NewError(20003, lang{"Failed to generate auth token", "用户令牌生成失败"})
	ErrorUserRegisterDisabled  = NewError(20004, lang{"Registration is disabled", "注册已关闭"})
	ErrorUserNotExist          = NewError(20005, lang{"User does not exist", "用户不存在"})
	ErrorUserCreateFailed      = NewError(20006, lang{"Failed to create user", "用户创建失败"})
)

// 数据库
var (
	ErrorDBQuery = NewError(30001, lang{"Database query error", "数据库查询错误"})
	ErrorDBWrite = NewError(30002, lang{"Database write error", "数据库写入错误"})
)

// 笔记
var (
	ErrorNoteTitleEmpty   = NewError(40001, lang{"Note title cannot be empty", "笔记标题不能为空"})
	ErrorNoteContentEmpty = NewError(40002, lang{"Note content cannot be empty", "笔记内容不能为空"})
	ErrorNoteAlarmFormat  = NewError(40003, lang{"Alarm time format is invalid", "提醒时间格式无效"})
	ErrorNoteNotFound     = NewError(40004, lang{"Note does not exist", "笔记不存在"})
	ErrorNoteCreateFailed = NewError(40005, lang{"Failed to create note", "笔记创建失败"})
	ErrorNoteUpdateFailed = NewError(40006, lang{"Failed to update note", "笔记更新失败"})
	ErrorNoteDeleteFailed = NewError(40007, lang{"Failed to delete note", "笔记删除失败"})
)

// 分组
var (
	ErrorGroupNameEmpty    = NewError(41001, lang{"Group name cannot be empty", "分组名称不能为空"})
	ErrorGroupNotFound     = NewError(41002, lang{"Group does not exist", "分组不存在"})
	ErrorGroupCreateFailed = NewError(41003, lang{"Failed to create group", "分组创建失败"})
	ErrorGroupUpdateFailed = NewError(41004, lang{"Failed to update group", "分组更新失败"})
	ErrorGroupDeleteFailed = NewError(41005, lang{"Failed to delete group", "分组删除失败"})
	// 引用写入部分失败，主记录已写入
	ErrorRefSyncPartial = NewError(41006, lang{"Some references were not updated", "部分引用未能更新"})
)

// 设置
var (
	ErrorSettingKeyInvalid   = NewError(42001, lang{"Setting key is not supported", "设置项不受支持"})
	ErrorSettingThemeInvalid = NewError(42002, lang{"Theme must be light, dark or special", "主题必须为 light、dark 或 special"})
	ErrorSettingSaveFailed   = NewError(42003, lang{"Failed to save setting", "设置保存失败"})
	ErrorSettingQueryFailed  = NewError(42004, lang{"Failed to query setting", "设置查询失败"})
)

// 提醒与备份
var (
	ErrorReminderScheduleFailed = NewError(43001, lang{"Failed to schedule reminder", "提醒调度失败"})
	ErrorBackupFailed           = NewError(44001, lang{"Backup failed", "备份失败"})
)
