package domain

import "context"

// NoteRepository 笔记仓储接口
// 集合列的 AddRef/RemoveRef 为原子的读-改-写，同一用户的写操作串行执行
type NoteRepository interface {
	// Create 创建笔记，ID 由仓储生成
	Create(ctx context.Context, note *Note, uid int64) (*Note, error)

	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id string, uid int64) (*Note, error)

	// List 分页获取笔记列表，按更新时间倒序
	List(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// ListCount 获取笔记数量
	ListCount(ctx context.Context, uid int64) (int64, error)

	// Search 大小写不敏感的标题/内容子串搜索，分页
	Search(ctx context.Context, uid int64, keyword string, page, pageSize int) ([]*Note, error)

	// SearchCount 获取搜索结果数量
	SearchCount(ctx context.Context, uid int64, keyword string) (int64, error)

	// ListAll 获取用户全部笔记
	ListAll(ctx context.Context, uid int64) ([]*Note, error)

	// ListChangedSince 根据更新时间戳获取变更的笔记列表
	ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*Note, error)

	// ListAlarmed 获取所有用户中设置了提醒的笔记
	ListAlarmed(ctx context.Context) ([]*Note, error)

	// Update 更新笔记
	Update(ctx context.Context, note *Note, uid int64) (*Note, error)

	// AddGroupRef 向笔记的分组引用集合中原子添加
	AddGroupRef(ctx context.Context, noteID, groupID string, uid int64) error

	// RemoveGroupRef 从笔记的分组引用集合中原子移除
	RemoveGroupRef(ctx context.Context, noteID, groupID string, uid int64) error

	// Delete 物理删除笔记
	Delete(ctx context.Context, id string, uid int64) error
}

// GroupRepository 分组仓储接口
type GroupRepository interface {
	// Create 创建分组，ID 由仓储生成
	Create(ctx context.Context, group *Group, uid int64) (*Group, error)

	// GetByID 根据ID获取分组
	GetByID(ctx context.Context, id string, uid int64) (*Group, error)

	// ListAll 获取用户全部分组
	ListAll(ctx context.Context, uid int64) ([]*Group, error)

	// ListChangedSince 根据更新时间戳获取变更的分组列表
	ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*Group, error)

	// Update 更新分组
	Update(ctx context.Context, group *Group, uid int64) (*Group, error)

	// AddNoteRef 向分组的笔记引用集合中原子添加
	AddNoteRef(ctx context.Context, groupID, noteID string, uid int64) error

	// RemoveNoteRef 从分组的笔记引用集合中原子移除
	RemoveNoteRef(ctx context.Context, groupID, noteID string, uid int64) error

	// SetNoteIDs 整体覆盖分组的笔记引用集合
	SetNoteIDs(ctx context.Context, groupID string, noteIDs []string, uid int64) error

	// Delete 物理删除分组
	Delete(ctx context.Context, id string, uid int64) error
}

// SettingRepository 设置仓储接口
type SettingRepository interface {
	// Get 获取单个设置项，不存在时返回 nil
	Get(ctx context.Context, uid int64, key string) (*Setting, error)

	// ListAll 获取用户全部设置
	ListAll(ctx context.Context, uid int64) ([]*Setting, error)

	// ListChangedSince 根据更新时间戳获取变更的设置列表
	ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*Setting, error)

	// Save 写入设置项，存在则覆盖
	Save(ctx context.Context, uid int64, key, value string) (*Setting, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByClientID 根据客户端标识获取用户
	GetByClientID(ctx context.Context, clientID string) (*User, error)

	// GetByUID 根据用户ID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// ListAll 获取全部用户
	ListAll(ctx context.Context) ([]*User, error)
}
