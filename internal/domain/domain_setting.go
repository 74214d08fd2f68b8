package domain

import "time"

// 支持的设置键
const (
	SettingKeyUserName = "userName"
	SettingKeyTheme    = "theme"
)

// 主题取值
const (
	ThemeLight   = "light"
	ThemeDark    = "dark"
	ThemeSpecial = "special"
)

// IsValidSettingKey 判断设置键是否受支持
func IsValidSettingKey(key string) bool {
	return key == SettingKeyUserName || key == SettingKeyTheme
}

// IsValidTheme 判断主题取值是否合法
func IsValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark || theme == ThemeSpecial
}

// Setting 用户设置领域模型，按 uid + key 唯一
type Setting struct {
	ID               int64
	UID              int64
	Key              string
	Value            string
	UpdatedTimestamp int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
