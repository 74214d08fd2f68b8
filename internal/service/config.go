// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	App  AppServiceConfig  // App related config // 应用相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool   // Whether anonymous registration is enabled // 匿名注册是否启用
	GuestNickname    string // Nickname for guest fallback sessions // 访客降级会话使用的昵称
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	DefaultUserName string // Default value of the userName setting // userName 设置的默认值
	DefaultTheme    string // Default value of the theme setting // theme 设置的默认值
}
