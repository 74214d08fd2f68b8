package dto

// UserAnonymousRequest Anonymous sign-in request, identified by client id
// 匿名登录请求，以客户端标识区分设备
type UserAnonymousRequest struct {
	ClientID string `json:"clientId" form:"clientId" binding:"required"`
	Nickname string `json:"nickname" form:"nickname"`
}

// UserTokenDTO Sign-in result with access token
// 登录结果，携带访问令牌
type UserTokenDTO struct {
	UID      int64  `json:"uid"`
	Nickname string `json:"nickname"`
	Token    string `json:"token"`
	IsGuest  bool   `json:"isGuest"`
}
