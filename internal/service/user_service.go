package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// GuestUID 访客会话使用的用户ID
const GuestUID int64 = 0

// UserService 定义用户业务服务接口
type UserService interface {

	// Anonymous 匿名登录，同一客户端标识总是映射到同一用户
	Anonymous(ctx context.Context, params *dto.UserAnonymousRequest, ip string) (*dto.UserTokenDTO, error)

	// VerifyUID 校验用户是否存在，返回昵称，供连接鉴权使用
	VerifyUID(ctx context.Context, uid int64) (string, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	sf           *singleflight.Group
	config       *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, config *ServiceConfig) UserService {
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		sf:           &singleflight.Group{},
		config:       config,
	}
}

// guestNickname 访客昵称
func (s *userService) guestNickname() string {
	if s.config.User.GuestNickname != "" {
		return s.config.User.GuestNickname
	}
	return "Guest"
}

// Anonymous 匿名登录
// 客户端标识已注册则直接签发令牌，未注册且开放注册时创建用户，
// 注册关闭时降级为访客会话；singleflight 防止同一标识并发重复建号
func (s *userService) Anonymous(ctx context.Context, params *dto.UserAnonymousRequest, ip string) (*dto.UserTokenDTO, error) {
	// 客户端标识长度不定，统一散列为定宽键再入库
	clientKey := util.EncodeMD5(params.ClientID)

	v, err, _ := s.sf.Do(clientKey, func() (interface{}, error) {
		user, err := s.userRepo.GetByClientID(ctx, clientKey)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}

		if user == nil {
			if !s.config.User.RegisterIsEnable {
				return s.issueToken(GuestUID, s.guestNickname(), ip, true)
			}

			nickname := params.Nickname
			if nickname == "" {
				nickname = "User-" + util.GetRandomString(6)
			}
			user, err = s.userRepo.Create(ctx, &domain.User{
				ClientID: clientKey,
				Nickname: nickname,
			})
			if err != nil {
				return nil, code.ErrorUserCreateFailed.WithDetails(err.Error())
			}
		}

		return s.issueToken(user.UID, user.Nickname, ip, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.UserTokenDTO), nil
}

func (s *userService) issueToken(uid int64, nickname, ip string, isGuest bool) (*dto.UserTokenDTO, error) {
	token, err := s.tokenManager.Generate(uid, nickname, ip)
	if err != nil {
		return nil, code.ErrorUserAuthTokenGenerate.WithDetails(err.Error())
	}
	return &dto.UserTokenDTO{
		UID:      uid,
		Nickname: nickname,
		Token:    token,
		IsGuest:  isGuest,
	}, nil
}

// VerifyUID 校验用户是否存在，返回昵称
func (s *userService) VerifyUID(ctx context.Context, uid int64) (string, error) {
	if uid == GuestUID {
		return s.guestNickname(), nil
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", code.ErrorUserNotExist
		}
		return "", code.ErrorDBQuery.WithDetails(fmt.Sprintf("uid %d: %v", uid, err))
	}
	return user.Nickname, nil
}
