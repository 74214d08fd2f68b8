package service

import (
	"context"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
)

// SettingService 定义设置业务服务接口
type SettingService interface {

	// Get 获取单个设置项，未写入过时返回默认值
	Get(ctx context.Context, uid int64, params *dto.SettingGetRequest) (*dto.SettingDTO, error)

	// List 获取用户全部设置，未写入的键补默认值
	List(ctx context.Context, uid int64) ([]*dto.SettingDTO, error)

	// Modify 写入设置项
	Modify(ctx context.Context, uid int64, params *dto.SettingModifyRequest) (*dto.SettingDTO, error)

	// Sync 获取在 lastTime 之后变更的设置
	Sync(ctx context.Context, uid int64, params *dto.SettingSyncRequest) ([]*dto.SettingDTO, error)
}

// settingService 实现 SettingService 接口
type settingService struct {
	settingRepo domain.SettingRepository
	config      *ServiceConfig
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(settingRepo domain.SettingRepository, config *ServiceConfig) SettingService {
	return &settingService{
		settingRepo: settingRepo,
		config:      config,
	}
}

func (s *settingService) domainToDTO(setting *domain.Setting) *dto.SettingDTO {
	if setting == nil {
		return nil
	}
	return &dto.SettingDTO{
		Key:              setting.Key,
		Value:            setting.Value,
		UpdatedTimestamp: setting.UpdatedTimestamp,
	}
}

// defaultValue 返回设置项的默认值
func (s *settingService) defaultValue(key string) string {
	switch key {
	case domain.SettingKeyUserName:
		return s.config.App.DefaultUserName
	case domain.SettingKeyTheme:
		if s.config.App.DefaultTheme != "" {
			return s.config.App.DefaultTheme
		}
		return domain.ThemeLight
	}
	return ""
}

// Get 获取单个设置项，未写入过时返回默认值
func (s *settingService) Get(ctx context.Context, uid int64, params *dto.SettingGetRequest) (*dto.SettingDTO, error) {
	if !domain.IsValidSettingKey(params.Key) {
		return nil, code.ErrorSettingKeyInvalid
	}

	setting, err := s.settingRepo.Get(ctx, uid, params.Key)
	if err != nil {
		return nil, code.ErrorSettingQueryFailed.WithDetails(err.Error())
	}
	if setting == nil {
		return &dto.SettingDTO{
			Key:   params.Key,
			Value: s.defaultValue(params.Key),
		}, nil
	}
	return s.domainToDTO(setting), nil
}

// List 获取用户全部设置，未写入的键补默认值
func (s *settingService) List(ctx context.Context, uid int64) ([]*dto.SettingDTO, error) {
	settings, err := s.settingRepo.ListAll(ctx, uid)
	if err != nil {
		return nil, code.ErrorSettingQueryFailed.WithDetails(err.Error())
	}

	seen := make(map[string]bool, len(settings))
	list := make([]*dto.SettingDTO, 0, len(settings))
	for _, setting := range settings {
		seen[setting.Key] = true
		list = append(list, s.domainToDTO(setting))
	}
	for _, key := range []string{domain.SettingKeyUserName, domain.SettingKeyTheme} {
		if !seen[key] {
			list = append(list, &dto.SettingDTO{Key: key, Value: s.defaultValue(key)})
		}
	}
	return list, nil
}

// Modify 写入设置项
// 主题取值限定为 light、dark、special
func (s *settingService) Modify(ctx context.Context, uid int64, params *dto.SettingModifyRequest) (*dto.SettingDTO, error) {
	if !domain.IsValidSettingKey(params.Key) {
		return nil, code.ErrorSettingKeyInvalid
	}
	if params.Key == domain.SettingKeyTheme && !domain.IsValidTheme(params.Value) {
		return nil, code.ErrorSettingThemeInvalid
	}

	setting, err := s.settingRepo.Save(ctx, uid, params.Key, params.Value)
	if err != nil {
		return nil, code.ErrorSettingSaveFailed.WithDetails(err.Error())
	}
	return s.domainToDTO(setting), nil
}

// Sync 获取在 lastTime 之后变更的设置
func (s *settingService) Sync(ctx context.Context, uid int64, params *dto.SettingSyncRequest) ([]*dto.SettingDTO, error) {
	settings, err := s.settingRepo.ListChangedSince(ctx, uid, params.LastTime)
	if err != nil {
		return nil, code.ErrorSettingQueryFailed.WithDetails(err.Error())
	}
	list := make([]*dto.SettingDTO, 0, len(settings))
	for _, setting := range settings {
		list = append(list, s.domainToDTO(setting))
	}
	return list, nil
}
