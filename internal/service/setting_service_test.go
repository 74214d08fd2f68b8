package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSettingRepo 内存版设置仓储
type memSettingRepo struct {
	mu       sync.Mutex
	seq      int64
	settings map[string]*domain.Setting // key: "uid/key"
}

func newMemSettingRepo() *memSettingRepo {
	return &memSettingRepo{settings: make(map[string]*domain.Setting)}
}

func (m *memSettingRepo) storeKey(uid int64, key string) string {
	return fmt.Sprintf("%d/%s", uid, key)
}

func (m *memSettingRepo) Get(ctx context.Context, uid int64, key string) (*domain.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[m.storeKey(uid, key)]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (m *memSettingRepo) ListAll(ctx context.Context, uid int64) ([]*domain.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Setting
	for _, s := range m.settings {
		if s.UID == uid {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memSettingRepo) ListChangedSince(ctx context.Context, uid int64, timestamp int64) ([]*domain.Setting, error) {
	all, _ := m.ListAll(ctx, uid)
	var out []*domain.Setting
	for _, s := range all {
		if s.UpdatedTimestamp > timestamp {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSettingRepo) Save(ctx context.Context, uid int64, key, value string) (*domain.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s := &domain.Setting{UID: uid, Key: key, Value: value, UpdatedTimestamp: m.seq}
	m.settings[m.storeKey(uid, key)] = s
	c := *s
	return &c, nil
}

func newSettingTestService() (SettingService, *memSettingRepo) {
	repo := newMemSettingRepo()
	cfg := &ServiceConfig{
		App: AppServiceConfig{DefaultUserName: "Me", DefaultTheme: "light"},
	}
	return NewSettingService(repo, cfg), repo
}

func TestSettingGetDefaults(t *testing.T) {
	svc, _ := newSettingTestService()
	ctx := context.Background()

	setting, err := svc.Get(ctx, 1, &dto.SettingGetRequest{Key: domain.SettingKeyTheme})
	require.NoError(t, err)
	assert.Equal(t, "light", setting.Value)
	assert.Zero(t, setting.UpdatedTimestamp)

	setting, err = svc.Get(ctx, 1, &dto.SettingGetRequest{Key: domain.SettingKeyUserName})
	require.NoError(t, err)
	assert.Equal(t, "Me", setting.Value)

	_, err = svc.Get(ctx, 1, &dto.SettingGetRequest{Key: "fontSize"})
	assert.Equal(t, code.ErrorSettingKeyInvalid, err)
}

func TestSettingModify(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr *code.Code
	}{
		{"valid theme", domain.SettingKeyTheme, "dark", nil},
		{"special theme", domain.SettingKeyTheme, "special", nil},
		{"unknown theme rejected", domain.SettingKeyTheme, "solarized", code.ErrorSettingThemeInvalid},
		{"user name accepted", domain.SettingKeyUserName, "Alex", nil},
		{"unknown key rejected", "fontSize", "12", code.ErrorSettingKeyInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSettingTestService()
			setting, err := svc.Modify(context.Background(), 1, &dto.SettingModifyRequest{Key: tt.key, Value: tt.value})
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, setting.Value)
		})
	}
}

func TestSettingModifyOverwrites(t *testing.T) {
	svc, _ := newSettingTestService()
	ctx := context.Background()

	_, err := svc.Modify(ctx, 1, &dto.SettingModifyRequest{Key: domain.SettingKeyTheme, Value: "dark"})
	require.NoError(t, err)
	_, err = svc.Modify(ctx, 1, &dto.SettingModifyRequest{Key: domain.SettingKeyTheme, Value: "special"})
	require.NoError(t, err)

	setting, err := svc.Get(ctx, 1, &dto.SettingGetRequest{Key: domain.SettingKeyTheme})
	require.NoError(t, err)
	assert.Equal(t, "special", setting.Value)
}

func TestSettingListFillsDefaults(t *testing.T) {
	svc, _ := newSettingTestService()
	ctx := context.Background()

	_, err := svc.Modify(ctx, 1, &dto.SettingModifyRequest{Key: domain.SettingKeyUserName, Value: "Alex"})
	require.NoError(t, err)

	settings, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, settings, 2)

	values := make(map[string]string)
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	assert.Equal(t, "Alex", values[domain.SettingKeyUserName])
	assert.Equal(t, "light", values[domain.SettingKeyTheme])
}

func TestSettingSync(t *testing.T) {
	svc, _ := newSettingTestService()
	ctx := context.Background()

	first, err := svc.Modify(ctx, 1, &dto.SettingModifyRequest{Key: domain.SettingKeyUserName, Value: "Alex"})
	require.NoError(t, err)
	_, err = svc.Modify(ctx, 1, &dto.SettingModifyRequest{Key: domain.SettingKeyTheme, Value: "dark"})
	require.NoError(t, err)

	changed, err := svc.Sync(ctx, 1, &dto.SettingSyncRequest{LastTime: first.UpdatedTimestamp})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, domain.SettingKeyTheme, changed[0].Key)
}
