package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memUserRepo 内存版用户仓储
type memUserRepo struct {
	mu      sync.Mutex
	nextUID int64
	users   map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (m *memUserRepo) GetByClientID(ctx context.Context, clientID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ClientID == clientID {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUID++
	c := *user
	c.UID = m.nextUID
	m.users[c.UID] = &c
	out := c
	return &out, nil
}

func (m *memUserRepo) ListAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

// stubTokenManager 返回可预测令牌
type stubTokenManager struct{}

func (s *stubTokenManager) Generate(uid int64, nickname, ip string) (string, error) {
	return fmt.Sprintf("token-%d", uid), nil
}

func (s *stubTokenManager) Parse(token string) (*app.UserEntity, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubTokenManager) Validate(token string) error { return nil }

func (s *stubTokenManager) GetSecretKey() string { return "test" }

func newUserTestService(registerEnabled bool) (UserService, *memUserRepo) {
	repo := newMemUserRepo()
	cfg := &ServiceConfig{
		User: UserServiceConfig{RegisterIsEnable: registerEnabled, GuestNickname: "Guest"},
	}
	return NewUserService(repo, &stubTokenManager{}, cfg), repo
}

func TestUserAnonymousRegisters(t *testing.T) {
	svc, repo := newUserTestService(true)
	ctx := context.Background()

	result, err := svc.Anonymous(ctx, &dto.UserAnonymousRequest{ClientID: "device-1", Nickname: "Alex"}, "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.IsGuest)
	assert.Equal(t, "Alex", result.Nickname)
	assert.NotZero(t, result.UID)
	assert.Equal(t, fmt.Sprintf("token-%d", result.UID), result.Token)

	// 同一客户端标识总是映射到同一用户
	again, err := svc.Anonymous(ctx, &dto.UserAnonymousRequest{ClientID: "device-1"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, result.UID, again.UID)

	users, _ := repo.ListAll(ctx)
	assert.Len(t, users, 1)
}

func TestUserAnonymousDefaultNickname(t *testing.T) {
	svc, _ := newUserTestService(true)

	result, err := svc.Anonymous(context.Background(), &dto.UserAnonymousRequest{ClientID: "device-2"}, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Nickname)
}

func TestUserAnonymousGuestFallback(t *testing.T) {
	svc, repo := newUserTestService(false)

	result, err := svc.Anonymous(context.Background(), &dto.UserAnonymousRequest{ClientID: "device-3"}, "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, result.IsGuest)
	assert.Equal(t, GuestUID, result.UID)
	assert.Equal(t, "Guest", result.Nickname)

	// 注册关闭时不落库
	users, _ := repo.ListAll(context.Background())
	assert.Empty(t, users)
}

func TestUserVerifyUID(t *testing.T) {
	svc, repo := newUserTestService(true)
	ctx := context.Background()

	user, _ := repo.Create(ctx, &domain.User{ClientID: "device-4", Nickname: "Alex"})

	nickname, err := svc.VerifyUID(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", nickname)

	nickname, err = svc.VerifyUID(ctx, GuestUID)
	require.NoError(t, err)
	assert.Equal(t, "Guest", nickname)

	_, err = svc.VerifyUID(ctx, 9999)
	assert.Equal(t, code.ErrorUserNotExist, err)
}
