package dao

import (
	"context"

	"github.com/dailynotes/daily-note-sync-service/internal/domain"
	"github.com/dailynotes/daily-note-sync-service/internal/model"
	"github.com/dailynotes/daily-note-sync-service/pkg/timex"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		ClientID:  m.ClientID,
		Nickname:  m.Nickname,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

// GetByClientID 根据客户端标识获取用户
func (r *userRepository) GetByClientID(ctx context.Context, clientID string) (*domain.User, error) {
	r.dao.useTable("User")

	var m model.User
	err := r.dao.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUID 根据用户ID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	r.dao.useTable("User")

	var m model.User
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.dao.useTable("User")

	m := &model.User{
		ClientID:  user.ClientID,
		Nickname:  user.Nickname,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// ListAll 获取全部用户
func (r *userRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	r.dao.useTable("User")

	var ms []*model.User
	if err := r.dao.db.WithContext(ctx).Find(&ms).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, r.toDomain(m))
	}
	return users, nil
}
