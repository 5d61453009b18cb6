package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *client.SQLiteClient
}

func NewUserRepository(db *client.SQLiteClient) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	model := &userModel{
		ID:           uuid.New().String(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, entity.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return model.toEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepository) getBy(ctx context.Context, cond string, value string) (*entity.User, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var model userModel
	if err := db.First(&model, cond, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return model.toEntity(), nil
}
