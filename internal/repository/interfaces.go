package repository

import (
	"context"

	"github.com/St1cky1/todo-service/internal/entity"
)

// ITaskRepository - адаптер хранилища задач.
// Все операции над одной задачей фильтруются одновременно по id и owner_id;
// отсутствие совпадения возвращается как entity.ErrTaskNotFound.
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	FindOne(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error)
	// FindMany сортирует по created_at по убыванию и никогда не возвращает nil срез
	FindMany(ctx context.Context, filter entity.TaskListFilter) ([]entity.Task, error)
	// FindAndUpdate атомарен и возвращает документ после обновления
	FindAndUpdate(ctx context.Context, filter entity.TaskFilter, patch *entity.TaskPatch, opts entity.UpdateOptions) (*entity.Task, error)
	FindAndDelete(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error)
}

// IUserRepository - интерфейс для хранилища пользователей
type IUserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// HealthChecker реализуют клиенты хранилищ
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
