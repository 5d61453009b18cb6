package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"gorm.io/gorm"
)

type taskModel struct {
	ID          string     `gorm:"primarykey;size:36"`
	OwnerID     string     `gorm:"size:64;not null;index:idx_tasks_owner_created,priority:1"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:2000;not null;default:''"`
	Priority    string     `gorm:"size:10;not null;default:medium"`
	Category    string     `gorm:"size:20;not null;default:personal"`
	DueDate     *time.Time
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null;index:idx_tasks_owner_created,priority:2,sort:desc"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func newTaskModel(t *entity.Task) *taskModel {
	return &taskModel{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *taskModel) toEntity() *entity.Task {
	task := &entity.Task{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Priority:    entity.Priority(m.Priority),
		Category:    entity.Category(m.Category),
		Completed:   m.Completed,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.DueDate != nil {
		due := m.DueDate.UTC()
		task.DueDate = &due
	}
	return task
}

type userModel struct {
	ID           string    `gorm:"primarykey;size:36"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Avatar       int       `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string {
	return "users"
}

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Avatar:       m.Avatar,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// AutoMigrate создает таблицы. Подходит как client.SQLiteHook.
func AutoMigrate(_ context.Context, db *gorm.DB) error {
	if err := db.AutoMigrate(&taskModel{}, &userModel{}); err != nil {
		return fmt.Errorf("ошибка миграции sqlite: %w", err)
	}
	return nil
}
