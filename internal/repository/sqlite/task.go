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

type TaskRepository struct {
	db *client.SQLiteClient
}

func NewTaskRepository(db *client.SQLiteClient) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	model := newTaskModel(task)
	model.ID = uuid.New().String()

	if err := db.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return model.toEntity(), nil
}

func (r *TaskRepository) FindOne(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	model, err := findOwned(db, filter)
	if err != nil {
		return nil, err
	}

	return model.toEntity(), nil
}

func (r *TaskRepository) FindMany(ctx context.Context, filter entity.TaskListFilter) ([]entity.Task, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Where("owner_id = ?", filter.OwnerID)
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}

	var models []taskModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]entity.Task, 0, len(models))
	for i := range models {
		tasks = append(tasks, *models[i].toEntity())
	}

	return tasks, nil
}

// FindAndUpdate выполняет поиск, запись и повторное чтение в одной транзакции
func (r *TaskRepository) FindAndUpdate(ctx context.Context, filter entity.TaskFilter, patch *entity.TaskPatch, opts entity.UpdateOptions) (*entity.Task, error) {
	if opts.RunValidators {
		if err := patch.Validate(); err != nil {
			return nil, err
		}
	}

	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Priority != nil {
		updates["priority"] = string(*patch.Priority)
	}
	if patch.Category != nil {
		updates["category"] = string(*patch.Category)
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	var updated *taskModel
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&taskModel{}).
			Where("id = ? AND owner_id = ?", filter.ID, filter.OwnerID).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entity.ErrTaskNotFound
		}

		model, err := findOwned(tx, filter)
		if err != nil {
			return err
		}
		updated = model
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated.toEntity(), nil
}

func (r *TaskRepository) FindAndDelete(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var deleted *taskModel
	err = db.Transaction(func(tx *gorm.DB) error {
		model, err := findOwned(tx, filter)
		if err != nil {
			return err
		}

		if err := tx.Delete(&taskModel{}, "id = ? AND owner_id = ?", filter.ID, filter.OwnerID).Error; err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		deleted = model
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted.toEntity(), nil
}

func findOwned(db *gorm.DB, filter entity.TaskFilter) (*taskModel, error) {
	var model taskModel
	err := db.First(&model, "id = ? AND owner_id = ?", filter.ID, filter.OwnerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &model, nil
}
