package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/repository"
)

const publishTimeout = 2 * time.Second

// EventPublisher интерфейс для публикации событий задач (RabbitMQ)
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *entity.TaskEvent) error
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService - publisher может быть nil, тогда события не отправляются
func NewTaskService(
	taskRepo repository.ITaskRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// timestamp - UTC с точностью до миллисекунд, одинаково для всех хранилищ
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string, query entity.ListTasksQuery) ([]entity.Task, error) {
	filter, err := query.Filter(ownerID)
	if err != nil {
		return nil, err
	}
	return s.taskRepo.FindMany(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	return s.taskRepo.FindOne(ctx, entity.TaskFilter{ID: taskID, OwnerID: ownerID})
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, req *entity.CreateTaskRequest) (*entity.Task, error) {
	now := s.timestamp()

	// Владелец всегда берется из токена, а не из тела запроса
	task := &entity.Task{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    entity.DefaultPriority,
		Category:    entity.DefaultCategory,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Priority != "" {
		task.Priority = entity.Priority(req.Priority)
	}
	if req.Category != "" {
		task.Category = entity.Category(req.Category)
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := entity.ParseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionCreate, created)

	return created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, ownerID string, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.taskRepo.FindAndUpdate(ctx,
		entity.TaskFilter{ID: taskID, OwnerID: ownerID},
		patch,
		entity.UpdateOptions{RunValidators: true},
	)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionUpdate, updated)

	return updated, nil
}

// buildPatch переводит запрос в патч: отсутствующие ключи не трогаем,
// пустой due_date снимает срок
func (s *TaskService) buildPatch(req *entity.UpdateTaskRequest) (*entity.TaskPatch, error) {
	patch := &entity.TaskPatch{UpdatedAt: s.timestamp()}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.Description != nil {
		description := *req.Description
		patch.Description = &description
	}
	if req.Priority != nil {
		priority := entity.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Category != nil {
		category := entity.Category(*req.Category)
		patch.Category = &category
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			patch.ClearDueDate = true
		} else {
			due, err := entity.ParseDueDate(*req.DueDate)
			if err != nil {
				return nil, err
			}
			patch.DueDate = &due
		}
	}

	return patch, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	deleted, err := s.taskRepo.FindAndDelete(ctx, entity.TaskFilter{ID: taskID, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionDelete, deleted)

	return deleted, nil
}

// ToggleTask инвертирует completed чтением и последующей записью.
// Два параллельных переключения могут схлопнуться в одно.
func (s *TaskService) ToggleTask(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	if taskID == "" {
		return nil, entity.ErrTaskNotFound
	}

	filter := entity.TaskFilter{ID: taskID, OwnerID: ownerID}

	current, err := s.taskRepo.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}

	completed := !current.Completed
	toggled, err := s.taskRepo.FindAndUpdate(ctx, filter, &entity.TaskPatch{
		Completed: &completed,
		UpdatedAt: s.timestamp(),
	}, entity.UpdateOptions{})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionToggle, toggled)

	return toggled, nil
}

// publish отправляет событие синхронно с коротким таймаутом; ошибка только логируется
func (s *TaskService) publish(ctx context.Context, action entity.TaskAction, task *entity.Task) {
	if s.publisher == nil || task == nil {
		return
	}

	event := &entity.TaskEvent{
		Action:    action,
		OwnerID:   task.OwnerID,
		TaskID:    task.ID,
		Task:      task,
		Timestamp: s.now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishTaskEvent(pubCtx, event); err != nil {
		s.logger.Warn("failed to publish task event",
			slog.String("action", string(action)),
			slog.String("task_id", task.ID),
			slog.Any("err", err),
		)
		return
	}

	s.logger.Debug("task event published",
		slog.String("action", string(action)),
		slog.String("task_id", task.ID),
	)
}
