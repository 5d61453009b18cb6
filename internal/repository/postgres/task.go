package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const taskColumns = `id, owner_id, title, description, priority, category, due_date, completed, created_at, updated_at`

// коды ошибок postgres
const (
	pgCheckViolation   = "23514"
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgStringTooLong    = "22001"
)

type TaskRepository struct {
	db *client.PostgresClient
}

func NewTaskRepository(db *client.PostgresClient) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO tasks (id, owner_id, title, description, priority, category, due_date, completed, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + taskColumns

	created, err := scanTask(pool.QueryRow(ctx, query,
		uuid.New(),
		task.OwnerID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Category),
		task.DueDate,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	))
	if err != nil {
		return nil, translateError("create task", err)
	}

	return created, nil
}

func (r *TaskRepository) FindOne(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	id, err := uuid.Parse(filter.ID)
	if err != nil {
		return nil, entity.ErrTaskNotFound
	}

	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(pool.QueryRow(ctx, query, id, filter.OwnerID))
	if err != nil {
		return nil, translateError("find task", err)
	}

	return task, nil
}

// FindMany - список задач владельца с фильтрацией
func (r *TaskRepository) FindMany(ctx context.Context, filter entity.TaskListFilter) ([]entity.Task, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	args := []interface{}{filter.OwnerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += " AND completed = $" + strconv.Itoa(len(args))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		query += " AND priority = $" + strconv.Itoa(len(args))
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		query += " AND category = $" + strconv.Itoa(len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, translateError("scan task", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list tasks", err)
	}

	return tasks, nil
}

// FindAndUpdate - одно UPDATE ... RETURNING, поэтому совпадение фильтра и запись атомарны
func (r *TaskRepository) FindAndUpdate(ctx context.Context, filter entity.TaskFilter, patch *entity.TaskPatch, opts entity.UpdateOptions) (*entity.Task, error) {
	if opts.RunValidators {
		if err := patch.Validate(); err != nil {
			return nil, err
		}
	}

	id, err := uuid.Parse(filter.ID)
	if err != nil {
		return nil, entity.ErrTaskNotFound
	}

	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	// Динамически строим SET часть запроса
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 10)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.Category != nil {
		set("category", string(*patch.Category))
	}
	if patch.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}
	set("updated_at", patch.UpdatedAt)

	args = append(args, id, filter.OwnerID)
	query := `
	UPDATE tasks
	SET ` + strings.Join(sets, ", ") + `
	WHERE id = $` + strconv.Itoa(len(args)-1) + ` AND owner_id = $` + strconv.Itoa(len(args)) + `
	RETURNING ` + taskColumns

	task, err := scanTask(pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError("update task", err)
	}

	return task, nil
}

func (r *TaskRepository) FindAndDelete(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	id, err := uuid.Parse(filter.ID)
	if err != nil {
		return nil, entity.ErrTaskNotFound
	}

	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns

	task, err := scanTask(pool.QueryRow(ctx, query, id, filter.OwnerID))
	if err != nil {
		return nil, translateError("delete task", err)
	}

	return task, nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		task     entity.Task
		id       uuid.UUID
		priority string
		category string
	)

	err := row.Scan(
		&id,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&priority,
		&category,
		&task.DueDate,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.ID = id.String()
	task.Priority = entity.Priority(priority)
	task.Category = entity.Category(category)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}

	return &task, nil
}

// translateError переводит ошибки драйвера в таксономию entity
func translateError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrTaskNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation, pgNotNullViolation, pgStringTooLong:
			return &entity.ValidationError{
				Base:   entity.ErrInvalidTaskData,
				Field:  pgErr.ColumnName,
				Reason: pgErr.Message,
			}
		case pgUniqueViolation:
			return entity.ErrUserExists
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
