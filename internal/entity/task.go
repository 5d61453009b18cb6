package entity

import (
	"strconv"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

const (
	DefaultPriority = PriorityMedium
	DefaultCategory = CategoryPersonal
)

type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Category    Category   `json:"category" validate:"required,oneof=personal work shopping health other"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) Validate() error {
	return validateStruct(t, ErrInvalidTaskData)
}

// TaskFilter - фильтр по владельцу, обязателен для любой операции над одной задачей
type TaskFilter struct {
	ID      string
	OwnerID string
}

type TaskListFilter struct {
	OwnerID   string
	Completed *bool
	Priority  *Priority
	Category  *Category
}

// TaskPatch - частичное обновление: nil означает "поле не передано".
type TaskPatch struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string    `json:"description" validate:"omitnil,max=2000"`
	Priority    *Priority  `json:"priority" validate:"omitnil,oneof=low medium high"`
	Category    *Category  `json:"category" validate:"omitnil,oneof=personal work shopping health other"`
	DueDate     *time.Time `json:"due_date"`
	// ClearDueDate - клиент явно передал пустой due_date
	ClearDueDate bool      `json:"-"`
	Completed    *bool     `json:"completed"`
	UpdatedAt    time.Time `json:"-"`
}

func (p *TaskPatch) Validate() error {
	return validateStruct(p, ErrInvalidTaskData)
}

// Apply накладывает патч на задачу в памяти
func (p *TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = p.UpdatedAt
}

type UpdateOptions struct {
	RunValidators bool
}

// входные данные HTTP слоя

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	DueDate     *string `json:"due_date"` // "" - снять срок, nil - не трогать
}

type ToggleTaskRequest struct {
	ID string `json:"id"`
}

// ListTasksQuery - необязательные фильтры списка из query string
type ListTasksQuery struct {
	Completed string
	Priority  string
	Category  string
}

func (q ListTasksQuery) Filter(ownerID string) (TaskListFilter, error) {
	filter := TaskListFilter{OwnerID: ownerID}

	if q.Completed != "" {
		completed, err := strconv.ParseBool(q.Completed)
		if err != nil {
			return filter, NewTaskValidationError("completed", "must be true or false")
		}
		filter.Completed = &completed
	}
	if q.Priority != "" {
		priority := Priority(q.Priority)
		if !priority.Valid() {
			return filter, NewTaskValidationError("priority", "must be one of: low, medium, high")
		}
		filter.Priority = &priority
	}
	if q.Category != "" {
		category := Category(q.Category)
		if !category.Valid() {
			return filter, NewTaskValidationError("category", "must be one of: personal, work, shopping, health, other")
		}
		filter.Category = &category
	}

	return filter, nil
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDueDate принимает YYYY-MM-DD или RFC3339 и возвращает время в UTC.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewTaskValidationError("due_date", "must be a date in YYYY-MM-DD or RFC3339 format")
}
