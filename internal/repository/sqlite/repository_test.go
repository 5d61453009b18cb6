package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient поднимает sqlite в памяти с примененной схемой
func setupTestClient(t *testing.T) *client.SQLiteClient {
	t.Helper()

	db := client.NewSQLiteClient(client.SQLiteConfig{Path: ":memory:"}, AutoMigrate)
	t.Cleanup(func() {
		_ = db.Close(context.Background())
	})
	return db
}

func newTask(owner, title string, createdAt time.Time) *entity.Task {
	return &entity.Task{
		OwnerID:   owner,
		Title:     title,
		Priority:  entity.DefaultPriority,
		Category:  entity.DefaultCategory,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTaskRepository_CreateAndFindOne(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(setupTestClient(t))

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	task := newTask("user-1", "Buy milk", now)
	task.DueDate = &due

	created, err := repo.Create(ctx, task)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.FindOne(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", found.Title)
	assert.Equal(t, entity.PriorityMedium, found.Priority)
	require.NotNil(t, found.DueDate)
	assert.True(t, due.Equal(*found.DueDate))

	// чужой владелец не видит задачу
	_, err = repo.FindOne(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-2"})
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)

	_, err = repo.FindOne(ctx, entity.TaskFilter{ID: "not-an-id", OwnerID: "user-1"})
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestTaskRepository_FindMany(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(setupTestClient(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, newTask("user-1", title, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newTask("user-2", "foreign", base))
	require.NoError(t, err)

	tasks, err := repo.FindMany(ctx, entity.TaskListFilter{OwnerID: "user-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)

	empty, err := repo.FindMany(ctx, entity.TaskListFilter{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	completed := true
	filtered, err := repo.FindMany(ctx, entity.TaskListFilter{OwnerID: "user-1", Completed: &completed})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestTaskRepository_FindAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(setupTestClient(t))

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	due := now.Add(time.Hour)
	task := newTask("user-1", "Draft", now)
	task.DueDate = &due
	created, err := repo.Create(ctx, task)
	require.NoError(t, err)

	title := "Final"
	completed := true
	later := now.Add(time.Minute)
	patch := &entity.TaskPatch{
		Title:        &title,
		Completed:    &completed,
		ClearDueDate: true,
		UpdatedAt:    later,
	}

	updated, err := repo.FindAndUpdate(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-1"}, patch, entity.UpdateOptions{RunValidators: true})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.DueDate)
	assert.True(t, later.Equal(updated.UpdatedAt))
	assert.True(t, now.Equal(updated.CreatedAt))

	_, err = repo.FindAndUpdate(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-2"}, patch, entity.UpdateOptions{})
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)

	empty := ""
	_, err = repo.FindAndUpdate(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-1"}, &entity.TaskPatch{Title: &empty}, entity.UpdateOptions{RunValidators: true})
	assert.ErrorIs(t, err, entity.ErrInvalidTaskData)
}

func TestTaskRepository_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(setupTestClient(t))

	created, err := repo.Create(ctx, newTask("user-1", "Temp", time.Now().UTC()))
	require.NoError(t, err)

	_, err = repo.FindAndDelete(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-2"})
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)

	deleted, err := repo.FindAndDelete(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.FindAndDelete(ctx, entity.TaskFilter{ID: created.ID, OwnerID: "user-1"})
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestClient(t))

	now := time.Now().UTC()
	user := &entity.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Avatar:       3,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.Username)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, byID.Avatar)

	_, err = repo.Create(ctx, user)
	assert.ErrorIs(t, err, entity.ErrUserExists)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
