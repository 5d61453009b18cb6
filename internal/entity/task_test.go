package entity

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() *Task {
	return &Task{
		OwnerID:  "user-1",
		Title:    "Buy milk",
		Priority: DefaultPriority,
		Category: DefaultCategory,
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *Task)
		field   string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Task) {}},
		{name: "empty title", mutate: func(t *Task) { t.Title = "" }, field: "title", wantErr: true},
		{name: "unknown priority", mutate: func(t *Task) { t.Priority = "urgent" }, field: "priority", wantErr: true},
		{name: "unknown category", mutate: func(t *Task) { t.Category = "hobby" }, field: "category", wantErr: true},
		{name: "missing owner", mutate: func(t *Task) { t.OwnerID = "" }, field: "owner_id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)

			err := task.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTaskData)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTaskPatchValidate(t *testing.T) {
	empty := ""
	bad := Priority("urgent")
	high := PriorityHigh

	assert.NoError(t, (&TaskPatch{}).Validate())
	assert.NoError(t, (&TaskPatch{Priority: &high}).Validate())
	assert.ErrorIs(t, (&TaskPatch{Title: &empty}).Validate(), ErrInvalidTaskData)
	assert.ErrorIs(t, (&TaskPatch{Priority: &bad}).Validate(), ErrInvalidTaskData)
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	high := PriorityHigh

	task := validTask()
	task.Description = "2 liters"
	task.DueDate = &due

	(&TaskPatch{Priority: &high, UpdatedAt: now}).Apply(task)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, now, task.UpdatedAt)

	(&TaskPatch{ClearDueDate: true, UpdatedAt: now}).Apply(task)
	assert.Nil(t, task.DueDate)
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDueDate("2026-03-15T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC), got)

	_, err = ParseDueDate("next tuesday")
	assert.ErrorIs(t, err, ErrInvalidTaskData)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("find: %w", ErrTaskNotFound)))
	assert.Equal(t, KindValidation, KindOf(NewTaskValidationError("title", "is required")))
	assert.Equal(t, KindUnauthenticated, KindOf(ErrUnauthorized))
	assert.Equal(t, KindConflict, KindOf(ErrUserExists))
	assert.Equal(t, KindMethodNotAllowed, KindOf(ErrMethodNotAllowed))
	assert.Equal(t, KindStore, KindOf(errors.New("connection reset")))
	assert.Equal(t, "NOT_FOUND", KindNotFound.String())
}

func TestRegisterRequestValidate(t *testing.T) {
	req := &RegisterRequest{Username: "  alice ", Email: " Alice@Example.com ", Password: "secret1"}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)

	req.Email = "not-an-email"
	err := req.Validate()
	assert.ErrorIs(t, err, ErrInvalidUserData)
	assert.Contains(t, err.Error(), "email")
}
