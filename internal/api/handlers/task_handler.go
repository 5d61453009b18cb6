package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/auth"
	"github.com/St1cky1/todo-service/internal/usecase"
)

// TokenVerifier - проверка bearer токена; nil означает отказ
type TokenVerifier interface {
	VerifyToken(token string) *entity.Principal
}

type TaskHandler struct {
	taskService *usecase.TaskService
	verifier    TokenVerifier
	errors      errorMapper
}

func NewTaskHandler(taskService *usecase.TaskService, verifier TokenVerifier, exposeDetails bool, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		verifier:    verifier,
		errors:      errorMapper{exposeDetails: exposeDetails, logger: logger},
	}
}

func (h *TaskHandler) authenticate(req Request) *entity.Principal {
	return h.verifier.VerifyToken(auth.ExtractToken(req.Authorization))
}

// Collection обслуживает /api/tasks: GET - список, POST - создание
func (h *TaskHandler) Collection(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}

	principal := h.authenticate(req)
	if principal == nil {
		return fail(http.StatusUnauthorized, msgUnauthorized)
	}

	switch req.Method {
	case http.MethodGet:
		return h.listTasks(ctx, principal, req)
	case http.MethodPost:
		return h.createTask(ctx, principal, req)
	default:
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// Item обслуживает /api/tasks/{id}
func (h *TaskHandler) Item(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}

	principal := h.authenticate(req)
	if principal == nil {
		return fail(http.StatusUnauthorized, msgUnauthorized)
	}

	switch req.Method {
	case http.MethodGet:
		return h.getTask(ctx, principal, req)
	case http.MethodPut:
		return h.updateTask(ctx, principal, req)
	case http.MethodDelete:
		return h.deleteTask(ctx, principal, req)
	default:
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// Toggle обслуживает /api/tasks/toggle. Метод проверяется до токена.
func (h *TaskHandler) Toggle(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}
	if req.Method != http.MethodPatch {
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	principal := h.authenticate(req)
	if principal == nil {
		return fail(http.StatusUnauthorized, msgUnauthorized)
	}

	var body entity.ToggleTaskRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return h.errors.invalidJSON(err)
	}

	task, err := h.taskService.ToggleTask(ctx, body.ID, principal.UserID)
	if err != nil {
		return h.errors.respond("toggle task", err, "Failed to toggle task")
	}

	return ok(task)
}

func (h *TaskHandler) listTasks(ctx context.Context, principal *entity.Principal, req Request) Response {
	query := entity.ListTasksQuery{
		Completed: req.Query["completed"],
		Priority:  req.Query["priority"],
		Category:  req.Query["category"],
	}

	tasks, err := h.taskService.ListTasks(ctx, principal.UserID, query)
	if err != nil {
		return h.errors.respond("list tasks", err, "Failed to fetch tasks")
	}

	return ok(tasks)
}

func (h *TaskHandler) createTask(ctx context.Context, principal *entity.Principal, req Request) Response {
	var body entity.CreateTaskRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return h.errors.invalidJSON(err)
	}

	task, err := h.taskService.CreateTask(ctx, principal.UserID, &body)
	if err != nil {
		return h.errors.respond("create task", err, "Failed to create task")
	}

	return Response{Status: http.StatusCreated, Body: task}
}

func (h *TaskHandler) getTask(ctx context.Context, principal *entity.Principal, req Request) Response {
	task, err := h.taskService.GetTask(ctx, req.ID, principal.UserID)
	if err != nil {
		return h.errors.respond("get task", err, "Failed to fetch task")
	}

	return ok(task)
}

func (h *TaskHandler) updateTask(ctx context.Context, principal *entity.Principal, req Request) Response {
	var body entity.UpdateTaskRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return h.errors.invalidJSON(err)
	}

	task, err := h.taskService.UpdateTask(ctx, req.ID, principal.UserID, &body)
	if err != nil {
		return h.errors.respond("update task", err, "Failed to update task")
	}

	return ok(task)
}

func (h *TaskHandler) deleteTask(ctx context.Context, principal *entity.Principal, req Request) Response {
	if _, err := h.taskService.DeleteTask(ctx, req.ID, principal.UserID); err != nil {
		return h.errors.respond("delete task", err, "Failed to delete task")
	}

	return ok(MessageResponse{Message: "Task deleted successfully"})
}
