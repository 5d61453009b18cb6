package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/St1cky1/todo-service/internal/entity"
)

// Request - входящий запрос без привязки к net/http
type Request struct {
	Method        string
	Authorization string
	ID            string
	Query         map[string]string
	Body          []byte
}

// Response - ответ; nil Body означает пустое тело
type Response struct {
	Status int
	Body   interface{}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	msgUnauthorized     = "Unauthorized"
	msgMethodNotAllowed = "Method not allowed"
	msgTaskNotFound     = "Task not found"
	msgInvalidJSON      = "Invalid JSON"
)

func ok(body interface{}) Response {
	return Response{Status: http.StatusOK, Body: body}
}

func fail(status int, message string) Response {
	return Response{Status: status, Body: ErrorResponse{Error: message}}
}

// errorMapper переводит ошибки usecase слоя в HTTP ответы
type errorMapper struct {
	exposeDetails bool
	logger        *slog.Logger
}

// respond выбирает статус по типу ошибки. message используется для 400 и 500.
func (m errorMapper) respond(op string, err error, message string) Response {
	switch entity.KindOf(err) {
	case entity.KindValidation:
		// детали валидации описывают ввод клиента, поэтому отдаются всегда
		return Response{Status: http.StatusBadRequest, Body: ErrorResponse{Error: message, Details: err.Error()}}
	case entity.KindNotFound:
		return fail(http.StatusNotFound, msgTaskNotFound)
	case entity.KindUnauthenticated:
		return fail(http.StatusUnauthorized, msgUnauthorized)
	case entity.KindMethodNotAllowed:
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	case entity.KindConflict:
		return fail(http.StatusConflict, message)
	}

	m.logger.Error("request failed", slog.String("op", op), slog.Any("err", err))

	resp := ErrorResponse{Error: message}
	if m.exposeDetails {
		resp.Details = err.Error()
	}
	return Response{Status: http.StatusInternalServerError, Body: resp}
}

func (m errorMapper) invalidJSON(err error) Response {
	resp := ErrorResponse{Error: msgInvalidJSON}
	if m.exposeDetails {
		resp.Details = err.Error()
	}
	return Response{Status: http.StatusBadRequest, Body: resp}
}

// decodeBody разбирает JSON тело; пустое тело равносильно {}
func decodeBody(body []byte, dst interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}
