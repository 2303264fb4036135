// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов HTTP‑обработчиков: ошибок, сообщений валидации
// и немедленного ответа на slash-команду Slack.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse описывает JSON‑ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"

	// ResponseTypeEphemeral — ответ виден только пользователю, вызвавшему команду.
	ResponseTypeEphemeral = "ephemeral"
)

// SlackAck тело немедленного ответа на slash-команду.
type SlackAck struct {
	Text         string `json:"text"`
	ResponseType string `json:"response_type"`
}

// Ephemeral возвращает SlackAck, видимый только вызвавшему пользователю.
func Ephemeral(text string) SlackAck {
	return SlackAck{
		Text:         text,
		ResponseType: ResponseTypeEphemeral,
	}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
