package models

import (
	"fmt"
	"strings"
)

// WSError - ошибка уровня веб-сервиса Moodle: HTTP запрос прошел успешно,
// но в JSON ответе присутствует ключ "exception"
type WSError struct {
	responseData map[string]interface{}
	message      string
}

// NewWSError собирает ошибку из декодированного ответа сервиса.
// Если ответ не является map, данные заменяются на пустой map.
func NewWSError(responseData interface{}) *WSError {
	data, ok := responseData.(map[string]interface{})
	if !ok || data == nil {
		data = map[string]interface{}{}
	}

	var b strings.Builder
	if s := stringField(data, "exception"); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}
	if s := stringField(data, "message"); s != "" {
		b.WriteString(s)
	} else {
		b.WriteString("unknown webservice error")
	}
	if s := stringField(data, "errorcode"); s != "" {
		fmt.Fprintf(&b, " (Error Code: %s)", s)
	}

	return &WSError{
		responseData: data,
		message:      b.String(),
	}
}

func (e *WSError) Error() string {
	return e.message
}

// Response возвращает исходный декодированный ответ сервиса
func (e *WSError) Response() map[string]interface{} {
	return e.responseData
}

func stringField(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ValidationError - некорректный входной аргумент, запрос в сеть не отправлялся
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TypeConversionError - в дереве параметров встретился тип, который нельзя
// закодировать в query-параметры
type TypeConversionError struct {
	Path  string
	Value interface{}
}

func (e *TypeConversionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot encode value of type %T", e.Value)
	}
	return fmt.Sprintf("cannot encode value of type %T at %q", e.Value, e.Path)
}
