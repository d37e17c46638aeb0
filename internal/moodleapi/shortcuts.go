package moodleapi

import (
	"fmt"

	"MoodleWS/internal/moodleapi/models"
	"MoodleWS/internal/moodleapi/options"
	"MoodleWS/pkg/logging"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ShortcutFunc - привязанный вызов Submit с зафиксированными методом и wsfunction
type ShortcutFunc func(params map[string]interface{}, opts ...options.Option) (interface{}, error)

// RegisterShortcut привязывает к клиенту именованный вызов: Call(name, ...)
// будет выполнять Submit(method, wsfunction, ...). Возвращает тот же
// экземпляр клиента, регистрации можно выстраивать цепочкой. Операции
// удаления шортката нет.
func (m *moodleapi) RegisterShortcut(name string, wsfunction string, method string) (MOODLEAPI, error) {
	logger := logging.GetLogger()
	logger.Debugf("RegisterShortcut: %s -> %s %s", name, method, wsfunction)

	if err := validation.Validate(name, validation.Required, validation.Match(identifierRe)); err != nil {
		return nil, &models.ValidationError{Field: "name", Err: err}
	}
	method, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	wsfunction, err = normalizeWSFunction(wsfunction)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.shortcuts[name] = func(params map[string]interface{}, opts ...options.Option) (interface{}, error) {
		return m.Submit(method, wsfunction, params, opts...)
	}
	m.mu.Unlock()

	return m, nil
}

// RegisterShortcuts регистрирует пачку шорткатов из map вида
// {name: [wsfunction, method]}. Если хотя бы одно значение не является парой
// из двух строк, не регистрируется ничего.
func (m *moodleapi) RegisterShortcuts(shortcuts map[string][]string) (MOODLEAPI, error) {
	for name, pair := range shortcuts {
		if len(pair) != 2 {
			return nil, &models.ValidationError{
				Field: name,
				Err:   fmt.Errorf("shortcut value must be a [wsfunction, method] pair, got %d elements", len(pair)),
			}
		}
	}
	for name, pair := range shortcuts {
		if _, err := m.RegisterShortcut(name, pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Shortcut возвращает привязанный вызов по имени
func (m *moodleapi) Shortcut(name string) (ShortcutFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.shortcuts[name]
	return fn, ok
}

// Call выполняет ранее зарегистрированный шорткат
func (m *moodleapi) Call(name string, params map[string]interface{}, opts ...options.Option) (interface{}, error) {
	fn, ok := m.Shortcut(name)
	if !ok {
		return nil, &models.ValidationError{Field: "name", Err: fmt.Errorf("unknown shortcut %q", name)}
	}
	return fn(params, opts...)
}
