package moodleapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"MoodleWS/internal/moodleapi/models"
	"MoodleWS/internal/moodleapi/options"
	"MoodleWS/pkg/logging"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// RestEndpoint - фиксированный путь REST сервера относительно базового URL
const RestEndpoint = "webservice/rest/server.php"

var (
	tokenRe      = regexp.MustCompile(`^[a-z0-9]{32}$`)
	wsFunctionRe = regexp.MustCompile(`^[a-z_]+$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type MOODLEAPI interface {
	Submit(method string, wsfunction string, params map[string]interface{}, opts ...options.Option) (interface{}, error)

	RegisterShortcut(name string, wsfunction string, method string) (MOODLEAPI, error)
	RegisterShortcuts(shortcuts map[string][]string) (MOODLEAPI, error)
	Shortcut(name string) (ShortcutFunc, bool)
	Call(name string, params map[string]interface{}, opts ...options.Option) (interface{}, error)

	BaseURL() string
	Options() options.Options
}

type moodleapi struct {
	baseURL string
	token   string
	opts    *options.Options
	rest    *resty.Client

	mu        sync.RWMutex
	shortcuts map[string]ShortcutFunc
}

// NewAPI проверяет параметры подключения и создает клиент веб-сервиса.
// baseURL - абсолютный https URL установки Moodle, token - 32-символьный
// токен веб-сервиса в нижнем регистре. Сам клиент после создания не
// изменяется, параллельные вызовы Submit безопасны.
func NewAPI(baseURL string, token string, opts ...options.Option) (MOODLEAPI, error) {
	logger := logging.GetLogger()
	logger.Println("NewAPI:>Start")
	defer logger.Println("NewAPI:>End")

	if err := validation.Validate(baseURL, validation.Required, is.URL); err != nil {
		return nil, &models.ValidationError{Field: "baseurl", Err: err}
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &models.ValidationError{Field: "baseurl", Err: err}
	}
	if u.Scheme != "https" || u.Host == "" {
		return nil, &models.ValidationError{Field: "baseurl", Err: fmt.Errorf("must be an absolute https URL, got %q", baseURL)}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	if err := validation.Validate(token, validation.Required, validation.Match(tokenRe)); err != nil {
		return nil, &models.ValidationError{Field: "token", Err: err}
	}

	o := options.Default()
	if err := o.Apply(opts...); err != nil {
		return nil, &models.ValidationError{Field: "options", Err: err}
	}

	rest := resty.New()
	if o.AcceptUntrustedCert {
		rest.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	m := &moodleapi{
		baseURL:   baseURL,
		token:     token,
		opts:      o,
		rest:      rest,
		shortcuts: make(map[string]ShortcutFunc),
	}

	// встроенный шорткат для проверки доступности сервиса
	if _, err := m.RegisterShortcut("ping", "core_webservice_get_site_info", http.MethodGet); err != nil {
		return nil, err
	}

	logger.Debugf("baseURL: %s", m.baseURL)
	return m, nil
}

// Submit выполняет ровно один HTTP запрос к веб-сервису: собирает query из
// wstoken/wsfunction/moodlewsrestformat и закодированных параметров,
// декодирует JSON ответ и превращает ответ с ключом "exception" в WSError.
// Из opts на уровне вызова учитывается только таймаут.
func (m *moodleapi) Submit(method string, wsfunction string, params map[string]interface{}, opts ...options.Option) (interface{}, error) {
	logger := logging.GetLogger()
	logger.Println("Submit:>Start")
	defer logger.Println("Submit:>End")

	method, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	wsfunction, err = normalizeWSFunction(wsfunction)
	if err != nil {
		return nil, err
	}

	var callOpts options.Options
	if err := callOpts.Apply(opts...); err != nil {
		return nil, &models.ValidationError{Field: "options", Err: err}
	}
	timeout := m.opts.Timeout
	if callOpts.HasTimeout {
		timeout = callOpts.Timeout
	}

	encoded, err := EncodeWSArguments(params)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("wstoken", m.token)
	query.Set("wsfunction", wsfunction)
	query.Set("moodlewsrestformat", m.opts.RestFormat)
	for k, v := range encoded {
		query.Set(k, v)
	}

	target := m.baseURL + RestEndpoint
	logger.Debugf("Request: %s %s", method, target)
	logger.Debugf("RawQuery: %s", query.Encode())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := m.rest.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Execute(method, target)
	if err != nil {
		// транспортная ошибка отдается вызывающему как есть
		return nil, err
	}

	body := resp.Body()
	logger.Debugf("Response:\n%s", body)

	if m.opts.RestFormat == options.FormatXML {
		return string(body), nil
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(err, "failed json.Unmarshal() of %s response", wsfunction)
	}

	if data, ok := payload.(map[string]interface{}); ok {
		if exc, ok := data["exception"]; ok && truthy(exc) {
			return nil, models.NewWSError(data)
		}
	}

	return payload, nil
}

func (m *moodleapi) BaseURL() string {
	return m.baseURL
}

// Options возвращает копию действующих настроек подключения
func (m *moodleapi) Options() options.Options {
	return *m.opts
}

func normalizeMethod(method string) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	err := validation.Validate(method, validation.In(http.MethodGet, http.MethodPost, http.MethodPut))
	if err != nil {
		return "", &models.ValidationError{Field: "method", Err: err}
	}
	return method, nil
}

func normalizeWSFunction(wsfunction string) (string, error) {
	wsfunction = strings.ToLower(strings.TrimSpace(wsfunction))
	err := validation.Validate(wsfunction, validation.Required, validation.Match(wsFunctionRe))
	if err != nil {
		return "", &models.ValidationError{Field: "wsfunction", Err: err}
	}
	return wsfunction, nil
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
