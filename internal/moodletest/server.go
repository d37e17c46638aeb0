// Package moodletest поднимает имитацию REST сервера Moodle для тестов:
// один эндпоинт webservice/rest/server.php, проверка токена и диспетчеризация
// по wsfunction на зарегистрированные обработчики.
package moodletest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// FuncHandler получает query-параметры запроса и возвращает структуру,
// которая будет отдана клиенту как JSON ответ. Ответ с ключом "exception"
// имитирует ошибку веб-сервиса.
type FuncHandler func(params url.Values) interface{}

type Server struct {
	router *httprouter.Router
	token  string

	mu       sync.RWMutex
	handlers map[string]FuncHandler
}

func NewServer(token string) *Server {
	s := &Server{
		router:   httprouter.New(),
		token:    token,
		handlers: make(map[string]FuncHandler),
	}
	s.router.GET("/webservice/rest/server.php", s.handle)
	s.router.POST("/webservice/rest/server.php", s.handle)
	s.router.PUT("/webservice/rest/server.php", s.handle)
	return s
}

// Handle регистрирует обработчик для wsfunction
func (s *Server) Handle(wsfunction string, fn FuncHandler) {
	s.mu.Lock()
	s.handlers[wsfunction] = fn
	s.mu.Unlock()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	params := r.URL.Query()

	if params.Get("wstoken") != s.token {
		writeJSON(w, Exception("moodle_exception", "invalidtoken", "Invalid token - token not found"))
		return
	}

	s.mu.RLock()
	fn, ok := s.handlers[params.Get("wsfunction")]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, Exception("webservice_access_exception", "invalidfunction", "Access to the function is not allowed"))
		return
	}

	writeJSON(w, fn(params))
}

// Exception собирает полезную нагрузку ошибки в том виде, в котором ее
// отдает реальный сервер Moodle
func Exception(exception string, errorcode string, message string) map[string]interface{} {
	return map[string]interface{}{
		"exception": exception,
		"errorcode": errorcode,
		"message":   message,
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	// сервер Moodle отвечает 200 и на ошибки веб-сервиса
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
