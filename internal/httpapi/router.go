package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// methodOnly 只允许指定方法
func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterEmergencyRoutes 提醒相关路由
func (r *Router) RegisterEmergencyRoutes(h *EmergencyHandler) {
	r.Handle("/api/emergency/solve", methodOnly(http.MethodPut, h.Solve))
	r.Handle("/api/emergency/unsolved", methodOnly(http.MethodGet, h.Unsolved))
}

// RegisterStressRoutes 压力相关路由
func (r *Router) RegisterStressRoutes(h *StressHandler) {
	r.Handle("/api/stress", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.Report(w, req)
		case http.MethodGet:
			h.List(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/stress/export", methodOnly(http.MethodGet, h.Export))
}

// RegisterHealthRoutes 健康检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}
