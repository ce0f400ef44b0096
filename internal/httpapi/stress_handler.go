package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"petwelfare/internal/models"

	"go.uber.org/zap"
)

// StressService 压力服务接口（service.StressService 实现）
type StressService interface {
	Report(ctx context.Context, ownerID string, category models.StressCategory) (*models.Stress, error)
	List(ctx context.Context, ownerID string) ([]models.Stress, error)
	ListWeek(ctx context.Context, ownerID string, week int) ([]models.Stress, error)
	ExportWeek(ctx context.Context, ownerID string, week int) ([]byte, error)
}

// StressHandler 压力 Handler
type StressHandler struct {
	service StressService
	logger  *zap.Logger
}

// NewStressHandler 创建 StressHandler
func NewStressHandler(service StressService, logger *zap.Logger) *StressHandler {
	return &StressHandler{service: service, logger: logger}
}

// StressList 压力列表响应
type StressList struct {
	Week    int             `json:"week,omitempty"`
	Total   int             `json:"total"`
	Records []models.Stress `json:"records"`
}

// Report 手动上报压力
// POST /api/stress?type=ANXIETY
func (h *StressHandler) Report(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromReq(w, r)
	if !ok {
		return
	}
	category, err := models.ParseStressCategory(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	s, err := h.service.Report(r.Context(), ownerID, category)
	if err != nil {
		h.logger.Error("Report stress failed",
			zap.String("owner_id", ownerID),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(s))
}

// List 压力记录；带 week 参数时只返回该周
// GET /api/stress[?week=N]
func (h *StressHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromReq(w, r)
	if !ok {
		return
	}
	week, err := parseIntQuery(r, "week", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("week must be an integer"))
		return
	}

	var records []models.Stress
	if r.URL.Query().Has("week") {
		records, err = h.service.ListWeek(r.Context(), ownerID, week)
	} else {
		records, err = h.service.List(r.Context(), ownerID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []models.Stress{}
	}

	writeJSON(w, http.StatusOK, Ok(StressList{
		Week:    week,
		Total:   models.SumScores(records),
		Records: records,
	}))
}

// Export 导出一周压力记录
// GET /api/stress/export?week=N
func (h *StressHandler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromReq(w, r)
	if !ok {
		return
	}
	week, err := parseIntQuery(r, "week", 0)
	if err != nil || week < 1 {
		writeJSON(w, http.StatusBadRequest, Fail("week must be a positive integer"))
		return
	}

	data, err := h.service.ExportWeek(r.Context(), ownerID, week)
	if err != nil {
		h.logger.Error("Export stress failed",
			zap.String("owner_id", ownerID),
			zap.Int("week", week),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=stress_week_%d.xlsx", week))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
