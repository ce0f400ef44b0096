package httpapi

import (
	"context"
	"net/http"

	"petwelfare/internal/models"

	"go.uber.org/zap"
)

// EmergencyService 提醒服务接口（service.EmergencyService 实现）
type EmergencyService interface {
	Resolve(ctx context.Context, ownerID, emergencyID string) (*models.Emergency, error)
	LatestUnsolved(ctx context.Context, ownerID string) (map[models.Category]models.Emergency, error)
}

// EmergencyHandler 提醒 Handler
type EmergencyHandler struct {
	service EmergencyService
	logger  *zap.Logger
}

// NewEmergencyHandler 创建 EmergencyHandler
func NewEmergencyHandler(service EmergencyService, logger *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{service: service, logger: logger}
}

// Solve 主人确认提醒
// PUT /api/emergency/solve?id=xxx
func (h *EmergencyHandler) Solve(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromReq(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, Fail("id is required"))
		return
	}

	e, err := h.service.Resolve(r.Context(), ownerID, id)
	if err != nil {
		h.logger.Warn("Solve emergency failed",
			zap.String("owner_id", ownerID),
			zap.String("emergency_id", id),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(e))
}

// Unsolved 最近 7 天每个类型最新的未解决提醒
// GET /api/emergency/unsolved
func (h *EmergencyHandler) Unsolved(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromReq(w, r)
	if !ok {
		return
	}

	latest, err := h.service.LatestUnsolved(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("List unsolved emergencies failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(latest))
}
