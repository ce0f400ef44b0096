package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"petwelfare/internal/models"
)

// OwnerHeader 主人身份（由上游网关鉴权后注入）
const OwnerHeader = "X-Owner-ID"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 按错误类型选择状态码
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrPreconditionViolation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrIntegrity):
		status = http.StatusConflict
	}
	writeJSON(w, status, Fail(err.Error()))
}

// ownerIDFromReq 读取主人 ID，缺失时直接写 401
func ownerIDFromReq(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
	if ownerID == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("owner identity is required"))
		return "", false
	}
	return ownerID, true
}

// parseIntQuery 解析整数查询参数；缺省返回 def
func parseIntQuery(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
