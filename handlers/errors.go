package handlers

import (
	"errors"
	"net/http"

	"onlineparking/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError 將服務層的錯誤種類對應到 HTTP 狀態碼與錯誤代碼
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidRange):
		ErrorResponse(c, http.StatusBadRequest, "結束時間必須晚於開始時間", err.Error(), "ERR_INVALID_TIME")
	case errors.Is(err, services.ErrInvalidVehicleNumber):
		ErrorResponse(c, http.StatusBadRequest, "無效的車牌號碼", err.Error(), "ERR_INVALID_VEHICLE_NUMBER")
	case errors.Is(err, services.ErrSpotUnavailable):
		ErrorResponse(c, http.StatusConflict, "車位在指定時間範圍內不可用", err.Error(), "ERR_SPOT_UNAVAILABLE")
	case errors.Is(err, services.ErrAmountMismatch):
		ErrorResponse(c, http.StatusBadRequest, "金額核對失敗", err.Error(), "ERR_AMOUNT_MISMATCH")
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "資料不存在", err.Error(), "ERR_NOT_FOUND")
	case errors.Is(err, services.ErrNotActive):
		ErrorResponse(c, http.StatusConflict, "訂位狀態不允許此操作", err.Error(), "ERR_NOT_ACTIVE")
	case errors.Is(err, services.ErrTransactionIDRequired):
		ErrorResponse(c, http.StatusBadRequest, "非現金付款必須提供交易編號", err.Error(), "ERR_TRANSACTION_ID_REQUIRED")
	case errors.Is(err, services.ErrUnauthorized):
		ErrorResponse(c, http.StatusForbidden, "無權限操作此訂位", err.Error(), "ERR_INSUFFICIENT_PERMISSIONS")
	default:
		ErrorResponse(c, http.StatusInternalServerError, message, err.Error(), "ERR_INTERNAL")
	}
}
