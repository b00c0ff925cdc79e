package handlers

import (
	"net/http"
	"time"

	"onlineparking/services"

	"github.com/gin-gonic/gin"
)

// parseReportRange 解析報表的日期範圍，預設最近 30 天。
// to 取當天結尾，讓整天的付款都落在範圍內。
func parseReportRange(c *gin.Context) (time.Time, time.Time, error) {
	loc := services.BookingLocation()
	now := services.Now()

	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}

	return from, to, nil
}

// GetRevenueReport 管理員營收報表：總額、付款方式細分、訂位統計與車位類型營收
func GetRevenueReport(c *gin.Context) {
	from, to, err := parseReportRange(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的日期格式", err.Error(), "ERR_INVALID_DATE")
		return
	}

	revenue, err := services.GetRevenueSummary(from, to)
	if err != nil {
		respondServiceError(c, err, "計算營收失敗")
		return
	}

	bookingStats, err := services.GetBookingStats(from, to)
	if err != nil {
		respondServiceError(c, err, "計算訂位統計失敗")
		return
	}

	spotTypeRevenue, err := services.GetRevenueBySpotType(from, to)
	if err != nil {
		respondServiceError(c, err, "計算車位類型營收失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", gin.H{
		"from":              from.Format("2006-01-02"),
		"to":                to.Format("2006-01-02"),
		"revenue":           revenue,
		"booking_stats":     bookingStats,
		"spot_type_revenue": spotTypeRevenue,
	})
}
