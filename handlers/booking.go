package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"onlineparking/models"
	"onlineparking/services"

	"github.com/gin-gonic/gin"
)

// BookingInput 訂位輸入，可一次訂多個車位
type BookingInput struct {
	SpotIDs        []int    `json:"spot_ids" binding:"required,min=1"`
	VehicleNumbers []string `json:"vehicle_numbers" binding:"required,min=1"`
	StartTime      string   `json:"start_time" binding:"required"`
	EndTime        string   `json:"end_time" binding:"required"`
	HourlyRate     float64  `json:"hourly_rate" binding:"required,gt=0"`
	// TotalAmount 為前端顯示給使用者的總額，伺服器會重新核對
	TotalAmount float64 `json:"total_amount" binding:"omitempty,gte=0"`
}

// CompleteBookingInput 管理員結帳輸入
type CompleteBookingInput struct {
	EndTime       string  `json:"end_time" binding:"required"`
	PaidAmount    float64 `json:"paid_amount" binding:"required,gte=0"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=cash card paypal bank_transfer"`
	TransactionID string  `json:"transaction_id"`
}

// parseBookingTime 解析時間字串並轉為系統訂位時區。
// 接受 RFC 3339 或不帶時區的 'YYYY-MM-DDThh:mm:ss'（視為訂位時區當地時間）。
func parseBookingTime(timeStr string) (time.Time, error) {
	loc := services.BookingLocation()

	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.In(loc), nil
	}

	t, err = time.ParseInLocation("2006-01-02T15:04:05", timeStr, loc)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("time must be in 'YYYY-MM-DDThh:mm:ss' or RFC 3339 format")
}

// CreateBooking 建立訂位
func CreateBooking(c *gin.Context) {
	var input BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid booking input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "請提供車位、車牌、開始與結束時間", "ERR_INVALID_INPUT")
		return
	}

	if len(input.SpotIDs) != len(input.VehicleNumbers) {
		ErrorResponse(c, http.StatusBadRequest, "車位與車牌數量不一致", "each selected spot needs a vehicle number", "ERR_INVALID_INPUT")
		return
	}

	startTime, err := parseBookingTime(input.StartTime)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的開始時間格式", err.Error(), "ERR_INVALID_TIME_FORMAT")
		return
	}
	endTime, err := parseBookingTime(input.EndTime)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error(), "ERR_INVALID_TIME_FORMAT")
		return
	}

	if !endTime.After(startTime) {
		ErrorResponse(c, http.StatusBadRequest, "結束時間必須晚於開始時間", "end_time must be after start_time", "ERR_INVALID_TIME")
		return
	}

	userID := c.GetInt("user_id")

	bookings, err := services.BookSpots(services.BookingRequest{
		UserID:         userID,
		SpotIDs:        input.SpotIDs,
		VehicleNumbers: input.VehicleNumbers,
		StartTime:      startTime,
		EndTime:        endTime,
		HourlyRate:     input.HourlyRate,
		ExpectedTotal:  input.TotalAmount,
	})
	if err != nil {
		respondServiceError(c, err, "建立訂位失敗")
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	var total float64
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
		total += booking.Amount
	}

	SuccessResponse(c, http.StatusCreated, "訂位成功", gin.H{
		"bookings":     responses,
		"total_amount": total,
	})
}

// GetMyBookings 查詢自己的訂位
func GetMyBookings(c *gin.Context) {
	userID := c.GetInt("user_id")

	bookings, err := services.GetBookingsByUser(userID)
	if err != nil {
		respondServiceError(c, err, "查詢訂位失敗")
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// GetBooking 查詢單筆訂位；非管理員只能查自己的
func GetBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	booking, err := services.GetBookingByID(id)
	if err != nil {
		respondServiceError(c, err, "查詢訂位失敗")
		return
	}

	if !c.GetBool("is_admin") && booking.UserID != c.GetInt("user_id") {
		ErrorResponse(c, http.StatusForbidden, "無權限", "you can only view your own bookings", "ERR_INSUFFICIENT_PERMISSIONS")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", booking.ToResponse())
}

// GetAllBookings 管理員查詢全部訂位。查詢前先跑一次過期掃描，
// 讓列表上的狀態是即時的。
func GetAllBookings(c *gin.Context) {
	if _, err := services.ExpireOverdueBookings(services.Now()); err != nil {
		log.Printf("Failed to expire overdue bookings before listing: %v", err)
	}

	bookings, err := services.GetAllBookings()
	if err != nil {
		respondServiceError(c, err, "查詢訂位失敗")
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// CancelBooking 取消訂位
func CancelBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	userID := c.GetInt("user_id")
	isAdmin := c.GetBool("is_admin")

	if err := services.CancelBooking(id, userID, isAdmin); err != nil {
		respondServiceError(c, err, "取消訂位失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "訂位已取消", nil)
}

// CompleteBooking 管理員結束訂位並結帳
func CompleteBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	var input CompleteBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid complete booking input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	actualEndTime, err := parseBookingTime(input.EndTime)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error(), "ERR_INVALID_TIME_FORMAT")
		return
	}

	payment, err := services.CompleteBooking(id, actualEndTime, input.PaidAmount, input.PaymentMethod, input.TransactionID)
	if err != nil {
		respondServiceError(c, err, "結帳失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "訂位已結帳完成", payment.ToResponse())
}
