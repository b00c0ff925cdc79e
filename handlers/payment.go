package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"onlineparking/models"
	"onlineparking/services"

	"github.com/gin-gonic/gin"
)

// PayInput 使用者付款輸入。交易編號對非現金付款為必填，
// 現金未填時由系統合成。
type PayInput struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card paypal bank_transfer"`
	TransactionID string `json:"transaction_id"`
}

// PayBooking 使用者對自己的訂位付款
func PayBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	var input PayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid payment input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	userID := c.GetInt("user_id")

	payment, err := services.RecordPayment(bookingID, userID, input.PaymentMethod, input.TransactionID)
	if err != nil {
		if errors.Is(err, services.ErrNotActive) {
			ErrorResponse(c, http.StatusConflict, "訂位已付款", err.Error(), "ERR_ALREADY_PAID")
			return
		}
		respondServiceError(c, err, "付款失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "付款成功", payment.ToResponse())
}

// GetBookingReceipt 查詢訂位收據：訂位資料加上最新一筆付款紀錄
func GetBookingReceipt(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	booking, err := services.GetBookingByID(bookingID)
	if err != nil {
		respondServiceError(c, err, "查詢訂位失敗")
		return
	}

	if !c.GetBool("is_admin") && booking.UserID != c.GetInt("user_id") {
		ErrorResponse(c, http.StatusForbidden, "無權限", "you can only view your own receipts", "ERR_INSUFFICIENT_PERMISSIONS")
		return
	}

	data := gin.H{"booking": booking.ToResponse()}
	payment, err := services.GetLatestPaymentForBooking(bookingID)
	if err == nil {
		data["payment"] = payment.ToResponse()
	} else if !errors.Is(err, services.ErrNotFound) {
		respondServiceError(c, err, "查詢付款紀錄失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", data)
}

// GetAllPayments 管理員查詢付款紀錄，支援 payment_method 與 payment_status 過濾
func GetAllPayments(c *gin.Context) {
	paymentMethod := c.DefaultQuery("payment_method", "all")
	paymentStatus := c.DefaultQuery("payment_status", "all")

	payments, err := services.GetAllPayments(paymentMethod, paymentStatus)
	if err != nil {
		respondServiceError(c, err, "查詢付款紀錄失敗")
		return
	}

	responses := make([]models.PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = payment.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// MarkPaymentPaid 管理員把付款紀錄標記為已付
func MarkPaymentPaid(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的付款 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	if err := services.MarkPaymentPaid(paymentID); err != nil {
		respondServiceError(c, err, "更新付款狀態失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "付款已標記為已付", nil)
}
