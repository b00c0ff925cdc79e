package services

import (
	"log"
	"time"

	"onlineparking/database"
	"onlineparking/models"
)

// RevenueSummary 指定期間的營收統計
type RevenueSummary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalPayments       int     `json:"total_payments"`
	CashRevenue         float64 `json:"cash_revenue"`
	CardRevenue         float64 `json:"card_revenue"`
	PaypalRevenue       float64 `json:"paypal_revenue"`
	BankTransferRevenue float64 `json:"bank_transfer_revenue"`
	PendingPayments     int     `json:"pending_payments"`
}

// BookingStats 訂位狀態統計
type BookingStats struct {
	TotalBookings     int `json:"total_bookings"`
	ActiveBookings    int `json:"active_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
}

// SpotTypeRevenue 依車位類型的營收
type SpotTypeRevenue struct {
	Type         string  `json:"type"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgRevenue   float64 `json:"avg_revenue"`
	PaymentCount int     `json:"payment_count"`
}

// GetRevenueSummary 計算期間內的營收統計，依付款方式細分
func GetRevenueSummary(from, to time.Time) (*RevenueSummary, error) {
	var summary RevenueSummary
	if err := database.DB.Raw(`
        SELECT
            COALESCE(SUM(amount), 0) AS total_revenue,
            COUNT(*) AS total_payments,
            COALESCE(SUM(CASE WHEN payment_method = 'cash' THEN amount ELSE 0 END), 0) AS cash_revenue,
            COALESCE(SUM(CASE WHEN payment_method = 'card' THEN amount ELSE 0 END), 0) AS card_revenue,
            COALESCE(SUM(CASE WHEN payment_method = 'paypal' THEN amount ELSE 0 END), 0) AS paypal_revenue,
            COALESCE(SUM(CASE WHEN payment_method = 'bank_transfer' THEN amount ELSE 0 END), 0) AS bank_transfer_revenue,
            COALESCE(SUM(CASE WHEN payment_status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_payments
        FROM payments
        WHERE payment_date >= ? AND payment_date <= ?`, from, to).
		Scan(&summary).Error; err != nil {
		log.Printf("Failed to calculate revenue summary: %v", err)
		return nil, storageError(err)
	}
	return &summary, nil
}

// GetBookingStats 計算期間內各狀態的訂位數
func GetBookingStats(from, to time.Time) (*BookingStats, error) {
	var stats BookingStats
	if err := database.DB.Raw(`
        SELECT
            COUNT(*) AS total_bookings,
            COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active_bookings,
            COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_bookings,
            COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_bookings
        FROM bookings
        WHERE start_time >= ? AND start_time <= ?`, from, to).
		Scan(&stats).Error; err != nil {
		log.Printf("Failed to calculate booking stats: %v", err)
		return nil, storageError(err)
	}
	return &stats, nil
}

// GetRevenueBySpotType 計算期間內各車位類型的營收
func GetRevenueBySpotType(from, to time.Time) ([]SpotTypeRevenue, error) {
	var rows []SpotTypeRevenue
	if err := database.DB.Model(&models.Payment{}).
		Select("ps.type AS type, COALESCE(SUM(payments.amount), 0) AS total_revenue, COALESCE(AVG(payments.amount), 0) AS avg_revenue, COUNT(*) AS payment_count").
		Joins("JOIN bookings b ON payments.booking_id = b.booking_id").
		Joins("JOIN parking_spots ps ON b.spot_id = ps.spot_id").
		Where("payments.payment_date >= ? AND payments.payment_date <= ?", from, to).
		Group("ps.type").
		Order("total_revenue DESC").
		Scan(&rows).Error; err != nil {
		log.Printf("Failed to calculate revenue by spot type: %v", err)
		return nil, storageError(err)
	}
	return rows, nil
}
