package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"onlineparking/database"
	"onlineparking/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewTransactionID 為現金付款合成交易編號。
// 格式 TXN<unix 秒><1000-9999>，唯一性為 best-effort。
func NewTransactionID() string {
	return fmt.Sprintf("TXN%d%d", time.Now().Unix(), 1000+rand.Intn(9000))
}

// RecordPayment 使用者的「立即付款」流程：寫入付款紀錄並把訂位標記為已付。
// 不改變訂位狀態與金額，金額以訂位上的 amount 為準。
func RecordPayment(bookingID, userID int, paymentMethod, transactionID string) (*models.Payment, error) {
	if paymentMethod != models.MethodCash && transactionID == "" {
		return nil, ErrTransactionIDRequired
	}
	if transactionID == "" {
		transactionID = NewTransactionID()
	}

	var payment models.Payment
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageError(err)
		}

		if booking.UserID != userID {
			log.Printf("User %d attempted to pay for booking %d owned by user %d", userID, bookingID, booking.UserID)
			return ErrUnauthorized
		}
		if booking.PaymentStatus != models.PaymentPending {
			return ErrNotActive
		}

		payment = models.Payment{
			BookingID:     bookingID,
			Amount:        booking.Amount,
			PaymentDate:   Now(),
			PaymentMethod: paymentMethod,
			TransactionID: transactionID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return storageError(err)
		}

		if err := tx.Model(&booking).Update("payment_status", models.PaymentPaid).Error; err != nil {
			return storageError(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Printf("Payment recorded for booking %d: %.2f via %s, transaction %s",
		bookingID, payment.Amount, paymentMethod, transactionID)
	return &payment, nil
}

// MarkPaymentPaid 管理員把付款紀錄與其所屬訂位一併標記為已付
func MarkPaymentPaid(paymentID int) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageError(err)
		}

		if err := tx.Model(&payment).Update("payment_status", models.PaymentPaid).Error; err != nil {
			return storageError(err)
		}
		if err := tx.Model(&models.Booking{}).
			Where("booking_id = ?", payment.BookingID).
			Update("payment_status", models.PaymentPaid).Error; err != nil {
			return storageError(err)
		}

		log.Printf("Payment %d and booking %d marked as paid", paymentID, payment.BookingID)
		return nil
	})
}

// GetLatestPaymentForBooking 取得訂位最新一筆付款紀錄（以 id 最大者為準）
func GetLatestPaymentForBooking(bookingID int) (*models.Payment, error) {
	var payment models.Payment
	if err := database.DB.
		Where("booking_id = ?", bookingID).
		Order("payment_id DESC").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	return &payment, nil
}

// GetAllPayments 管理員查詢付款紀錄，可依方式與狀態過濾
func GetAllPayments(paymentMethod, paymentStatus string) ([]models.Payment, error) {
	query := database.DB.Order("payment_date DESC")
	if paymentMethod != "" && paymentMethod != "all" {
		query = query.Where("payment_method = ?", paymentMethod)
	}
	if paymentStatus != "" && paymentStatus != "all" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		log.Printf("Failed to query payments: %v", err)
		return nil, storageError(err)
	}
	return payments, nil
}
