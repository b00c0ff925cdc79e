package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"time"

	"onlineparking/database"
	"onlineparking/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 車牌僅允許英數字與連字號
var vehicleNumberRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// amountEpsilon 前端送來的總額與系統計算值允許的誤差
const amountEpsilon = 0.01

// ValidateVehicleNumber 驗證車牌格式
func ValidateVehicleNumber(vehicleNumber string) error {
	if vehicleNumber == "" || len(vehicleNumber) > 20 || !vehicleNumberRegex.MatchString(vehicleNumber) {
		return ErrInvalidVehicleNumber
	}
	return nil
}

// BookingRequest 一次訂位請求，可同時訂多個車位；
// 每個車位各寫一筆訂位紀錄，金額為單一車位費用
type BookingRequest struct {
	UserID         int
	SpotIDs        []int
	VehicleNumbers []string
	StartTime      time.Time
	EndTime        time.Time
	HourlyRate     float64
	// ExpectedTotal 為前端預先計算並顯示給使用者的總額，
	// 大於 0 時會與系統計算值核對，防止價格被竄改
	ExpectedTotal float64
}

// BookSpots 建立訂位。可用性檢查與寫入在同一個事務內完成：
// 先鎖定車位列再重新驗證重疊，確保兩個並發請求不會同時訂到同一車位。
// 任一車位不可訂則整批回滾。
func BookSpots(req BookingRequest) ([]models.Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidRange
	}
	if len(req.SpotIDs) == 0 || len(req.SpotIDs) != len(req.VehicleNumbers) {
		return nil, fmt.Errorf("spot_ids and vehicle_numbers must be non-empty and the same length")
	}
	for _, vehicleNumber := range req.VehicleNumbers {
		if err := ValidateVehicleNumber(vehicleNumber); err != nil {
			return nil, err
		}
	}

	durationHours, err := DurationHoursCeil(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	amountPerSpot := AmountFor(req.HourlyRate, durationHours)
	if req.ExpectedTotal > 0 {
		expected := AmountForMultiSpot(req.HourlyRate, durationHours, len(req.SpotIDs))
		if math.Abs(expected-req.ExpectedTotal) > amountEpsilon {
			log.Printf("Amount mismatch for user %d: expected %.2f, received %.2f", req.UserID, expected, req.ExpectedTotal)
			return nil, ErrAmountMismatch
		}
	}

	// 依車位 ID 排序上鎖，避免多筆並發請求互相死鎖
	order := make([]int, len(req.SpotIDs))
	copy(order, req.SpotIDs)
	sort.Ints(order)
	vehicleBySpot := make(map[int]string, len(req.SpotIDs))
	for i, spotID := range req.SpotIDs {
		vehicleBySpot[spotID] = req.VehicleNumbers[i]
	}

	var bookings []models.Booking
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, spotID := range order {
			var spot models.ParkingSpot
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&spot, spotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return storageError(err)
			}

			// 事務內重新驗證可用性，關閉 check-then-act 的競態窗口
			count, err := countOverlappingBookings(tx, spotID, req.StartTime, req.EndTime)
			if err != nil {
				return storageError(err)
			}
			if count > 0 {
				log.Printf("Spot %d has an overlapping active booking in [%s, %s]", spotID,
					req.StartTime.Format("2006-01-02T15:04:05"), req.EndTime.Format("2006-01-02T15:04:05"))
				return ErrSpotUnavailable
			}

			vehicleNumber := vehicleBySpot[spotID]
			booking := models.Booking{
				UserID:        req.UserID,
				SpotID:        spotID,
				VehicleNumber: vehicleNumber,
				StartTime:     req.StartTime,
				EndTime:       req.EndTime,
				Amount:        amountPerSpot,
				Status:        models.BookingActive,
				PaymentStatus: models.PaymentPending,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return storageError(err)
			}

			// 車位佔用旗標與訂位寫入在同一個事務內更新
			if err := tx.Model(&spot).Updates(map[string]interface{}{
				"is_occupied":    1,
				"vehicle_number": vehicleNumber,
			}).Error; err != nil {
				return storageError(err)
			}

			bookings = append(bookings, booking)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Printf("Created %d booking(s) for user %d, amount %.2f per spot", len(bookings), req.UserID, amountPerSpot)
	return bookings, nil
}

// CreateBooking 建立單一車位的訂位
func CreateBooking(userID, spotID int, vehicleNumber string, startTime, endTime time.Time, hourlyRate float64) (*models.Booking, error) {
	bookings, err := BookSpots(BookingRequest{
		UserID:         userID,
		SpotIDs:        []int{spotID},
		VehicleNumbers: []string{vehicleNumber},
		StartTime:      startTime,
		EndTime:        endTime,
		HourlyRate:     hourlyRate,
	})
	if err != nil {
		return nil, err
	}
	return &bookings[0], nil
}

// CancelBooking 取消訂位並釋放車位。
// 僅限訂位本人或管理員，且訂位必須仍為 active。
func CancelBooking(bookingID, requesterUserID int, isAdmin bool) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageError(err)
		}

		if !isAdmin && booking.UserID != requesterUserID {
			log.Printf("User %d attempted to cancel booking %d owned by user %d", requesterUserID, bookingID, booking.UserID)
			return ErrUnauthorized
		}
		if booking.Status != models.BookingActive {
			return ErrNotActive
		}

		if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
			return storageError(err)
		}
		if err := releaseSpot(tx, booking.SpotID); err != nil {
			return err
		}

		log.Printf("Booking %d cancelled, spot %d released", bookingID, booking.SpotID)
		return nil
	})
}

// CompleteBooking 管理員結束訂位並結帳。實收金額以操作者輸入為準，
// 系統計算值僅供參考（現場折讓、現金湊整都以實收為最終金額）。
// 付款寫入、訂位結案與車位釋放在同一個事務內完成。
func CompleteBooking(bookingID int, actualEndTime time.Time, paidAmount float64, paymentMethod, transactionID string) (*models.Payment, error) {
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
		if booking.Status != models.BookingActive {
			return ErrNotActive
		}

		payment = models.Payment{
			BookingID:     bookingID,
			Amount:        paidAmount,
			PaymentDate:   Now(),
			PaymentMethod: paymentMethod,
			TransactionID: transactionID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return storageError(err)
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"end_time":       actualEndTime,
			"amount":         paidAmount,
			"status":         models.BookingCompleted,
			"payment_status": models.PaymentPaid,
		}).Error; err != nil {
			return storageError(err)
		}

		return releaseSpot(tx, booking.SpotID)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Printf("Booking %d completed with paid amount %.2f (%s), transaction %s",
		bookingID, paidAmount, paymentMethod, transactionID)
	return &payment, nil
}

// ExpireOverdueBookings 將結束時間已過的 active 訂位結案並釋放車位，
// 回傳處理筆數。付款狀態不動：未付的過期訂位維持 pending。
// 可與使用者的取消/結帳並發執行：逐筆以 status = 'active' 作條件更新，
// 搶輸的一方看到零筆生效就跳過，不會重複釋放車位。
func ExpireOverdueBookings(referenceNow time.Time) (int, error) {
	type expiredBooking struct {
		BookingID int
		SpotID    int
	}

	var expired []expiredBooking
	if err := database.DB.Model(&models.Booking{}).
		Select("booking_id, spot_id").
		Where("status = ? AND end_time < ?", models.BookingActive, referenceNow).
		Scan(&expired).Error; err != nil {
		log.Printf("Failed to query expired bookings: %v", err)
		return 0, storageError(err)
	}

	count := 0
	for _, b := range expired {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Booking{}).
				Where("booking_id = ? AND status = ?", b.BookingID, models.BookingActive).
				Update("status", models.BookingCompleted)
			if res.Error != nil {
				return storageError(res.Error)
			}
			if res.RowsAffected == 0 {
				// 已被取消或結帳搶先處理，不重複動作
				return nil
			}
			if err := releaseSpot(tx, b.SpotID); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			log.Printf("Failed to expire booking %d: %v", b.BookingID, err)
			continue
		}
	}

	if count > 0 {
		log.Printf("Expired %d overdue booking(s)", count)
	}
	return count, nil
}

// releaseSpot 清除車位的佔用旗標與車牌
func releaseSpot(tx *gorm.DB, spotID int) error {
	if err := tx.Model(&models.ParkingSpot{}).
		Where("spot_id = ?", spotID).
		Updates(map[string]interface{}{
			"is_occupied":    0,
			"vehicle_number": nil,
		}).Error; err != nil {
		return storageError(err)
	}
	return nil
}

// GetBookingByID 查詢單筆訂位
func GetBookingByID(bookingID int) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.Preload("ParkingSpot").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	return &booking, nil
}

// GetBookingsByUser 查詢使用者的所有訂位，最新的排前面
func GetBookingsByUser(userID int) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := database.DB.Preload("ParkingSpot").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to query bookings for user %d: %v", userID, err)
		return nil, storageError(err)
	}
	return bookings, nil
}

// GetAllBookings 管理員查詢全部訂位
func GetAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := database.DB.Preload("ParkingSpot").
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to query all bookings: %v", err)
		return nil, storageError(err)
	}
	return bookings, nil
}
