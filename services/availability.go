package services

import (
	"log"
	"time"

	"onlineparking/database"
	"onlineparking/models"

	"gorm.io/gorm"
)

// countOverlappingBookings 統計指定車位在 [start, end] 區間內重疊的 active 訂位數。
// 重疊採封閉區間判定：NOT (booking.end < start OR booking.start > end)，
// 邊界相接也算衝突。db 參數讓 CreateBooking 可以在同一個事務內重新驗證。
func countOverlappingBookings(db *gorm.DB, spotID int, start, end time.Time) (int64, error) {
	var count int64
	if err := db.Model(&models.Booking{}).
		Where("spot_id = ? AND status = ?", spotID, models.BookingActive).
		Where("end_time >= ? AND start_time <= ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsSpotAvailable 檢查車位在指定時間範圍內是否可訂
func IsSpotAvailable(spotID int, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidRange
	}

	count, err := countOverlappingBookings(database.DB, spotID, start, end)
	if err != nil {
		log.Printf("Failed to check availability for spot %d: %v", spotID, err)
		return false, storageError(err)
	}
	return count == 0, nil
}

// AvailableSpots 查詢指定時間範圍內所有可訂車位，
// 依樓層與車位編號排序，確保結果與查詢順序無關
func AvailableSpots(start, end time.Time) ([]models.ParkingSpot, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	var bookedSpotIDs []int
	if err := database.DB.Model(&models.Booking{}).
		Select("spot_id").
		Where("status = ?", models.BookingActive).
		Where("end_time >= ? AND start_time <= ?", start, end).
		Distinct().
		Scan(&bookedSpotIDs).Error; err != nil {
		log.Printf("Failed to query booked spot IDs: %v", err)
		return nil, storageError(err)
	}

	query := database.DB.Order("floor_number, spot_number")
	if len(bookedSpotIDs) > 0 {
		query = query.Where("spot_id NOT IN (?)", bookedSpotIDs)
	}

	var spots []models.ParkingSpot
	if err := query.Find(&spots).Error; err != nil {
		log.Printf("Failed to query available parking spots: %v", err)
		return nil, storageError(err)
	}

	log.Printf("Found %d available parking spots between %s and %s",
		len(spots), start.Format("2006-01-02T15:04:05"), end.Format("2006-01-02T15:04:05"))
	return spots, nil
}
