package services

import (
	"log"
	"math"
	"os"
	"time"
)

// bookingLocation 全系統統一的訂位時區，由 InitTimezone 設定
var bookingLocation = time.FixedZone("BST", 6*60*60)

// InitTimezone 從 BOOKING_TIMEZONE 載入時區，預設 Asia/Dhaka
func InitTimezone() {
	name := os.Getenv("BOOKING_TIMEZONE")
	if name == "" {
		name = "Asia/Dhaka"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Failed to load timezone %s, keeping default +06:00: %v", name, err)
		return
	}

	bookingLocation = loc
	log.Printf("Booking timezone set to %s", name)
}

// Now 回傳訂位時區下的目前時間
func Now() time.Time {
	return time.Now().In(bookingLocation)
}

// BookingLocation 回傳訂位時區，供 handler 解析輸入時間使用
func BookingLocation() *time.Location {
	return bookingLocation
}

// DurationHoursCeil 計算 [start, end) 的時數，不足一小時以一小時計
func DurationHoursCeil(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}

	hours := int(math.Ceil(end.Sub(start).Seconds() / 3600.0))
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// HasPassed 檢查 end 是否已早於參考時間
func HasPassed(end, referenceNow time.Time) bool {
	return end.Before(referenceNow)
}
