package services_test

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"onlineparking/database"
	"onlineparking/models"
	"onlineparking/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 連上 PARKING_TEST_DSN 指定的 MySQL 測試資料庫並清空資料。
// 未設定環境變數時整個測試跳過，純邏輯測試不受影響。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("PARKING_TEST_DSN")
	if dsn == "" {
		t.Skip("PARKING_TEST_DSN not set; skipping MySQL-backed tests")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ParkingSpot{}, &models.Booking{}, &models.Payment{}))

	// 依外鍵相依順序清空
	for _, table := range []string{"payments", "bookings", "parking_spots", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	database.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Phone:    "0912345678",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSpot(t *testing.T, db *gorm.DB, spotNumber string, rate float64) *models.ParkingSpot {
	t.Helper()
	spot := &models.ParkingSpot{
		SpotNumber:  spotNumber,
		FloorNumber: 1,
		Type:        "car",
		HourlyRate:  rate,
	}
	require.NoError(t, db.Create(spot).Error)
	return spot
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, services.BookingLocation())
}

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lifecycle@example.com")
	spot := createTestSpot(t, db, "A-01", 5.00)

	start := localTime(2030, time.March, 1, 10, 0)
	end := localTime(2030, time.March, 1, 13, 0)

	booking, err := services.CreateBooking(user.UserID, spot.SpotID, "DHK-1234", start, end, spot.HourlyRate)
	require.NoError(t, err)
	assert.Equal(t, models.BookingActive, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	// 3 小時 × 5.00
	assert.InDelta(t, 15.00, booking.Amount, 1e-9)

	var reloaded models.ParkingSpot
	require.NoError(t, db.First(&reloaded, spot.SpotID).Error)
	assert.Equal(t, 1, reloaded.IsOccupied)
	require.NotNil(t, reloaded.VehicleNumber)
	assert.Equal(t, "DHK-1234", *reloaded.VehicleNumber)

	// 重疊區間不可再訂
	available, err := services.IsSpotAvailable(spot.SpotID, localTime(2030, time.March, 1, 12, 0), localTime(2030, time.March, 1, 14, 0))
	require.NoError(t, err)
	assert.False(t, available)

	// 邊界相接也算衝突
	available, err = services.IsSpotAvailable(spot.SpotID, end, localTime(2030, time.March, 1, 15, 0))
	require.NoError(t, err)
	assert.False(t, available)

	_, err = services.CreateBooking(user.UserID, spot.SpotID, "DHK-5678", localTime(2030, time.March, 1, 11, 0), localTime(2030, time.March, 1, 14, 0), spot.HourlyRate)
	assert.ErrorIs(t, err, services.ErrSpotUnavailable)

	spots, err := services.AvailableSpots(start, end)
	require.NoError(t, err)
	assert.Empty(t, spots)

	// 取消後車位釋放、區間重新開放
	require.NoError(t, services.CancelBooking(booking.BookingID, user.UserID, false))

	var cancelled models.Booking
	require.NoError(t, db.First(&cancelled, booking.BookingID).Error)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	require.NoError(t, db.First(&reloaded, spot.SpotID).Error)
	assert.Equal(t, 0, reloaded.IsOccupied)
	assert.Nil(t, reloaded.VehicleNumber)

	available, err = services.IsSpotAvailable(spot.SpotID, start, end)
	require.NoError(t, err)
	assert.True(t, available)

	// 已取消的訂位不可再取消
	assert.ErrorIs(t, services.CancelBooking(booking.BookingID, user.UserID, false), services.ErrNotActive)
}

func TestCancelBookingAuthorization(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	spot := createTestSpot(t, db, "A-02", 5.00)

	booking, err := services.CreateBooking(owner.UserID, spot.SpotID, "DHK-1234",
		localTime(2030, time.March, 1, 10, 0), localTime(2030, time.March, 1, 12, 0), spot.HourlyRate)
	require.NoError(t, err)

	assert.ErrorIs(t, services.CancelBooking(booking.BookingID, other.UserID, false), services.ErrUnauthorized)

	// 管理員不受擁有者限制
	require.NoError(t, services.CancelBooking(booking.BookingID, other.UserID, true))
}

func TestCompleteBookingPaidAmountWins(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "complete@example.com")
	spot := createTestSpot(t, db, "B-01", 5.00)

	booking, err := services.CreateBooking(user.UserID, spot.SpotID, "DHK-1234",
		localTime(2030, time.March, 1, 10, 0), localTime(2030, time.March, 1, 13, 0), spot.HourlyRate)
	require.NoError(t, err)
	assert.InDelta(t, 15.00, booking.Amount, 1e-9)

	// 實收 12.00 現金，未帶交易編號
	actualEnd := localTime(2030, time.March, 1, 12, 30)
	payment, err := services.CompleteBooking(booking.BookingID, actualEnd, 12.00, models.MethodCash, "")
	require.NoError(t, err)
	assert.InDelta(t, 12.00, payment.Amount, 1e-9)
	assert.True(t, strings.HasPrefix(payment.TransactionID, "TXN"))

	// 訂位金額以實收為準
	var completed models.Booking
	require.NoError(t, db.First(&completed, booking.BookingID).Error)
	assert.Equal(t, models.BookingCompleted, completed.Status)
	assert.Equal(t, models.PaymentPaid, completed.PaymentStatus)
	assert.InDelta(t, 12.00, completed.Amount, 1e-9)

	var reloaded models.ParkingSpot
	require.NoError(t, db.First(&reloaded, spot.SpotID).Error)
	assert.Equal(t, 0, reloaded.IsOccupied)

	// 已結案的訂位不可再結帳
	_, err = services.CompleteBooking(booking.BookingID, actualEnd, 12.00, models.MethodCash, "")
	assert.ErrorIs(t, err, services.ErrNotActive)
}

func TestCompleteBookingRequiresTransactionID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "txnid@example.com")
	spot := createTestSpot(t, db, "B-02", 5.00)

	booking, err := services.CreateBooking(user.UserID, spot.SpotID, "DHK-1234",
		localTime(2030, time.March, 1, 10, 0), localTime(2030, time.March, 1, 12, 0), spot.HourlyRate)
	require.NoError(t, err)

	// 非現金付款必須帶交易編號
	_, err = services.CompleteBooking(booking.BookingID, localTime(2030, time.March, 1, 12, 0), 10.00, models.MethodCard, "")
	assert.ErrorIs(t, err, services.ErrTransactionIDRequired)

	// 訂位完全不受影響
	var unchanged models.Booking
	require.NoError(t, db.First(&unchanged, booking.BookingID).Error)
	assert.Equal(t, models.BookingActive, unchanged.Status)
	assert.Equal(t, models.PaymentPending, unchanged.PaymentStatus)

	var paymentCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.EqualValues(t, 0, paymentCount)
}

func TestExpireOverdueBookings(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "expire@example.com")
	overdueSpot := createTestSpot(t, db, "C-01", 5.00)
	activeSpot := createTestSpot(t, db, "C-02", 5.00)

	now := localTime(2030, time.March, 1, 10, 0)

	overdue, err := services.CreateBooking(user.UserID, overdueSpot.SpotID, "DHK-1234",
		localTime(2030, time.March, 1, 8, 0), localTime(2030, time.March, 1, 9, 0), overdueSpot.HourlyRate)
	require.NoError(t, err)

	stillActive, err := services.CreateBooking(user.UserID, activeSpot.SpotID, "DHK-5678",
		localTime(2030, time.March, 1, 9, 0), localTime(2030, time.March, 1, 11, 0), activeSpot.HourlyRate)
	require.NoError(t, err)

	count, err := services.ExpireOverdueBookings(now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 過期訂位結案但付款維持 pending，等待後續對帳
	var swept models.Booking
	require.NoError(t, db.First(&swept, overdue.BookingID).Error)
	assert.Equal(t, models.BookingCompleted, swept.Status)
	assert.Equal(t, models.PaymentPending, swept.PaymentStatus)

	var freed models.ParkingSpot
	require.NoError(t, db.First(&freed, overdueSpot.SpotID).Error)
	assert.Equal(t, 0, freed.IsOccupied)

	// 未過期的訂位不動
	var untouched models.Booking
	require.NoError(t, db.First(&untouched, stillActive.BookingID).Error)
	assert.Equal(t, models.BookingActive, untouched.Status)

	var occupied models.ParkingSpot
	require.NoError(t, db.First(&occupied, activeSpot.SpotID).Error)
	assert.Equal(t, 1, occupied.IsOccupied)

	// 再掃一次沒有新處理筆數
	count, err = services.ExpireOverdueBookings(now)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestConcurrentBookingSameSpot(t *testing.T) {
	db := newTestDB(t)
	userA := createTestUser(t, db, "race-a@example.com")
	userB := createTestUser(t, db, "race-b@example.com")
	spot := createTestSpot(t, db, "D-01", 5.00)

	start := localTime(2030, time.March, 1, 10, 0)
	end := localTime(2030, time.March, 1, 12, 0)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []int{userA.UserID, userB.UserID} {
		wg.Add(1)
		go func(i, userID int) {
			defer wg.Done()
			_, errs[i] = services.CreateBooking(userID, spot.SpotID, "DHK-1234", start, end, spot.HourlyRate)
		}(i, userID)
	}
	wg.Wait()

	// 恰好一個成功、一個撞到車位不可訂
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, services.ErrSpotUnavailable)
		}
	}
	assert.Equal(t, 1, successes)

	var bookingCount int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&bookingCount).Error)
	assert.EqualValues(t, 1, bookingCount)
}

func TestBookSpotsMultiSpotAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "multi@example.com")
	spotOne := createTestSpot(t, db, "E-01", 5.00)
	spotTwo := createTestSpot(t, db, "E-02", 5.00)

	start := localTime(2030, time.March, 1, 10, 0)
	end := localTime(2030, time.March, 1, 12, 0)

	// 先佔住第二個車位
	_, err := services.CreateBooking(user.UserID, spotTwo.SpotID, "DHK-9999", start, end, spotTwo.HourlyRate)
	require.NoError(t, err)

	_, err = services.BookSpots(services.BookingRequest{
		UserID:         user.UserID,
		SpotIDs:        []int{spotOne.SpotID, spotTwo.SpotID},
		VehicleNumbers: []string{"DHK-1234", "DHK-5678"},
		StartTime:      start,
		EndTime:        end,
		HourlyRate:     5.00,
	})
	assert.ErrorIs(t, err, services.ErrSpotUnavailable)

	// 整批回滾：第一個車位沒有留下訂位也沒被標佔用
	var countForSpotOne int64
	require.NoError(t, db.Model(&models.Booking{}).Where("spot_id = ?", spotOne.SpotID).Count(&countForSpotOne).Error)
	assert.EqualValues(t, 0, countForSpotOne)

	var reloaded models.ParkingSpot
	require.NoError(t, db.First(&reloaded, spotOne.SpotID).Error)
	assert.Equal(t, 0, reloaded.IsOccupied)
}

func TestRecordPaymentAndMarkPaid(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "payer@example.com")
	other := createTestUser(t, db, "intruder@example.com")
	spot := createTestSpot(t, db, "F-01", 7.25)

	booking, err := services.CreateBooking(owner.UserID, spot.SpotID, "DHK-1234",
		localTime(2030, time.March, 1, 10, 0), localTime(2030, time.March, 1, 11, 0), spot.HourlyRate)
	require.NoError(t, err)

	// 非擁有者不可付款
	_, err = services.RecordPayment(booking.BookingID, other.UserID, models.MethodCard, "CARD-001")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	payment, err := services.RecordPayment(booking.BookingID, owner.UserID, models.MethodCard, "CARD-001")
	require.NoError(t, err)
	assert.InDelta(t, booking.Amount, payment.Amount, 1e-9)

	// 訂位翻成已付，付款紀錄維持 pending 等管理員對帳
	var paid models.Booking
	require.NoError(t, db.First(&paid, booking.BookingID).Error)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.BookingActive, paid.Status)

	var row models.Payment
	require.NoError(t, db.First(&row, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPending, row.PaymentStatus)

	// 已付的訂位不可重複付款
	_, err = services.RecordPayment(booking.BookingID, owner.UserID, models.MethodCard, "CARD-002")
	assert.ErrorIs(t, err, services.ErrNotActive)

	require.NoError(t, services.MarkPaymentPaid(payment.PaymentID))
	require.NoError(t, db.First(&row, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPaid, row.PaymentStatus)

	latest, err := services.GetLatestPaymentForBooking(booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentID, latest.PaymentID)
}
