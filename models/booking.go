package models

import "time"

// 訂位狀態：active 是唯一佔用車位且可再變動的狀態
const (
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// 付款狀態
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Booking struct {
	BookingID     int         `json:"booking_id" gorm:"primaryKey;autoIncrement;type:INT"`
	UserID        int         `json:"user_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	SpotID        int         `json:"spot_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	VehicleNumber string      `json:"vehicle_number" gorm:"type:varchar(20);not null" binding:"required,max=20"`
	StartTime     time.Time   `json:"start_time" gorm:"type:datetime;not null" binding:"required"`
	EndTime       time.Time   `json:"end_time" gorm:"type:datetime;not null" binding:"required,gtfield=StartTime"`
	Amount        float64     `json:"amount" gorm:"type:decimal(10,2);default:0.0" binding:"gte=0"`
	Status        string      `json:"status" gorm:"type:enum('active', 'completed', 'cancelled');default:'active'"`
	PaymentStatus string      `json:"payment_status" gorm:"type:enum('pending', 'paid');default:'pending'"`
	CreatedAt     time.Time   `json:"created_at" gorm:"column:created_at"`
	User          User        `json:"-" gorm:"foreignKey:user_id;references:UserID"`
	ParkingSpot   ParkingSpot `json:"-" gorm:"foreignKey:spot_id;references:SpotID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// allowTransition 定義訂位狀態的允許流轉。終態 completed / cancelled 不再流轉。
var allowTransition = map[string][]string{
	BookingActive:    {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// CanTransition 判斷 from -> to 是否為允許的狀態流轉
func CanTransition(from, to string) bool {
	allowed, ok := allowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Overlaps 檢查訂位區間與 [start, end] 是否重疊。
// 採封閉區間判定：邊界相接（booking.end == start 或 booking.start == end）也視為重疊。
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !(b.EndTime.Before(start) || b.StartTime.After(end))
}

type BookingResponse struct {
	BookingID     int                 `json:"booking_id"`
	UserID        int                 `json:"user_id"`
	SpotID        int                 `json:"spot_id"`
	VehicleNumber string              `json:"vehicle_number"`
	StartTime     time.Time           `json:"start_time"`
	EndTime       time.Time           `json:"end_time"`
	Amount        float64             `json:"amount"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	ParkingSpot   ParkingSpotResponse `json:"parking_spot,omitempty"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		BookingID:     b.BookingID,
		UserID:        b.UserID,
		SpotID:        b.SpotID,
		VehicleNumber: b.VehicleNumber,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Amount:        b.Amount,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		ParkingSpot:   b.ParkingSpot.ToResponse(),
		CreatedAt:     b.CreatedAt,
	}
}
