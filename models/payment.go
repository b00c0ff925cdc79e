package models

import "time"

// 付款方式
const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodPaypal       = "paypal"
	MethodBankTransfer = "bank_transfer"
)

// Payment 付款紀錄：寫入後金額、方式與交易編號不可再變動，僅 payment_status 可翻轉為 paid
type Payment struct {
	PaymentID     int       `json:"payment_id" gorm:"primaryKey;autoIncrement;type:INT"`
	BookingID     int       `json:"booking_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	Amount        float64   `json:"amount" gorm:"type:decimal(10,2);not null" binding:"gte=0"`
	PaymentDate   time.Time `json:"payment_date" gorm:"type:datetime;not null"`
	PaymentMethod string    `json:"payment_method" gorm:"type:enum('cash', 'card', 'paypal', 'bank_transfer');not null" binding:"required,oneof=cash card paypal bank_transfer"`
	TransactionID string    `json:"transaction_id" gorm:"type:varchar(50);not null"`
	PaymentStatus string    `json:"payment_status" gorm:"type:enum('pending', 'paid');default:'pending'"`
	Booking       Booking   `json:"-" gorm:"foreignKey:booking_id;references:BookingID"`
}

func (Payment) TableName() string {
	return "payments"
}

type PaymentResponse struct {
	PaymentID     int     `json:"payment_id"`
	BookingID     int     `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
	PaymentStatus string  `json:"payment_status"`
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format("2006-01-02 15:04:05"),
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		PaymentStatus: p.PaymentStatus,
	}
}
