package models

import "time"

type User struct {
	UserID    int       `json:"user_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null" binding:"required,email"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)" binding:"omitempty,max=20"`
	Password  string    `json:"password" gorm:"type:varchar(100);not null" binding:"required,min=8"`
	IsAdmin   int       `json:"is_admin" gorm:"type:tinyint(1);default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	Bookings  []Booking `json:"-" gorm:"foreignKey:user_id;references:UserID"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse 回傳給前端的會員資料，不包含密碼
type UserResponse struct {
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsAdmin   int    `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
