package services

import (
	"errors"
	"fmt"
	"log"

	"onlineparking/database"
	"onlineparking/models"
	"onlineparking/utils"

	"gorm.io/gorm"
)

// RegisterUser 註冊會員
func RegisterUser(user *models.User) error {
	// 檢查是否有重複的 email 或 phone
	var existingUser models.User
	if err := database.DB.Where("email = ?", user.Email).First(&existingUser).Error; err == nil {
		return fmt.Errorf("email %s is already in use", user.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate email: %v", err)
		return storageError(err)
	}

	if user.Phone != "" {
		if err := database.DB.Where("phone = ?", user.Phone).First(&existingUser).Error; err == nil {
			return fmt.Errorf("phone %s is already in use", user.Phone)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to check for duplicate phone: %v", err)
			return storageError(err)
		}
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	// 一般註冊一律為普通會員，管理員帳號只能由既有管理員建立
	user.IsAdmin = 0

	if err := database.DB.Create(user).Error; err != nil {
		log.Printf("Failed to register user: %v", err)
		return storageError(err)
	}

	log.Printf("Successfully registered user with ID %d", user.UserID)
	return nil
}

// LoginUser 登入會員，驗證成功回傳會員資料
func LoginUser(email, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password")
		}
		log.Printf("Failed to query user by email: %v", err)
		return nil, storageError(err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		log.Printf("Password mismatch for user %s", email)
		return nil, fmt.Errorf("invalid email or password")
	}

	log.Printf("User %d logged in", user.UserID)
	return &user, nil
}

// GetUserByID 查詢特定會員
func GetUserByID(id int) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get user by ID %d: %v", id, err)
		return nil, storageError(err)
	}
	return &user, nil
}

// GetAllUsers 查詢所有會員
func GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := database.DB.Order("user_id").Find(&users).Error; err != nil {
		log.Printf("Failed to query users: %v", err)
		return nil, storageError(err)
	}
	return users, nil
}

// DeleteUser 刪除會員。仍有 active 訂位的會員不可刪除。
func DeleteUser(id int) error {
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	var activeCount int64
	if err := database.DB.Model(&models.Booking{}).
		Where("user_id = ? AND status = ?", id, models.BookingActive).
		Count(&activeCount).Error; err != nil {
		return storageError(err)
	}
	if activeCount > 0 {
		return fmt.Errorf("user %d has an active booking and cannot be deleted", id)
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		log.Printf("Failed to delete user %d: %v", id, err)
		return storageError(err)
	}

	log.Printf("Successfully deleted user %d", id)
	return nil
}
