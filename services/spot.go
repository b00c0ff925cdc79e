package services

import (
	"errors"
	"fmt"
	"log"

	"onlineparking/database"
	"onlineparking/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 車位類型集合。實務上欄位是開放字串，新增類型只需要擴充這張表。
var validSpotTypes = map[string]bool{
	"car":      true,
	"bike":     true,
	"vip":      true,
	"handicap": true,
	"electric": true,
	"standard": true,
}

// CreateParkingSpot 管理員新增車位
func CreateParkingSpot(spot *models.ParkingSpot) error {
	if !validSpotTypes[spot.Type] {
		return fmt.Errorf("invalid type: must be one of car, bike, vip, handicap, electric, standard")
	}
	if spot.HourlyRate < 0 {
		return fmt.Errorf("hourly_rate must not be negative")
	}

	if err := database.DB.Create(spot).Error; err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return fmt.Errorf("spot number %s already exists", spot.SpotNumber)
		}
		log.Printf("Failed to create parking spot: %v", err)
		return storageError(err)
	}

	log.Printf("Successfully created parking spot %s with ID %d", spot.SpotNumber, spot.SpotID)
	return nil
}

// GetParkingSpotByID 查詢特定車位
func GetParkingSpotByID(id int) (*models.ParkingSpot, error) {
	var spot models.ParkingSpot
	if err := database.DB.First(&spot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get parking spot by ID %d: %v", id, err)
		return nil, storageError(err)
	}
	return &spot, nil
}

// GetAllParkingSpots 查詢全部車位，依樓層與編號排序
func GetAllParkingSpots() ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot
	if err := database.DB.Order("floor_number, spot_number").Find(&spots).Error; err != nil {
		log.Printf("Failed to query parking spots: %v", err)
		return nil, storageError(err)
	}
	return spots, nil
}

// UpdateParkingSpot 更新車位資料。佔用旗標與車牌由訂位流程維護，
// 不接受外部更新。
func UpdateParkingSpot(id int, updatedFields map[string]interface{}) error {
	var spot models.ParkingSpot
	if err := database.DB.First(&spot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	mappedFields := make(map[string]interface{})
	for key, value := range updatedFields {
		switch key {
		case "spot_number":
			spotNumber, ok := value.(string)
			if !ok || spotNumber == "" {
				return fmt.Errorf("invalid spot_number: must be a non-empty string")
			}
			if len(spotNumber) > 20 {
				return fmt.Errorf("spot_number must not exceed 20 characters")
			}
			mappedFields["spot_number"] = spotNumber
		case "floor_number":
			floorNumber, ok := value.(float64)
			if !ok {
				return fmt.Errorf("invalid floor_number: must be a number")
			}
			mappedFields["floor_number"] = int(floorNumber)
		case "type":
			spotType, ok := value.(string)
			if !ok || !validSpotTypes[spotType] {
				return fmt.Errorf("invalid type: must be one of car, bike, vip, handicap, electric, standard")
			}
			mappedFields["type"] = spotType
		case "hourly_rate":
			rate, ok := value.(float64)
			if !ok {
				return fmt.Errorf("invalid hourly_rate: must be a number")
			}
			if rate < 0 {
				return fmt.Errorf("hourly_rate must not be negative")
			}
			mappedFields["hourly_rate"] = rate
		default:
			log.Printf("Ignoring invalid field: %s", key)
			continue
		}
	}

	if len(mappedFields) == 0 {
		return fmt.Errorf("no valid fields to update")
	}

	if err := database.DB.Model(&spot).Updates(mappedFields).Error; err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return fmt.Errorf("spot number already exists")
		}
		log.Printf("Failed to update parking spot with ID %d: %v", id, err)
		return storageError(err)
	}

	log.Printf("Successfully updated parking spot with ID %d", id)
	return nil
}

// DeleteParkingSpot 刪除車位。仍有 active 訂位的車位不可刪除。
func DeleteParkingSpot(id int) error {
	var spot models.ParkingSpot
	if err := database.DB.First(&spot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	var activeCount int64
	if err := database.DB.Model(&models.Booking{}).
		Where("spot_id = ? AND status = ?", id, models.BookingActive).
		Count(&activeCount).Error; err != nil {
		return storageError(err)
	}
	if activeCount > 0 {
		return fmt.Errorf("parking spot %s has an active booking and cannot be deleted", spot.SpotNumber)
	}

	if err := database.DB.Delete(&spot).Error; err != nil {
		log.Printf("Failed to delete parking spot %d: %v", id, err)
		return storageError(err)
	}

	log.Printf("Successfully deleted parking spot %d", id)
	return nil
}
