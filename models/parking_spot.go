package models

import "time"

type ParkingSpot struct {
	SpotID        int       `json:"spot_id" gorm:"primaryKey;autoIncrement;type:INT"`
	SpotNumber    string    `json:"spot_number" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required,max=20"`
	FloorNumber   int       `json:"floor_number" gorm:"type:INT;not null" binding:"required"`
	Type          string    `json:"type" gorm:"type:varchar(20);not null" binding:"required,oneof=car bike vip handicap electric standard"`
	HourlyRate    float64   `json:"hourly_rate" gorm:"type:decimal(10,2);not null" binding:"gte=0"`
	IsOccupied    int       `json:"is_occupied" gorm:"type:tinyint(1);default:0"`
	VehicleNumber *string   `json:"vehicle_number" gorm:"type:varchar(20);default:null"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	Bookings      []Booking `json:"-" gorm:"foreignKey:spot_id;references:SpotID"`
}

func (ParkingSpot) TableName() string {
	return "parking_spots"
}

type ParkingSpotResponse struct {
	SpotID        int     `json:"spot_id"`
	SpotNumber    string  `json:"spot_number"`
	FloorNumber   int     `json:"floor_number"`
	Type          string  `json:"type"`
	HourlyRate    float64 `json:"hourly_rate"`
	IsOccupied    int     `json:"is_occupied"`
	VehicleNumber string  `json:"vehicle_number,omitempty"`
}

func (p *ParkingSpot) ToResponse() ParkingSpotResponse {
	vehicleNumber := ""
	if p.VehicleNumber != nil {
		vehicleNumber = *p.VehicleNumber
	}

	return ParkingSpotResponse{
		SpotID:        p.SpotID,
		SpotNumber:    p.SpotNumber,
		FloorNumber:   p.FloorNumber,
		Type:          p.Type,
		HourlyRate:    p.HourlyRate,
		IsOccupied:    p.IsOccupied,
		VehicleNumber: vehicleNumber,
	}
}
