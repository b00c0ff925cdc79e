package handlers

import (
	"log"
	"net/http"
	"strconv"

	"onlineparking/models"
	"onlineparking/services"

	"github.com/gin-gonic/gin"
)

// SpotInput 管理員新增車位的輸入
type SpotInput struct {
	SpotNumber  string  `json:"spot_number" binding:"required,max=20"`
	FloorNumber int     `json:"floor_number" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=car bike vip handicap electric standard"`
	HourlyRate  float64 `json:"hourly_rate" binding:"gte=0"`
}

// CreateParkingSpot 管理員新增車位
func CreateParkingSpot(c *gin.Context) {
	var input SpotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid spot input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	spot := models.ParkingSpot{
		SpotNumber:  input.SpotNumber,
		FloorNumber: input.FloorNumber,
		Type:        input.Type,
		HourlyRate:  input.HourlyRate,
	}

	if err := services.CreateParkingSpot(&spot); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "新增車位失敗", err.Error(), "ERR_CREATE_SPOT_FAILED")
		return
	}

	SuccessResponse(c, http.StatusCreated, "車位新增成功", spot.ToResponse())
}

// GetAllParkingSpots 查詢全部車位
func GetAllParkingSpots(c *gin.Context) {
	spots, err := services.GetAllParkingSpots()
	if err != nil {
		respondServiceError(c, err, "查詢車位失敗")
		return
	}

	responses := make([]models.ParkingSpotResponse, len(spots))
	for i, spot := range spots {
		responses[i] = spot.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// GetAvailableParkingSpots 查詢指定時間範圍內的可訂車位
func GetAvailableParkingSpots(c *gin.Context) {
	startStr := c.Query("start_time")
	endStr := c.Query("end_time")
	if startStr == "" || endStr == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少時間範圍", "start_time and end_time are required", "ERR_INVALID_INPUT")
		return
	}

	startTime, err := parseBookingTime(startStr)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的開始時間格式", err.Error(), "ERR_INVALID_TIME_FORMAT")
		return
	}
	endTime, err := parseBookingTime(endStr)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error(), "ERR_INVALID_TIME_FORMAT")
		return
	}

	spots, err := services.AvailableSpots(startTime, endTime)
	if err != nil {
		respondServiceError(c, err, "查詢可用車位失敗")
		return
	}

	responses := make([]models.ParkingSpotResponse, len(spots))
	for i, spot := range spots {
		responses[i] = spot.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// GetParkingSpot 查詢特定車位
func GetParkingSpot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	spot, err := services.GetParkingSpotByID(id)
	if err != nil {
		respondServiceError(c, err, "查詢車位失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", spot.ToResponse())
}

// UpdateParkingSpot 管理員更新車位
func UpdateParkingSpot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	var updatedFields map[string]interface{}
	if err := c.ShouldBindJSON(&updatedFields); err != nil {
		log.Printf("Invalid update input for spot %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	if err := services.UpdateParkingSpot(id, updatedFields); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "更新車位失敗", err.Error(), "ERR_UPDATE_SPOT_FAILED")
		return
	}

	SuccessResponse(c, http.StatusOK, "車位更新成功", nil)
}

// DeleteParkingSpot 管理員刪除車位
func DeleteParkingSpot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車位 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	if err := services.DeleteParkingSpot(id); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "刪除車位失敗", err.Error(), "ERR_DELETE_SPOT_FAILED")
		return
	}

	SuccessResponse(c, http.StatusOK, "車位已刪除", nil)
}
