package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"onlineparking/models"
	"onlineparking/services"
	"onlineparking/utils"

	"github.com/gin-gonic/gin"
)

// RegisterInput 註冊輸入
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput 登入輸入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser 註冊會員
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid register input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	}

	if err := services.RegisterUser(&user); err != nil {
		log.Printf("Failed to register user %s: %v", input.Email, err)
		ErrorResponse(c, http.StatusBadRequest, "註冊失敗", err.Error(), "ERR_REGISTER_FAILED")
		return
	}

	SuccessResponse(c, http.StatusCreated, "註冊成功", user.ToResponse())
}

// LoginUser 登入會員並簽發 token
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid login input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), "ERR_INVALID_INPUT")
		return
	}

	user, err := services.LoginUser(input.Email, input.Password)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "帳號或密碼錯誤", err.Error(), "ERR_LOGIN_FAILED")
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.IsAdmin == 1)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.UserID, err)
		ErrorResponse(c, http.StatusInternalServerError, "簽發 token 失敗", err.Error(), "ERR_TOKEN_FAILED")
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// GetUserProfile 查看個人資料
func GetUserProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := services.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "查詢會員資料失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", user.ToResponse())
}

// GetAllUsers 管理員查詢所有會員
func GetAllUsers(c *gin.Context) {
	users, err := services.GetAllUsers()
	if err != nil {
		respondServiceError(c, err, "查詢會員列表失敗")
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// GetUser 管理員查詢特定會員
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的會員 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	user, err := services.GetUserByID(id)
	if err != nil {
		respondServiceError(c, err, "查詢會員失敗")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", user.ToResponse())
}

// DeleteUser 管理員刪除會員
func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的會員 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	if err := services.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "會員不存在", err.Error(), "ERR_NOT_FOUND")
			return
		}
		ErrorResponse(c, http.StatusBadRequest, "刪除會員失敗", err.Error(), "ERR_DELETE_FAILED")
		return
	}

	SuccessResponse(c, http.StatusOK, "會員已刪除", nil)
}

// GetUserBookingHistory 查詢會員的訂位歷史；
// 一般會員只能查自己的，管理員可查任何人
func GetUserBookingHistory(c *gin.Context) {
	requestedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的會員 ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	currentUserID := c.GetInt("user_id")
	isAdmin := c.GetBool("is_admin")
	if !isAdmin && currentUserID != requestedID {
		ErrorResponse(c, http.StatusForbidden, "無權限", "you can only view your own booking history", "ERR_INSUFFICIENT_PERMISSIONS")
		return
	}

	bookings, err := services.GetBookingsByUser(requestedID)
	if err != nil {
		respondServiceError(c, err, "查詢訂位歷史失敗")
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}
