package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"onlineparking/handlers"
	"onlineparking/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id 和 is_admin
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims or token is not valid",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 exp 字段存在
		if exp, ok := claims["exp"].(float64); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Missing or invalid exp claim",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		} else {
			log.Printf("Token verified: exp=%v, current_time=%v", exp, time.Now().Unix())
		}

		// 確認 user_id 字段
		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的會員 ID",
				"error":   "Invalid user_id in token",
				"code":    "ERR_INVALID_USER_ID",
			})
			c.Abort()
			return
		}

		// is_admin 缺失時視為一般會員
		isAdmin, _ := claims["is_admin"].(bool)

		c.Set("user_id", int(userID))
		c.Set("is_admin", isAdmin)
		c.Next()
	}
}

// AdminMiddleware 僅允許管理員通過
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  false,
				"message": "權限不足",
				"error":   "Admin privileges are required",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 會員路由
		users := v1.Group("/users")
		{
			// 公開路由：不需要 token 驗證
			users.POST("/register", handlers.RegisterUser) // 註冊會員
			users.POST("/login", handlers.LoginUser)       // 登入會員並獲取 token

			// 受保護路由：需要 token 驗證
			usersWithAuth := users.Group("")
			usersWithAuth.Use(AuthMiddleware())
			{
				// 查看個人資料：任何已認證的會員都可以訪問
				usersWithAuth.GET("/profile", handlers.GetUserProfile)
				// 查詢會員的訂位歷史：本人或管理員
				usersWithAuth.GET("/:id/history", handlers.GetUserBookingHistory)
				// 管理員專屬路由
				usersWithAuth.GET("/all", AdminMiddleware(), handlers.GetAllUsers)      // 查詢所有會員
				usersWithAuth.GET("/:id", AdminMiddleware(), handlers.GetUser)          // 查詢特定會員
				usersWithAuth.DELETE("/:id", AdminMiddleware(), handlers.DeleteUser)    // 刪除會員
			}
		}

		// 車位路由
		spots := v1.Group("/spots")
		spots.Use(AuthMiddleware())
		{
			// 查詢全部車位與可用車位：任何已認證的會員都可以訪問
			spots.GET("", handlers.GetAllParkingSpots)
			spots.GET("/available", handlers.GetAvailableParkingSpots)
			spots.GET("/:id", handlers.GetParkingSpot)
			// 車位管理：僅管理員
			spots.POST("", AdminMiddleware(), handlers.CreateParkingSpot)
			spots.PUT("/:id", AdminMiddleware(), handlers.UpdateParkingSpot)
			spots.DELETE("/:id", AdminMiddleware(), handlers.DeleteParkingSpot)
		}

		// 訂位路由
		bookings := v1.Group("/bookings")
		bookings.Use(AuthMiddleware())
		{
			bookings.POST("", handlers.CreateBooking)            // 建立訂位
			bookings.GET("", handlers.GetMyBookings)             // 查詢自己的訂位
			bookings.GET("/all", AdminMiddleware(), handlers.GetAllBookings) // 查詢全部訂位
			bookings.GET("/:id", handlers.GetBooking)            // 查詢單筆訂位
			bookings.DELETE("/:id", handlers.CancelBooking)      // 取消訂位
			bookings.POST("/:id/pay", handlers.PayBooking)       // 立即付款
			bookings.GET("/:id/receipt", handlers.GetBookingReceipt) // 查詢收據
			// 結帳：僅管理員
			bookings.POST("/:id/complete", AdminMiddleware(), handlers.CompleteBooking)
		}

		// 付款與報表路由：僅管理員
		payments := v1.Group("/payments")
		payments.Use(AuthMiddleware(), AdminMiddleware())
		{
			payments.GET("", handlers.GetAllPayments)
			payments.POST("/:id/mark-paid", handlers.MarkPaymentPaid)
		}

		reports := v1.Group("/reports")
		reports.Use(AuthMiddleware(), AdminMiddleware())
		{
			reports.GET("/revenue", handlers.GetRevenueReport)
		}
	}
}
