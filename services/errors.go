package services

import (
	"errors"
	"fmt"
)

// 業務錯誤種類：handler 依種類對應 HTTP 狀態碼與錯誤代碼，
// 不把底層資料庫錯誤直接丟給呼叫端。
var (
	ErrInvalidRange          = errors.New("end_time must be after start_time")
	ErrInvalidVehicleNumber  = errors.New("vehicle number may only contain letters, digits and hyphens")
	ErrSpotUnavailable       = errors.New("parking spot is not available for the specified time range")
	ErrAmountMismatch        = errors.New("submitted total does not match the calculated amount")
	ErrNotFound              = errors.New("record not found")
	ErrNotActive             = errors.New("booking is not active")
	ErrTransactionIDRequired = errors.New("transaction id is required for non-cash payments")
	ErrUnauthorized          = errors.New("not allowed to operate on this booking")

	// ErrStorage 包裝所有未分類的資料庫層錯誤
	ErrStorage = errors.New("storage failure")
)

// storageError 將資料庫錯誤包成 ErrStorage，保留原因供日誌追查
func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
