package services

import "math"

// roundCurrency 四捨五入到小數兩位（half away from zero，對齊收據金額顯示）
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountFor 計算單一車位的費用：每小時費率 × 取整後時數
func AmountFor(hourlyRate float64, durationHours int) float64 {
	return roundCurrency(hourlyRate * float64(durationHours))
}

// AmountForMultiSpot 計算同費率多車位一次訂位的總金額。
// 每個車位仍各自寫入一筆訂位與單位金額，這裡只用於前端顯示總額的核對。
func AmountForMultiSpot(hourlyRate float64, durationHours int, spotCount int) float64 {
	return AmountFor(hourlyRate, durationHours) * float64(spotCount)
}
