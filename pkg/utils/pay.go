package utils

import (
	"fmt"
	"time"
)

// GenerateOutTradeNo 前缀 + 秒级时间 + 唯一 ID
func GenerateOutTradeNo(prefix string, id int64) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%d", prefix, now, id)
}
