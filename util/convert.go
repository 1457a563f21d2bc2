package util

import (
	"fmt"
	"strconv"
	"strings"
)

// StringToInt 将字符串转换为整数，如果转换失败则返回0
func StringToInt(s string) int {
	if s == "" {
		return 0
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// ParseUserCount 解析商店页面的安装量字符串为整数
// 先剔除所有非数字字符再解析，如 "10,000+ users" → 10000；
// 无法解析或为空时返回0
func ParseUserCount(s string) int {
	if s == "" {
		return 0
	}

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// FormatUserCount 格式化安装量用于展示
func FormatUserCount(count int) string {
	switch {
	case count >= 1000000:
		return fmt.Sprintf("%.1fM+ users", float64(count)/1000000)
	case count >= 1000:
		return fmt.Sprintf("%.0fK+ users", float64(count)/1000)
	default:
		return fmt.Sprintf("%d users", count)
	}
}
