package util

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Chrome扩展ID：32个小写字母
var ChromeIDPattern = regexp.MustCompile(`^[a-z]{32}$`)

// Edge扩展ID：32个字母或数字
var EdgeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)

// 规范UUID格式（带连字符的8-4-4-4-12）
var JobIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidateJobID 校验异步任务ID是否为规范UUID
// 任务ID会拼进后续请求的URL路径，必须在发起任何请求之前在客户端侧拒绝非法值
func ValidateJobID(jobID string) bool {
	if !JobIDPattern.MatchString(jobID) {
		return false
	}
	_, err := uuid.Parse(jobID)
	return err == nil
}

// ValidateExtensionID 按商店校验扩展ID格式
// firefox的slug格式多样，只要求非平凡字符串
func ValidateExtensionID(extensionID, store string) bool {
	if extensionID == "" {
		return false
	}

	switch store {
	case "chrome":
		return ChromeIDPattern.MatchString(extensionID)
	case "edge":
		return EdgeIDPattern.MatchString(extensionID)
	case "firefox", "safari":
		return len(extensionID) > 1
	}

	return false
}

// ValidExtensionIDForAnyStore 判断扩展ID在给定商店集合中是否至少有一个合法形态
func ValidExtensionIDForAnyStore(extensionID string, stores []string) bool {
	extensionID = strings.TrimSpace(extensionID)
	for _, store := range stores {
		if ValidateExtensionID(extensionID, store) {
			return true
		}
	}
	return false
}
