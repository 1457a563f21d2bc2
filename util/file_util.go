package util

import (
	"fmt"
	"os"
)

// ID导入文件的大小上限：1MB
const MaxIDFileSize = 1 << 20

// FileExists 检查文件是否存在
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// ReadIDFile 读取待解析的扩展ID文件
// 解析器本身是纯函数，文件读取和大小上限在这里把关
func ReadIDFile(filename string) (string, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxIDFileSize {
		return "", fmt.Errorf("file %s exceeds %d byte limit", filename, MaxIDFileSize)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
