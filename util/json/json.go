package json

import (
	"github.com/bytedance/sonic"
)

// API是sonic的全局配置实例
var API = sonic.ConfigDefault

// 初始化sonic配置
func init() {
	API = sonic.Config{
		EscapeHTML: true,
		// 报告输出需要稳定的键序，便于对两次查询结果做diff
		SortMapKeys: true,
	}.Froze()
}

// Marshal 使用sonic序列化对象到JSON
func Marshal(v interface{}) ([]byte, error) {
	return API.Marshal(v)
}

// Unmarshal 使用sonic反序列化JSON到对象
func Unmarshal(data []byte, v interface{}) error {
	return API.Unmarshal(data, v)
}

// MarshalString 序列化对象到JSON字符串
func MarshalString(v interface{}) (string, error) {
	bytes, err := API.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// UnmarshalString 反序列化JSON字符串到对象
func UnmarshalString(str string, v interface{}) error {
	return API.Unmarshal([]byte(str), v)
}

// MarshalIndent 序列化对象到格式化的JSON
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return API.MarshalIndent(v, prefix, indent)
}
