package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置结构
type Config struct {
	// 后端API相关配置
	APIBaseURL string // 扩展情报后端API地址（含/api前缀）
	APIKey     string // X-API-Key，后端未开启鉴权时可为空
	ProxyURL   string
	UseProxy   bool
	// 搜索相关配置
	DefaultStores   []string // 默认搜索的商店列表
	BulkMaxIDs      int      // 单次批量搜索的ID数量上限
	NameSearchLimit int      // 跨商店名称搜索每个商店的结果上限
	// 请求超时配置
	RequestTimeout time.Duration // 普通REST请求超时
	// 异步任务进度跟踪配置
	PollInterval    time.Duration // 轮询回退的固定间隔
	PollMaxAttempts int           // 轮询尝试次数上限
	// 演示模式配置
	MockPort string // -mock模式下内置模拟后端的监听端口
}

// 全局配置实例
var AppConfig *Config

// 轮询回退的默认参数：每2秒一次，最多150次（约5分钟）
// 轮询没有服务端推送可依赖，后端永远到不了终态时必须自行收敛
const (
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 150
)

// 后端对单次批量搜索的ID数量上限
const DefaultBulkMaxIDs = 50

// 初始化配置
func Init() {
	proxyURL := os.Getenv("PROXY")

	AppConfig = &Config{
		APIBaseURL:      getAPIBaseURL(),
		APIKey:          os.Getenv("EXT_API_KEY"),
		ProxyURL:        proxyURL,
		UseProxy:        proxyURL != "",
		DefaultStores:   getDefaultStores(),
		BulkMaxIDs:      getIntEnv("BULK_MAX_IDS", DefaultBulkMaxIDs),
		NameSearchLimit: getIntEnv("NAME_SEARCH_LIMIT", 5),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		PollInterval:    getDurationEnv("POLL_INTERVAL", DefaultPollInterval),
		PollMaxAttempts: getIntEnv("POLL_MAX_ATTEMPTS", DefaultPollMaxAttempts),
		MockPort:        getMockPort(),
	}
}

// 从环境变量获取后端API地址，如果未设置则使用默认值
func getAPIBaseURL() string {
	baseURL := os.Getenv("EXT_API_URL")
	if baseURL == "" {
		return "http://localhost:5000/api"
	}
	return strings.TrimRight(baseURL, "/")
}

// 从环境变量获取默认商店列表，如果未设置则使用默认值
func getDefaultStores() []string {
	storesEnv := os.Getenv("STORES")
	if storesEnv == "" {
		return []string{"chrome", "firefox", "edge"}
	}

	stores := make([]string, 0, 4)
	for _, s := range strings.Split(storesEnv, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			stores = append(stores, s)
		}
	}
	if len(stores) == 0 {
		return []string{"chrome", "firefox", "edge"}
	}
	return stores
}

// 从环境变量获取模拟后端端口，如果未设置则使用默认值
func getMockPort() string {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		return "5050"
	}
	return port
}

// 从环境变量获取整数配置，未设置或非法时使用默认值
func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// 从环境变量获取秒级时长配置，未设置或非法时使用默认值
func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
