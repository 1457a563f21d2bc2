package model

import "encoding/json"

// SearchResponse 单个扩展搜索响应
type SearchResponse struct {
	ExtensionID string            `json:"extension_id" sonic:"extension_id"`
	Results     []ExtensionRecord `json:"results" sonic:"results"`
}

// BulkSearchResponse 同步批量搜索响应
// Results的键为扩展ID，值为该ID在各商店的记录列表
type BulkSearchResponse struct {
	Results map[string][]ExtensionRecord `json:"results" sonic:"results"`
}

// NameSearchResponse 按名称跨商店搜索响应
// 支持程序化查询的商店填充Results，只能人工检索的商店填充SearchURLs
type NameSearchResponse struct {
	Results    map[string]json.RawMessage `json:"results,omitempty" sonic:"results,omitempty"`
	SearchURLs map[string]string          `json:"search_urls,omitempty" sonic:"search_urls,omitempty"`
}

// AsyncBulkSearchResponse 异步批量搜索创建响应
type AsyncBulkSearchResponse struct {
	JobID      string `json:"job_id" sonic:"job_id"`
	Status     string `json:"status" sonic:"status"`
	TotalTasks int    `json:"total_tasks" sonic:"total_tasks"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status" sonic:"status"`
	Version string `json:"version,omitempty" sonic:"version,omitempty"`
}

// ErrorResponse 后端错误响应体
type ErrorResponse struct {
	Error string `json:"error" sonic:"error"`
}

// CrossStoreResult 跨商店关联查询的合并结果
// Results与SearchURLs同时为空表示"无匹配"，不是错误
type CrossStoreResult struct {
	Results    []ExtensionRecord `json:"results" sonic:"results"`
	SearchURLs map[string]string `json:"search_urls,omitempty" sonic:"search_urls,omitempty"`
}
