package model

// SearchRequest 单个扩展搜索请求参数
type SearchRequest struct {
	ExtensionID        string   `json:"extension_id" sonic:"extension_id" binding:"required"` // 扩展ID
	Stores             []string `json:"stores,omitempty" sonic:"stores,omitempty"`            // 要搜索的商店列表，为空时由后端取默认值
	IncludePermissions bool     `json:"include_permissions,omitempty" sonic:"include_permissions,omitempty"`
}

// BulkSearchRequest 同步批量搜索请求参数
type BulkSearchRequest struct {
	ExtensionIDs       []string `json:"extension_ids" sonic:"extension_ids" binding:"required"`
	Stores             []string `json:"stores,omitempty" sonic:"stores,omitempty"`
	IncludePermissions bool     `json:"include_permissions,omitempty" sonic:"include_permissions,omitempty"`
}

// AsyncBulkSearchRequest 异步批量搜索请求参数
type AsyncBulkSearchRequest struct {
	ExtensionIDs       []string `json:"extension_ids" sonic:"extension_ids" binding:"required"`
	Stores             []string `json:"stores,omitempty" sonic:"stores,omitempty"`
	IncludePermissions bool     `json:"include_permissions" sonic:"include_permissions"`
}

// NameSearchRequest 按名称跨商店搜索请求参数
type NameSearchRequest struct {
	Name          string   `json:"name" sonic:"name" binding:"required"`                                    // 扩展显示名称
	ExcludeStores []string `json:"exclude_stores,omitempty" sonic:"exclude_stores,omitempty"`               // 不需要搜索的商店（通常是已命中的来源商店）
	Limit         int      `json:"limit,omitempty" sonic:"limit,omitempty"`                                 // 每个商店返回的最大结果数
}
