package model

// BlocklistMatch 威胁情报黑名单命中记录
type BlocklistMatch struct {
	Source string `json:"source" sonic:"source"`                   // 黑名单来源名称
	URL    string `json:"url" sonic:"url"`                         // 黑名单来源链接
	Name   string `json:"name,omitempty" sonic:"name,omitempty"`   // 黑名单中记录的扩展名称（可选）
}

// ExtensionRecord 统一的浏览器扩展数据结构
// 后端对所有商店（chrome/firefox/edge/safari）返回同一种记录形态，
// 记录一旦接收即视为不可变
type ExtensionRecord struct {
	ExtensionID string `json:"extension_id" sonic:"extension_id"`
	Name        string `json:"name" sonic:"name"`
	StoreSource string `json:"store_source" sonic:"store_source"`
	Publisher   string `json:"publisher,omitempty" sonic:"publisher,omitempty"`
	Description string `json:"description,omitempty" sonic:"description,omitempty"`
	Version     string `json:"version,omitempty" sonic:"version,omitempty"`
	UserCount   string `json:"user_count,omitempty" sonic:"user_count,omitempty"` // 原始字符串，如 "10,000+ users"
	Category    string `json:"category,omitempty" sonic:"category,omitempty"`
	Rating      string `json:"rating,omitempty" sonic:"rating,omitempty"`
	RatingCount string `json:"rating_count,omitempty" sonic:"rating_count,omitempty"`
	LastUpdated string `json:"last_updated,omitempty" sonic:"last_updated,omitempty"`
	StoreURL    string `json:"store_url,omitempty" sonic:"store_url,omitempty"`
	IconURL     string `json:"icon_url,omitempty" sonic:"icon_url,omitempty"`
	HomepageURL string `json:"homepage_url,omitempty" sonic:"homepage_url,omitempty"`

	Permissions []string `json:"permissions,omitempty" sonic:"permissions,omitempty"`

	// Found 为nil表示后端未给出该字段，按"已找到"处理；
	// 只有显式false才表示未找到
	Found    *bool `json:"found,omitempty" sonic:"found,omitempty"`
	Cached   bool  `json:"cached,omitempty" sonic:"cached,omitempty"`
	Delisted bool  `json:"delisted,omitempty" sonic:"delisted,omitempty"`

	ScrapedAt string `json:"scraped_at,omitempty" sonic:"scraped_at,omitempty"`

	BlocklistMatches []BlocklistMatch `json:"blocklist_matches,omitempty" sonic:"blocklist_matches,omitempty"`

	// SOC相关补充字段
	PrivacyPolicyURL string `json:"privacy_policy_url,omitempty" sonic:"privacy_policy_url,omitempty"`
	ContentRating    string `json:"content_rating,omitempty" sonic:"content_rating,omitempty"`
	FileSize         string `json:"file_size,omitempty" sonic:"file_size,omitempty"`
	ReleaseDate      string `json:"release_date,omitempty" sonic:"release_date,omitempty"`
	Price            string `json:"price,omitempty" sonic:"price,omitempty"`
	DeveloperWebsite string `json:"developer_website,omitempty" sonic:"developer_website,omitempty"`
	DeveloperEmail   string `json:"developer_email,omitempty" sonic:"developer_email,omitempty"`
	SupportURL       string `json:"support_url,omitempty" sonic:"support_url,omitempty"`

	Error string `json:"error,omitempty" sonic:"error,omitempty"` // 单条记录级别的抓取错误信息
}

// IsFound 判断记录是否为有效命中（字段缺失视为已找到）
func (r *ExtensionRecord) IsFound() bool {
	return r.Found == nil || *r.Found
}

// PermissionSnapshot 权限历史快照，后端已预先计算好与上一快照的差异
type PermissionSnapshot struct {
	Version     string   `json:"version" sonic:"version"`
	Permissions []string `json:"permissions" sonic:"permissions"`
	ScrapedAt   string   `json:"scraped_at" sonic:"scraped_at"`
	Added       []string `json:"added,omitempty" sonic:"added,omitempty"`
	Removed     []string `json:"removed,omitempty" sonic:"removed,omitempty"`
}

// PermissionHistory 扩展权限变更历史
type PermissionHistory struct {
	ExtensionID string               `json:"extension_id" sonic:"extension_id"`
	Store       string               `json:"store" sonic:"store"`
	Snapshots   []PermissionSnapshot `json:"snapshots" sonic:"snapshots"`
}
