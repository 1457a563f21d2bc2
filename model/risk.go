package model

// RiskLevel 风险等级，critical > high > medium > low 全序
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// 风险等级排序权重
var riskRank = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Rank 返回风险等级权重，未知等级为0
func (l RiskLevel) Rank() int {
	return riskRank[l]
}

// PermissionInfo 单个权限的分类结果（派生数据，不做持久化）
type PermissionInfo struct {
	Permission  string    `json:"permission" sonic:"permission"`
	Risk        RiskLevel `json:"risk" sonic:"risk"`
	Description string    `json:"description" sonic:"description"`
}

// RiskSignal 独立评估的单条风险信号
type RiskSignal struct {
	Severity RiskLevel `json:"severity" sonic:"severity"`
	Label    string    `json:"label" sonic:"label"`
}

// RiskVerdict 扩展的综合风险结论
// Level为空字符串表示没有任何信号命中，与显式的low不同：
// 仅命中陈旧性信号的扩展Level为low而不是空
type RiskVerdict struct {
	Level   RiskLevel    `json:"level,omitempty" sonic:"level,omitempty"`
	Message string       `json:"message,omitempty" sonic:"message,omitempty"`
	Signals []RiskSignal `json:"signals" sonic:"signals"`
}

// ReportEntry 单条扩展的查询报告
type ReportEntry struct {
	Record      ExtensionRecord  `json:"record" sonic:"record"`
	Permissions []PermissionInfo `json:"permissions,omitempty" sonic:"permissions,omitempty"`
	Verdict     RiskVerdict      `json:"verdict" sonic:"verdict"`
}

// LookupReport 一次批量查询的完整报告
type LookupReport struct {
	JobID      string        `json:"job_id,omitempty" sonic:"job_id,omitempty"`
	Status     string        `json:"status" sonic:"status"`
	Requested  int           `json:"requested" sonic:"requested"`   // 提交的扩展ID数量
	FoundCount int           `json:"found_count" sonic:"found_count"`
	Entries    []ReportEntry `json:"entries" sonic:"entries"`
	Message    string        `json:"message,omitempty" sonic:"message,omitempty"` // 信息性提示，如"no extensions found"
}
