package model

import "encoding/json"

// 批量搜索任务状态
// pending → running → {completed, failed, cancelled}，终态不可再迁移
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// IsTerminalStatus 判断任务状态是否为终态
func IsTerminalStatus(status string) bool {
	switch status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// BulkJobResponse 异步批量搜索任务的完整状态
// Results的取值形态不固定：可能是 键→记录数组，也可能是 键→(子键→单条记录)，
// 统一交由client.FlattenResults在合并边界解析
type BulkJobResponse struct {
	JobID          string                     `json:"job_id" sonic:"job_id"`
	Status         string                     `json:"status" sonic:"status"`
	TotalTasks     int                        `json:"total_tasks" sonic:"total_tasks"`
	CompletedTasks int                        `json:"completed_tasks" sonic:"completed_tasks"`
	FailedTasks    int                        `json:"failed_tasks,omitempty" sonic:"failed_tasks,omitempty"`
	ProgressPct    int                        `json:"progress_pct" sonic:"progress_pct"`
	ErrorMessage   string                     `json:"error_message,omitempty" sonic:"error_message,omitempty"`
	Results        map[string]json.RawMessage `json:"results,omitempty" sonic:"results,omitempty"`
}

// BulkProgress 批量任务进度，Pct恒与Completed/Total保持一致
type BulkProgress struct {
	Completed int `json:"completed" sonic:"completed"`
	Total     int `json:"total" sonic:"total"`
	Pct       int `json:"pct" sonic:"pct"`
}

// NewBulkProgress 创建进度对象并计算百分比（total<=0时百分比为0）
func NewBulkProgress(completed, total int) BulkProgress {
	return BulkProgress{
		Completed: completed,
		Total:     total,
		Pct:       ProgressPct(completed, total),
	}
}

// ProgressPct 计算进度百分比，四舍五入并收敛到[0,100]
func ProgressPct(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := (completed*100 + total/2) / total
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
