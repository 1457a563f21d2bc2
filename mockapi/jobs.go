package mockapi

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"crxsou/model"
	jsonutil "crxsou/util/json"
)

// job 一个异步批量搜索任务的服务端状态
type job struct {
	mu        sync.Mutex
	id        string
	ids       []string
	stores    []string
	total     int
	completed int
	failed    int
	status    string
	errMsg    string
	results   map[string]map[string]model.ExtensionRecord // extension_id → store → record
	cancelCh  chan struct{}
	cancelled bool
}

// newJob 创建任务，初始状态为pending
func newJob(ids, stores []string) *job {
	return &job{
		id:       uuid.NewString(),
		ids:      ids,
		stores:   stores,
		total:    len(ids) * len(stores),
		status:   model.JobStatusPending,
		results:  make(map[string]map[string]model.ExtensionRecord),
		cancelCh: make(chan struct{}),
	}
}

// requestCancel 请求取消，可重复调用
func (j *job) requestCancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.cancelled {
		j.cancelled = true
		close(j.cancelCh)
	}
	if !model.IsTerminalStatus(j.status) {
		j.status = model.JobStatusCancelled
	}
}

// snapshot 导出任务当前状态，结果容器按嵌套形态（键→子键→记录）序列化
func (j *job) snapshot() model.BulkJobResponse {
	j.mu.Lock()
	defer j.mu.Unlock()

	resp := model.BulkJobResponse{
		JobID:          j.id,
		Status:         j.status,
		TotalTasks:     j.total,
		CompletedTasks: j.completed,
		FailedTasks:    j.failed,
		ProgressPct:    model.ProgressPct(j.completed, j.total),
		ErrorMessage:   j.errMsg,
	}

	if len(j.results) > 0 {
		resp.Results = make(map[string]json.RawMessage, len(j.results))
		for extID, byStore := range j.results {
			data, err := jsonutil.Marshal(byStore)
			if err != nil {
				continue
			}
			resp.Results[extID] = data
		}
	}
	return resp
}

// runJob 任务执行循环：按固定节拍逐个解析(扩展ID, 商店)组合
// StallJobs开启时任务永远停在running，用于验证调用方的轮询上限
func (s *Server) runJob(j *job) {
	j.mu.Lock()
	j.status = model.JobStatusRunning
	j.mu.Unlock()

	if s.opts.StallJobs {
		<-j.cancelCh
		return
	}

	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for _, extID := range j.ids {
		for _, store := range j.stores {
			select {
			case <-j.cancelCh:
				return
			case <-ticker.C:
			}

			rec, ok := s.lookup(store, extID)
			if !ok {
				rec = notFoundRecord(store, extID)
			}

			j.mu.Lock()
			if j.results[extID] == nil {
				j.results[extID] = make(map[string]model.ExtensionRecord)
			}
			j.results[extID][store] = rec
			j.completed++
			j.mu.Unlock()
		}
	}

	j.mu.Lock()
	if !model.IsTerminalStatus(j.status) {
		j.status = model.JobStatusCompleted
	}
	j.mu.Unlock()
}

// getJob 按ID查找任务
func (s *Server) getJob(jobID string) (*job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	return j, ok
}

// addJob 登记任务并启动执行循环
func (s *Server) addJob(j *job) {
	s.mu.Lock()
	s.jobs[j.id] = j
	s.mu.Unlock()
	go s.runJob(j)
}
