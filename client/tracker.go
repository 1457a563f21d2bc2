package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crxsou/model"
)

// StateIdle 跟踪器尚未启动任何任务时的状态，
// 任务提交后直接进入model中定义的pending/running/终态序列
const StateIdle = "idle"

// BulkState 批量搜索任务在客户端侧的完整可见状态
type BulkState struct {
	Status   string                  `json:"status" sonic:"status"`
	JobID    string                  `json:"job_id,omitempty" sonic:"job_id,omitempty"`
	Progress model.BulkProgress      `json:"progress" sonic:"progress"`
	Records  []model.ExtensionRecord `json:"records,omitempty" sonic:"records,omitempty"`
	Err      string                  `json:"error,omitempty" sonic:"error,omitempty"`
	Message  string                  `json:"message,omitempty" sonic:"message,omitempty"` // 信息性提示，如空结果
	Loading  bool                    `json:"loading" sonic:"loading"`
}

// transportHandle 当前活跃的进度传输（流或轮询）的句柄
// 同一时刻最多存在一个；换传输之前必须先cancel并等待finished，
// 否则两路终态处理会竞争写同一份状态
type transportHandle struct {
	cancel   context.CancelFunc
	finished chan struct{}
}

// BulkTracker 异步批量搜索任务跟踪器
//
// 状态机：idle → pending → running → {completed, failed, cancelled}，
// 终态吸收，之后的任何事件都被忽略。进度优先走SSE流，
// 流传输故障时自动回退到固定间隔轮询。
// 每个跟踪器实例同一时刻只跟踪一个任务
type BulkTracker struct {
	client *Client

	mu         sync.Mutex
	state      BulkState
	transport  *transportHandle
	done       chan struct{}
	doneClosed bool

	// 可选回调，在锁外触发
	OnProgress func(model.BulkProgress)
	OnComplete func(BulkState)
	OnError    func(string)
}

// NewBulkTracker 创建批量任务跟踪器
func NewBulkTracker(c *Client) *BulkTracker {
	return &BulkTracker{
		client: c,
		state:  BulkState{Status: StateIdle},
	}
}

// Start 提交批量搜索任务并开始跟踪进度
//
// 会先拆除上一次搜索遗留的传输，保证不会有两路结果流写入同一状态。
// 前置校验失败或提交失败时同步返回错误并把错误写进状态，
// 之后的异步错误只通过状态和回调暴露
func (t *BulkTracker) Start(ctx context.Context, ids, stores []string, includePermissions bool) error {
	// 先拆掉旧传输再动状态，校验失败也不能留下还在写状态的旧流
	t.teardownTransport()

	if len(ids) == 0 {
		err := fmt.Errorf("no extension ids to search")
		t.mu.Lock()
		t.state = BulkState{Status: model.JobStatusFailed, Err: err.Error()}
		t.mu.Unlock()
		return err
	}

	t.mu.Lock()
	t.state = BulkState{Status: model.JobStatusPending, Loading: true}
	t.done = make(chan struct{})
	t.doneClosed = false
	t.mu.Unlock()

	resp, err := t.client.StartBulkJob(ctx, model.AsyncBulkSearchRequest{
		ExtensionIDs:       ids,
		Stores:             stores,
		IncludePermissions: includePermissions,
	})
	if err != nil {
		t.finalizeLocal(model.JobStatusFailed, fmt.Sprintf("failed to start bulk search: %v", err), "")
		return err
	}

	t.mu.Lock()
	t.state.JobID = resp.JobID
	t.state.Progress = model.NewBulkProgress(0, resp.TotalTasks)
	if resp.Status != "" {
		t.state.Status = resp.Status
	}
	jobID := resp.JobID
	t.mu.Unlock()

	t.client.log.WithFields(map[string]interface{}{
		"job_id": jobID,
		"total":  resp.TotalTasks,
	}).Info("bulk search job started")

	// 传输的生命周期由跟踪器自己管理，不随Start的context结束
	tctx, cancel := context.WithCancel(context.Background())
	handle := &transportHandle{cancel: cancel, finished: make(chan struct{})}

	t.mu.Lock()
	t.transport = handle
	t.mu.Unlock()

	go t.run(tctx, handle, jobID)

	return nil
}

// run 传输主循环：先走SSE流，传输故障时回退到轮询
// 整个循环由同一个goroutine顺序执行，流和轮询不会同时活跃
func (t *BulkTracker) run(ctx context.Context, handle *transportHandle, jobID string) {
	defer close(handle.finished)

	err := t.client.StreamBulkJob(ctx, jobID, StreamHandler{
		OnProgress: t.handleProgress,
		OnError:    t.handleJobError,
		OnComplete: func(status string) {
			t.confirmTerminal(ctx, jobID, status)
		},
	})
	if err == nil {
		// complete事件已触发权威状态获取
		return
	}
	if ctx.Err() != nil {
		return
	}

	t.client.log.WithField("job_id", jobID).Warnf("progress stream failed, falling back to polling: %v", err)
	t.pollLoop(ctx, jobID)
}

// pollLoop 固定间隔轮询任务状态，直到终态或尝试次数用尽
// 轮询没有服务端推送可依赖，到达次数上限后必须以超时错误收敛
func (t *BulkTracker) pollLoop(ctx context.Context, jobID string) {
	ticker := time.NewTicker(t.client.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= t.client.pollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, err := t.client.GetBulkJob(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.client.log.WithField("job_id", jobID).Debugf("poll attempt %d failed: %v", attempt, err)
			continue
		}

		if model.IsTerminalStatus(job.Status) {
			t.finalize(job)
			return
		}

		t.handleProgress(job.CompletedTasks, job.TotalTasks)
	}

	// 超时与一般失败是不同的错误口径
	t.finalizeLocal(model.JobStatusFailed,
		fmt.Sprintf("bulk search timed out: job did not finish within %d polls", t.client.pollMaxAttempts), "")
}

// confirmTerminal 流推送的终态只是临时结论，
// 以一次权威的状态获取为准拿到最终合并结果
func (t *BulkTracker) confirmTerminal(ctx context.Context, jobID, pushedStatus string) {
	job, err := t.client.GetBulkJob(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// 获取失败也要结束loading，错误如实暴露
		t.finalizeLocal(pushedStatus, fmt.Sprintf("failed to fetch final results: %v", err), "")
		return
	}
	t.finalize(job)
}

// handleProgress 处理进度事件，终态后到达的滞后事件直接丢弃
func (t *BulkTracker) handleProgress(completed, total int) {
	t.mu.Lock()
	if model.IsTerminalStatus(t.state.Status) {
		t.mu.Unlock()
		return
	}
	t.state.Status = model.JobStatusRunning
	t.state.Progress = model.NewBulkProgress(completed, total)
	progress := t.state.Progress
	t.mu.Unlock()

	if t.OnProgress != nil {
		t.OnProgress(progress)
	}
}

// handleJobError 处理后端推送的语义错误事件
// 只记录错误信息，不终结任务（单个子任务失败不影响整体继续）
func (t *BulkTracker) handleJobError(message string) {
	t.mu.Lock()
	if model.IsTerminalStatus(t.state.Status) {
		t.mu.Unlock()
		return
	}
	t.state.Err = message
	t.mu.Unlock()

	if t.OnError != nil {
		t.OnError(message)
	}
}

// finalize 用权威的任务响应收敛到终态
func (t *BulkTracker) finalize(job *model.BulkJobResponse) {
	records := FlattenResults(job.Results)

	t.mu.Lock()
	if model.IsTerminalStatus(t.state.Status) {
		t.mu.Unlock()
		return
	}

	t.state.Status = job.Status
	t.state.Progress = model.NewBulkProgress(job.CompletedTasks, job.TotalTasks)
	t.state.Records = records
	t.state.Loading = false

	switch {
	case job.Status == model.JobStatusFailed:
		if job.ErrorMessage != "" {
			t.state.Err = job.ErrorMessage
		} else {
			t.state.Err = "bulk search job failed"
		}
	case job.Status == model.JobStatusCompleted && len(records) == 0:
		// 零结果不是错误，按信息性空态展示
		t.state.Message = "no extensions found"
	}

	t.closeDoneLocked()
	state := t.state
	t.mu.Unlock()

	t.client.log.WithFields(map[string]interface{}{
		"job_id": state.JobID,
		"status": state.Status,
		"found":  len(state.Records),
	}).Info("bulk search job finished")

	if state.Err != "" && t.OnError != nil {
		t.OnError(state.Err)
	}
	if t.OnComplete != nil {
		t.OnComplete(state)
	}
}

// finalizeLocal 在没有权威任务响应的情况下本地收敛（提交失败、超时、取消等）
func (t *BulkTracker) finalizeLocal(status, errMsg, message string) {
	t.mu.Lock()
	if model.IsTerminalStatus(t.state.Status) {
		t.mu.Unlock()
		return
	}

	t.state.Status = status
	t.state.Loading = false
	if errMsg != "" {
		t.state.Err = errMsg
	}
	if message != "" {
		t.state.Message = message
	}

	t.closeDoneLocked()
	state := t.state
	t.mu.Unlock()

	if state.Err != "" && t.OnError != nil {
		t.OnError(state.Err)
	}
	if t.OnComplete != nil {
		t.OnComplete(state)
	}
}

// Cancel 取消当前任务
// 先拆除活跃传输，再尽力而为地向后端发取消请求；
// 请求失败直接吞掉（任务可能已经自然结束），本地状态一律标记为cancelled
func (t *BulkTracker) Cancel() {
	t.teardownTransport()

	t.mu.Lock()
	jobID := t.state.JobID
	alreadyTerminal := model.IsTerminalStatus(t.state.Status)
	t.mu.Unlock()

	if jobID != "" && !alreadyTerminal {
		ctx, cancel := context.WithTimeout(context.Background(), t.client.requestTimeout)
		defer cancel()
		if err := t.client.CancelBulkJob(ctx, jobID); err != nil {
			t.client.log.WithField("job_id", jobID).Debugf("cancel request failed: %v", err)
		}
	}

	t.mu.Lock()
	if !model.IsTerminalStatus(t.state.Status) {
		t.state.Status = model.JobStatusCancelled
	}
	t.state.Loading = false
	t.closeDoneLocked()
	t.mu.Unlock()
}

// Clear 拆除传输并把所有字段重置为初始空状态
func (t *BulkTracker) Clear() {
	t.teardownTransport()

	t.mu.Lock()
	t.state = BulkState{Status: StateIdle}
	t.done = nil
	t.doneClosed = false
	t.mu.Unlock()
}

// Snapshot 返回当前状态的副本
func (t *BulkTracker) Snapshot() BulkState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done 返回在任务收敛（终态或本地收敛）时关闭的通道
// 只在Start之后有效，Clear之后失效
func (t *BulkTracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// closeDoneLocked 关闭收敛通道，重复调用和未启动时都是空操作
// 调用方必须持有t.mu
func (t *BulkTracker) closeDoneLocked() {
	if t.done != nil && !t.doneClosed {
		close(t.done)
		t.doneClosed = true
	}
}

// teardownTransport 拆除当前活跃的传输并等待其goroutine退出
// 可重复调用，传输已关闭时是空操作
func (t *BulkTracker) teardownTransport() {
	t.mu.Lock()
	handle := t.transport
	t.transport = nil
	t.mu.Unlock()

	if handle == nil {
		return
	}
	handle.cancel()
	<-handle.finished
}

// transportActive 判断当前是否存在活跃传输
func (t *BulkTracker) transportActive() bool {
	t.mu.Lock()
	handle := t.transport
	t.mu.Unlock()

	if handle == nil {
		return false
	}
	select {
	case <-handle.finished:
		return false
	default:
		return true
	}
}
