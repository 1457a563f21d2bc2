package client

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"crxsou/util"
	jsonutil "crxsou/util/json"
)

// StreamHandler 进度流的事件回调集合，未设置的回调直接跳过
// OnError对应后端推送的语义错误事件，不代表流中断；
// OnComplete携带的终态是临时的，以终态后的GET为准
type StreamHandler struct {
	OnProgress func(completed, total int)
	OnError    func(message string)
	OnComplete func(status string)
}

// 进度流的事件载荷
type progressEvent struct {
	Completed int `json:"completed" sonic:"completed"`
	Total     int `json:"total" sonic:"total"`
}

type errorEvent struct {
	Error string `json:"error" sonic:"error"`
}

type completeEvent struct {
	Status string `json:"status" sonic:"status"`
}

// StreamBulkJob 连接任务进度流并逐事件回调，直到complete事件或流中断
//
// 返回nil表示收到complete事件后正常关闭；返回非nil表示传输层故障
// （连接失败、非200、连接中断），调用方应回退到轮询。
// context取消时返回ctx.Err()，不视为需要回退的故障
func (c *Client) StreamBulkJob(ctx context.Context, jobID string, handler StreamHandler) error {
	if !util.ValidateJobID(jobID) {
		return fmt.Errorf("invalid job id %q", jobID)
	}

	// 进度流是长连接，不能套用普通请求的超时
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bulk-search-async/"+jobID+"/stream", nil)
	if err != nil {
		return fmt.Errorf("create stream request failed: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect stream failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var eventName string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		// 空行表示一个事件结束，派发后复位
		if line == "" {
			if eventName != "" && data.Len() > 0 {
				done := c.dispatchStreamEvent(eventName, data.String(), handler)
				if done {
					return nil
				}
			}
			eventName = ""
			data.Reset()
			continue
		}

		switch {
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case strings.HasPrefix(line, ":"):
			// 注释行（服务端心跳），忽略
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream interrupted: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// 没等到complete事件流就被服务端关掉了，同样按传输故障处理
	return fmt.Errorf("stream closed before job completion")
}

// dispatchStreamEvent 派发单个流事件，返回true表示收到complete
func (c *Client) dispatchStreamEvent(eventName, data string, handler StreamHandler) bool {
	switch eventName {
	case "progress":
		var ev progressEvent
		if err := jsonutil.UnmarshalString(data, &ev); err != nil {
			c.log.WithField("event", eventName).Debugf("drop malformed progress event: %v", err)
			return false
		}
		if handler.OnProgress != nil {
			handler.OnProgress(ev.Completed, ev.Total)
		}
	case "error":
		var ev errorEvent
		if err := jsonutil.UnmarshalString(data, &ev); err != nil {
			return false
		}
		if handler.OnError != nil {
			handler.OnError(ev.Error)
		}
	case "complete":
		var ev completeEvent
		if err := jsonutil.UnmarshalString(data, &ev); err != nil {
			return false
		}
		if handler.OnComplete != nil {
			handler.OnComplete(ev.Status)
		}
		return true
	}
	return false
}
