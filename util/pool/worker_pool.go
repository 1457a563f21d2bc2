package pool

import (
	"context"
	"sync"
	"time"
)

// Task 表示一个工作任务
type Task func() interface{}

// WorkerPool 工作池结构体
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan Task
	results    chan interface{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool 创建一个新的工作池
func NewWorkerPool(maxWorkers int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan Task, maxWorkers*2),
		results:    make(chan interface{}, maxWorkers*2),
		ctx:        ctx,
		cancel:     cancel,
	}

	pool.startWorkers()

	return pool
}

// startWorkers 启动工作者协程
func (p *WorkerPool) startWorkers() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()

			for {
				select {
				case task, ok := <-p.taskQueue:
					if !ok {
						return
					}

					p.results <- task()

				case <-p.ctx.Done():
					return
				}
			}
		}()
	}
}

// Submit 提交一个任务到工作池
func (p *WorkerPool) Submit(task Task) {
	p.taskQueue <- task
}

// GetResults 获取指定数量的任务结果
func (p *WorkerPool) GetResults(count int) []interface{} {
	results := make([]interface{}, 0, count)

	for i := 0; i < count; i++ {
		result := <-p.results
		results = append(results, result)
	}

	return results
}

// getResultsWithDeadline 获取指定数量的任务结果，超过时限后放弃剩余任务
func (p *WorkerPool) getResultsWithDeadline(count int, timeout time.Duration) []interface{} {
	results := make([]interface{}, 0, count)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for i := 0; i < count; i++ {
		select {
		case result := <-p.results:
			results = append(results, result)
		case <-deadline.C:
			return results
		}
	}

	return results
}

// Close 关闭工作池
func (p *WorkerPool) Close() {
	p.cancel()
	close(p.taskQueue)
	p.wg.Wait()
	close(p.results)
}

// ExecuteBatch 批量执行任务并返回结果
func ExecuteBatch(tasks []Task, maxWorkers int) []interface{} {
	if len(tasks) == 0 {
		return []interface{}{}
	}

	// 如果任务数量少于工作者数量，调整工作者数量
	if len(tasks) < maxWorkers {
		maxWorkers = len(tasks)
	}

	pool := NewWorkerPool(maxWorkers)
	defer pool.Close()

	for _, task := range tasks {
		pool.Submit(task)
	}

	return pool.GetResults(len(tasks))
}

// ExecuteBatchWithTimeout 批量执行任务，整体超时后返回已完成的部分结果
func ExecuteBatchWithTimeout(tasks []Task, maxWorkers int, timeout time.Duration) []interface{} {
	if len(tasks) == 0 {
		return []interface{}{}
	}

	if len(tasks) < maxWorkers {
		maxWorkers = len(tasks)
	}

	pool := NewWorkerPool(maxWorkers)
	defer pool.Close()

	for _, task := range tasks {
		pool.Submit(task)
	}

	return pool.getResultsWithDeadline(len(tasks), timeout)
}
