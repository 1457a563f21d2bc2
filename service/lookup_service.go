package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"crxsou/client"
	"crxsou/config"
	"crxsou/model"
	"crxsou/risk"
	"crxsou/util"
	"crxsou/util/pool"
)

// 报告装配阶段的并发度
const defaultReportWorkers = 8

// LookupService 扩展情报查询服务
// 封装完整的查询流程：ID解析与校验 → 后端查询 → 结果合并 → 风险评估 → 报告
type LookupService struct {
	client  *client.Client
	tracker *client.BulkTracker
	log     *logrus.Entry
	workers int
}

// NewLookupService 创建查询服务
func NewLookupService(c *client.Client, logger *logrus.Logger) *LookupService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LookupService{
		client:  c,
		tracker: client.NewBulkTracker(c),
		log:     logger.WithField("component", "lookup"),
		workers: defaultReportWorkers,
	}
}

// Tracker 返回底层任务跟踪器，调用方可挂接进度回调
func (s *LookupService) Tracker() *client.BulkTracker {
	return s.tracker
}

// BulkSearchFile 从文件读取扩展ID列表并执行批量查询
func (s *LookupService) BulkSearchFile(ctx context.Context, path string, stores []string, includePermissions bool) (*model.LookupReport, error) {
	text, err := util.ReadIDFile(path)
	if err != nil {
		return nil, fmt.Errorf("read id file failed: %w", err)
	}
	return s.BulkSearchText(ctx, text, stores, includePermissions)
}

// BulkSearchText 从自由格式文本解析扩展ID并执行异步批量查询
//
// 文本可以是纯ID列表，也可以是带表头或不带表头的分隔符文件。
// 校验不通过的ID在发起请求前被剔除；全部无效或超出数量上限时
// 不发起任何网络请求直接报错
func (s *LookupService) BulkSearchText(ctx context.Context, text string, stores []string, includePermissions bool) (*model.LookupReport, error) {
	ids := util.ParseExtensionIDs(text)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no extension ids found in input")
	}

	if len(stores) == 0 {
		stores = s.defaultStores()
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if util.ValidExtensionIDForAnyStore(id, stores) {
			valid = append(valid, id)
		} else {
			s.log.WithField("extension_id", id).Warn("skip invalid extension id")
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid extension ids for stores %s", strings.Join(stores, ","))
	}
	if len(valid) > config.DefaultBulkMaxIDs {
		return nil, fmt.Errorf("at most %d extensions per bulk search, got %d", config.DefaultBulkMaxIDs, len(valid))
	}

	if err := s.tracker.Start(ctx, valid, stores, includePermissions); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		s.tracker.Cancel()
		return nil, ctx.Err()
	case <-s.tracker.Done():
	}

	state := s.tracker.Snapshot()
	if state.Status == model.JobStatusFailed {
		return nil, fmt.Errorf("bulk search failed: %s", state.Err)
	}

	report := s.buildReport(state.Records, includePermissions)
	report.JobID = state.JobID
	report.Status = state.Status
	report.Requested = len(valid)
	report.Message = state.Message
	return report, nil
}

// SearchOne 查询单个扩展并生成报告
func (s *LookupService) SearchOne(ctx context.Context, extensionID string, stores []string, includePermissions bool) (*model.LookupReport, error) {
	if len(stores) == 0 {
		stores = s.defaultStores()
	}
	if !util.ValidExtensionIDForAnyStore(extensionID, stores) {
		return nil, fmt.Errorf("invalid extension id %q for stores %s", extensionID, strings.Join(stores, ","))
	}

	resp, err := s.client.Search(ctx, model.SearchRequest{
		ExtensionID:        extensionID,
		Stores:             stores,
		IncludePermissions: includePermissions,
	})
	if err != nil {
		return nil, err
	}

	found := make([]model.ExtensionRecord, 0, len(resp.Results))
	for _, rec := range resp.Results {
		if rec.IsFound() {
			found = append(found, rec)
		}
	}

	report := s.buildReport(found, includePermissions)
	report.Status = model.JobStatusCompleted
	report.Requested = 1
	if len(found) == 0 {
		report.Message = "no extensions found"
	}
	return report, nil
}

// CorrelateAcrossStores 按名称做跨商店关联查询
// 通常用已命中的记录名称发起，排除来源商店，
// 找出同名扩展在其它商店的发布情况
func (s *LookupService) CorrelateAcrossStores(ctx context.Context, name string, excludeStores []string, limit int) (*model.CrossStoreResult, error) {
	if limit <= 0 && config.AppConfig != nil {
		limit = config.AppConfig.NameSearchLimit
	}
	return s.client.SearchByName(ctx, model.NameSearchRequest{
		Name:          name,
		ExcludeStores: excludeStores,
		Limit:         limit,
	})
}

// PermissionHistory 获取扩展的权限变更历史
func (s *LookupService) PermissionHistory(ctx context.Context, extensionID, store string) (*model.PermissionHistory, error) {
	return s.client.History(ctx, extensionID, store)
}

// Health 检查后端可用性
func (s *LookupService) Health(ctx context.Context) (*model.HealthResponse, error) {
	return s.client.Health(ctx)
}

// Cancel 取消进行中的批量查询
func (s *LookupService) Cancel() {
	s.tracker.Cancel()
}

// Clear 清空查询状态
func (s *LookupService) Clear() {
	s.tracker.Clear()
}

// buildReport 对合并后的记录逐条做权限分类和风险评估
// 评估是纯计算但条数可能较多，走工作池并行，结果按原始顺序回填
func (s *LookupService) buildReport(records []model.ExtensionRecord, includePermissions bool) *model.LookupReport {
	report := &model.LookupReport{
		FoundCount: len(records),
		Entries:    make([]model.ReportEntry, len(records)),
	}
	if len(records) == 0 {
		return report
	}

	tasks := make([]pool.Task, len(records))
	for i := range records {
		idx := i
		rec := records[i]
		tasks[idx] = func() interface{} {
			entry := model.ReportEntry{
				Record:  rec,
				Verdict: risk.CalculateVerdict(&rec),
			}
			if includePermissions {
				entry.Permissions = risk.ClassifyAll(rec.Permissions)
			}
			return indexedEntry{idx: idx, entry: entry}
		}
	}

	for _, result := range pool.ExecuteBatch(tasks, s.workers) {
		ie, ok := result.(indexedEntry)
		if !ok {
			continue
		}
		report.Entries[ie.idx] = ie.entry
	}

	return report
}

// indexedEntry 并行评估结果及其在报告中的位置
type indexedEntry struct {
	idx   int
	entry model.ReportEntry
}

// defaultStores 取配置的默认商店列表
func (s *LookupService) defaultStores() []string {
	if config.AppConfig != nil && len(config.AppConfig.DefaultStores) > 0 {
		return config.AppConfig.DefaultStores
	}
	return []string{"chrome", "firefox", "edge"}
}
