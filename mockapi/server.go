package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crxsou/model"
	jsonutil "crxsou/util/json"
)

// defaultStores 请求未指定商店时的默认搜索范围
var defaultStores = []string{"chrome", "firefox", "edge"}

// 单次批量搜索的ID数量上限
const maxBulkIDs = 50

// Options 模拟后端的行为开关
type Options struct {
	APIKey         string        // 非空时要求所有请求携带匹配的X-API-Key
	Tick           time.Duration // 任务解析一个(ID, 商店)组合的节拍，0表示默认20ms
	FailStream     bool          // 进度流端点直接返回503，迫使调用方回退轮询
	CutStreamAfter int           // >0时在发出N个progress事件后掐断连接（不发complete）
	StallJobs      bool          // 任务永远停在running，用于验证轮询次数上限

	// Fixtures 为nil时使用内置样本数据
	Fixtures map[string]map[string]model.ExtensionRecord
	Logger   *logrus.Logger
}

// Server 扩展情报后端的内存版模拟实现
// 测试用它替代真实后端跑完整的任务生命周期，演示模式下也可独立运行
type Server struct {
	opts     Options
	engine   *gin.Engine
	fixtures map[string]map[string]model.ExtensionRecord
	log      *logrus.Entry

	mu   sync.Mutex
	jobs map[string]*job
}

// NewServer 创建模拟后端
func NewServer(opts Options) *Server {
	if opts.Tick <= 0 {
		opts.Tick = 20 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fixtures := opts.Fixtures
	if fixtures == nil {
		fixtures = DefaultFixtures()
	}

	s := &Server{
		opts:     opts,
		fixtures: fixtures,
		jobs:     make(map[string]*job),
		log:      logger.WithField("component", "mockapi"),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.Use(s.apiKeyMiddleware())
	{
		api.GET("/health", s.handleHealth)
		api.POST("/search", s.handleSearch)
		api.POST("/bulk-search", s.handleBulkSearch)
		api.POST("/search-by-name", s.handleSearchByName)
		api.POST("/bulk-search-async", s.handleStartBulkJob)
		api.GET("/bulk-search-async/:id", s.handleGetBulkJob)
		api.GET("/bulk-search-async/:id/stream", s.handleStreamBulkJob)
		api.DELETE("/bulk-search-async/:id", s.handleCancelBulkJob)
		api.GET("/extension/:id/history", s.handleHistory)
	}

	s.engine = r
	return s
}

// Engine 返回底层gin引擎，供httptest直接挂载
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 以独立进程方式监听指定地址（演示模式）
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("mock backend listening")
	return s.engine.Run(addr)
}

// lookup 在样本数据中查找某商店下的扩展记录
func (s *Server) lookup(store, extensionID string) (model.ExtensionRecord, bool) {
	byID, ok := s.fixtures[store]
	if !ok {
		return model.ExtensionRecord{}, false
	}
	rec, ok := byID[extensionID]
	return rec, ok
}

// apiKeyMiddleware 校验X-API-Key请求头，未配置密钥时放行所有请求
func (s *Server) apiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.APIKey != "" && c.GetHeader("X-API-Key") != s.opts.APIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid api key"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Version: "mock"})
}

// bindJSON 读取请求体并用sonic解析
func bindJSON(c *gin.Context, out interface{}) error {
	data, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("read request body failed: %w", err)
	}
	if err := jsonutil.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleSearch(c *gin.Context) {
	var req model.SearchRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.ExtensionID) == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "extension_id is required"})
		return
	}

	stores := req.Stores
	if len(stores) == 0 {
		stores = defaultStores
	}

	results := make([]model.ExtensionRecord, 0, len(stores))
	for _, store := range stores {
		rec, ok := s.lookup(store, req.ExtensionID)
		if !ok {
			rec = notFoundRecord(store, req.ExtensionID)
		}
		results = append(results, rec)
	}

	c.JSON(http.StatusOK, model.SearchResponse{ExtensionID: req.ExtensionID, Results: results})
}

func (s *Server) handleBulkSearch(c *gin.Context) {
	var req model.BulkSearchRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if err := validateBulkRequest(req.ExtensionIDs); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	stores := req.Stores
	if len(stores) == 0 {
		stores = defaultStores
	}

	// 同步批量走数组容器形态：扩展ID → 各商店记录列表
	results := make(map[string][]model.ExtensionRecord, len(req.ExtensionIDs))
	for _, extID := range req.ExtensionIDs {
		list := make([]model.ExtensionRecord, 0, len(stores))
		for _, store := range stores {
			rec, ok := s.lookup(store, extID)
			if !ok {
				rec = notFoundRecord(store, extID)
			}
			list = append(list, rec)
		}
		results[extID] = list
	}

	c.JSON(http.StatusOK, model.BulkSearchResponse{Results: results})
}

func (s *Server) handleSearchByName(c *gin.Context) {
	var req model.NameSearchRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "name is required"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	excluded := make(map[string]bool, len(req.ExcludeStores))
	for _, store := range req.ExcludeStores {
		excluded[store] = true
	}

	needle := strings.ToLower(strings.TrimSpace(req.Name))
	resp := model.NameSearchResponse{
		Results:    make(map[string]json.RawMessage),
		SearchURLs: make(map[string]string),
	}

	for store, byID := range s.fixtures {
		if excluded[store] {
			continue
		}
		matches := make([]model.ExtensionRecord, 0, limit)
		for _, rec := range byID {
			if len(matches) >= limit {
				break
			}
			if strings.Contains(strings.ToLower(rec.Name), needle) {
				matches = append(matches, rec)
			}
		}
		if len(matches) == 0 {
			continue
		}
		data, err := jsonutil.Marshal(matches)
		if err != nil {
			continue
		}
		resp.Results[store] = data
	}

	for store, urlPrefix := range manualSearchStores {
		if excluded[store] {
			continue
		}
		resp.SearchURLs[store] = urlPrefix + url.QueryEscape(req.Name)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStartBulkJob(c *gin.Context) {
	var req model.AsyncBulkSearchRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if err := validateBulkRequest(req.ExtensionIDs); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	stores := req.Stores
	if len(stores) == 0 {
		stores = defaultStores
	}

	j := newJob(req.ExtensionIDs, stores)
	s.addJob(j)

	c.JSON(http.StatusAccepted, model.AsyncBulkSearchResponse{
		JobID:      j.id,
		Status:     model.JobStatusPending,
		TotalTasks: j.total,
	})
}

func (s *Server) handleGetBulkJob(c *gin.Context) {
	j, ok := s.getJob(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "job not found"})
		return
	}
	c.JSON(http.StatusOK, j.snapshot())
}

func (s *Server) handleCancelBulkJob(c *gin.Context) {
	j, ok := s.getJob(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "job not found"})
		return
	}
	j.requestCancel()
	c.JSON(http.StatusOK, gin.H{"job_id": j.id, "status": model.JobStatusCancelled})
}

// handleStreamBulkJob 任务进度的SSE流
// 进度变化推progress事件，到达终态推complete事件后关闭
func (s *Server) handleStreamBulkJob(c *gin.Context) {
	if s.opts.FailStream {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "stream unavailable"})
		return
	}

	j, ok := s.getJob(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "job not found"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	fmt.Fprint(c.Writer, ": stream opened\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	lastCompleted := -1
	sentProgress := 0

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}

		snap := j.snapshot()

		if snap.CompletedTasks != lastCompleted {
			lastCompleted = snap.CompletedTasks
			writeEvent(c.Writer, "progress", map[string]int{
				"completed": snap.CompletedTasks,
				"total":     snap.TotalTasks,
			})
			flusher.Flush()
			sentProgress++

			if s.opts.CutStreamAfter > 0 && sentProgress >= s.opts.CutStreamAfter {
				// 模拟连接中断，不发complete直接关闭
				return
			}
		}

		if model.IsTerminalStatus(snap.Status) {
			writeEvent(c.Writer, "complete", map[string]string{"status": snap.Status})
			flusher.Flush()
			return
		}
	}
}

// writeEvent 写一个SSE事件
func writeEvent(w http.ResponseWriter, event string, payload interface{}) {
	data, err := jsonutil.MarshalString(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func (s *Server) handleHistory(c *gin.Context) {
	extID := c.Param("id")
	store := c.Query("store")
	if store == "" {
		store = "chrome"
	}

	if _, ok := s.lookup(store, extID); !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "extension not found"})
		return
	}

	// 固定的两段快照，第二段预先算好了与第一段的差异
	c.JSON(http.StatusOK, model.PermissionHistory{
		ExtensionID: extID,
		Store:       store,
		Snapshots: []model.PermissionSnapshot{
			{
				Version:     "1.0.0",
				Permissions: []string{"storage", "activeTab"},
				ScrapedAt:   "2026-01-10T08:00:00Z",
			},
			{
				Version:     "2.0.0",
				Permissions: []string{"storage", "activeTab", "tabs"},
				ScrapedAt:   "2026-06-10T08:00:00Z",
				Added:       []string{"tabs"},
			},
		},
	})
}

// validateBulkRequest 批量请求的服务端校验
func validateBulkRequest(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("extension_ids is required")
	}
	if len(ids) > maxBulkIDs {
		return fmt.Errorf("maximum %d extensions per request, got %d", maxBulkIDs, len(ids))
	}
	return nil
}
