package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"crxsou/config"
	"crxsou/model"
	"crxsou/util"
	jsonutil "crxsou/util/json"
)

// Config 客户端配置
// API密钥作为显式配置传入，由调用方负责保存，客户端不做任何持久化
type Config struct {
	BaseURL         string        // 后端API地址（含/api前缀）
	APIKey          string        // X-API-Key，可为空
	HTTPClient      *http.Client  // 为nil时使用全局HTTP客户端
	RequestTimeout  time.Duration // 普通REST请求超时，0表示默认30秒
	PollInterval    time.Duration // 进度轮询间隔，0表示默认2秒
	PollMaxAttempts int           // 轮询次数上限，0表示默认150次
	Logger          *logrus.Logger
}

// Client 扩展情报后端的API客户端
type Client struct {
	baseURL         string
	apiKey          string
	http            *http.Client
	requestTimeout  time.Duration
	pollInterval    time.Duration
	pollMaxAttempts int
	log             *logrus.Entry
}

// FromAppConfig 从全局配置构造客户端配置
func FromAppConfig() Config {
	cfg := Config{}
	if config.AppConfig != nil {
		cfg.BaseURL = config.AppConfig.APIBaseURL
		cfg.APIKey = config.AppConfig.APIKey
		cfg.RequestTimeout = config.AppConfig.RequestTimeout
		cfg.PollInterval = config.AppConfig.PollInterval
		cfg.PollMaxAttempts = config.AppConfig.PollMaxAttempts
	}
	return cfg
}

// NewClient 创建API客户端
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = util.GetHTTPClient()
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = config.DefaultPollInterval
	}

	pollMaxAttempts := cfg.PollMaxAttempts
	if pollMaxAttempts <= 0 {
		pollMaxAttempts = config.DefaultPollMaxAttempts
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		http:            httpClient,
		requestTimeout:  requestTimeout,
		pollInterval:    pollInterval,
		pollMaxAttempts: pollMaxAttempts,
		log:             logger.WithField("component", "client"),
	}
}

// Search 搜索单个扩展
func (c *Client) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	if strings.TrimSpace(req.ExtensionID) == "" {
		return nil, fmt.Errorf("extension id is required")
	}

	var resp model.SearchResponse
	if err := c.postJSON(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkSearch 同步批量搜索
// 后端对单次批量有50个ID的上限，客户端在发请求前先行拒绝
func (c *Client) BulkSearch(ctx context.Context, req model.BulkSearchRequest) (*model.BulkSearchResponse, error) {
	if err := validateBulkIDs(req.ExtensionIDs); err != nil {
		return nil, err
	}

	var resp model.BulkSearchResponse
	if err := c.postJSON(ctx, "/bulk-search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchByName 按名称跨商店搜索
// 支持程序化查询的商店返回结构化记录（过滤掉found为false的），
// 只能人工检索的商店返回深链接；两者都为空表示无匹配，不是错误
func (c *Client) SearchByName(ctx context.Context, req model.NameSearchRequest) (*model.CrossStoreResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("extension name is required")
	}

	var resp model.NameSearchResponse
	if err := c.postJSON(ctx, "/search-by-name", req, &resp); err != nil {
		return nil, err
	}

	result := &model.CrossStoreResult{
		Results:    FlattenResults(resp.Results),
		SearchURLs: resp.SearchURLs,
	}
	return result, nil
}

// StartBulkJob 创建异步批量搜索任务
// 后端返回的任务ID必须是规范UUID，否则直接判为协议错误，
// 避免把不可信的ID拼进后续请求的URL
func (c *Client) StartBulkJob(ctx context.Context, req model.AsyncBulkSearchRequest) (*model.AsyncBulkSearchResponse, error) {
	if err := validateBulkIDs(req.ExtensionIDs); err != nil {
		return nil, err
	}

	var resp model.AsyncBulkSearchResponse
	if err := c.postJSON(ctx, "/bulk-search-async", req, &resp); err != nil {
		return nil, err
	}

	if !util.ValidateJobID(resp.JobID) {
		return nil, fmt.Errorf("backend returned invalid job id %q", resp.JobID)
	}
	return &resp, nil
}

// GetBulkJob 获取异步任务的完整状态
func (c *Client) GetBulkJob(ctx context.Context, jobID string) (*model.BulkJobResponse, error) {
	if !util.ValidateJobID(jobID) {
		return nil, fmt.Errorf("invalid job id %q", jobID)
	}

	var resp model.BulkJobResponse
	if err := c.getJSON(ctx, "/bulk-search-async/"+jobID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelBulkJob 请求取消异步任务
func (c *Client) CancelBulkJob(ctx context.Context, jobID string) error {
	if !util.ValidateJobID(jobID) {
		return fmt.Errorf("invalid job id %q", jobID)
	}
	return c.doJSON(ctx, http.MethodDelete, "/bulk-search-async/"+jobID, nil, nil)
}

// History 获取扩展的权限变更历史
func (c *Client) History(ctx context.Context, extensionID, store string) (*model.PermissionHistory, error) {
	if strings.TrimSpace(extensionID) == "" {
		return nil, fmt.Errorf("extension id is required")
	}

	path := "/extension/" + url.PathEscape(extensionID) + "/history"
	if store != "" {
		path += "?store=" + url.QueryEscape(store)
	}

	var resp model.PermissionHistory
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health 后端健康检查
func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	var resp model.HealthResponse
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// validateBulkIDs 批量请求的前置校验，不通过时不发起任何网络请求
func validateBulkIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("extension ids are required")
	}
	if len(ids) > config.DefaultBulkMaxIDs {
		return fmt.Errorf("at most %d extensions per bulk search, got %d", config.DefaultBulkMaxIDs, len(ids))
	}
	return nil
}

// postJSON 发送POST请求并解析JSON响应
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// getJSON 发送GET请求并解析JSON响应
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// doJSON 发送请求并解析JSON响应，非2xx状态按后端错误体转成error
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := jsonutil.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp model.ErrorResponse
		if jsonutil.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("backend returned %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	if err := jsonutil.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// setCommonHeaders 设置所有请求共用的请求头
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
