package util

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"crxsou/config"
)

// 全局HTTP客户端
var httpClient *http.Client

// InitHTTPClient 初始化HTTP客户端
func InitHTTPClient() {
	// 创建传输配置
	transport := &http.Transport{
		// 启用HTTP/2
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},

		// 连接池优化：批量搜索期间对同一后端会有持续的小请求
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	// 如果配置了代理，设置代理
	if config.AppConfig != nil && config.AppConfig.UseProxy {
		proxyURL, err := url.Parse(config.AppConfig.ProxyURL)
		if err == nil {
			if proxyURL.Scheme == "socks5" {
				// 创建SOCKS5代理拨号器
				dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
				if err == nil {
					transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
						return dialer.Dial(network, addr)
					}
				}
			} else {
				// HTTP/HTTPS代理
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	// 注意：客户端整体不设Timeout，SSE进度流是长连接，
	// 普通请求的超时由调用方通过context控制
	httpClient = &http.Client{
		Transport: transport,
	}
}

// GetHTTPClient 获取HTTP客户端
func GetHTTPClient() *http.Client {
	if httpClient == nil {
		InitHTTPClient()
	}
	return httpClient
}
