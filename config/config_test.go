package config

import (
	"reflect"
	"testing"
	"time"
)

func TestInitDefaults(t *testing.T) {
	for _, key := range []string{"EXT_API_URL", "EXT_API_KEY", "PROXY", "STORES", "BULK_MAX_IDS", "POLL_INTERVAL", "POLL_MAX_ATTEMPTS", "MOCK_PORT"} {
		t.Setenv(key, "")
	}

	Init()

	if AppConfig.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("APIBaseURL = %q", AppConfig.APIBaseURL)
	}
	if !reflect.DeepEqual(AppConfig.DefaultStores, []string{"chrome", "firefox", "edge"}) {
		t.Errorf("DefaultStores = %v", AppConfig.DefaultStores)
	}
	if AppConfig.BulkMaxIDs != 50 {
		t.Errorf("BulkMaxIDs = %d, want 50", AppConfig.BulkMaxIDs)
	}
	if AppConfig.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", AppConfig.PollInterval)
	}
	if AppConfig.PollMaxAttempts != 150 {
		t.Errorf("PollMaxAttempts = %d, want 150", AppConfig.PollMaxAttempts)
	}
	if AppConfig.UseProxy {
		t.Error("UseProxy = true without PROXY set")
	}
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("EXT_API_URL", "https://intel.example.com/api/")
	t.Setenv("STORES", "Chrome, edge ,")
	t.Setenv("PROXY", "socks5://127.0.0.1:1080")
	t.Setenv("POLL_INTERVAL", "5")
	t.Setenv("POLL_MAX_ATTEMPTS", "10")

	Init()

	if AppConfig.APIBaseURL != "https://intel.example.com/api" {
		t.Errorf("APIBaseURL = %q, trailing slash not trimmed", AppConfig.APIBaseURL)
	}
	if !reflect.DeepEqual(AppConfig.DefaultStores, []string{"chrome", "edge"}) {
		t.Errorf("DefaultStores = %v", AppConfig.DefaultStores)
	}
	if !AppConfig.UseProxy || AppConfig.ProxyURL != "socks5://127.0.0.1:1080" {
		t.Errorf("proxy config = %v %q", AppConfig.UseProxy, AppConfig.ProxyURL)
	}
	if AppConfig.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", AppConfig.PollInterval)
	}
	if AppConfig.PollMaxAttempts != 10 {
		t.Errorf("PollMaxAttempts = %d, want 10", AppConfig.PollMaxAttempts)
	}
}

func TestInitRejectsBadNumbers(t *testing.T) {
	t.Setenv("POLL_MAX_ATTEMPTS", "-3")
	t.Setenv("POLL_INTERVAL", "abc")

	Init()

	if AppConfig.PollMaxAttempts != 150 {
		t.Errorf("PollMaxAttempts = %d, want default 150", AppConfig.PollMaxAttempts)
	}
	if AppConfig.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want default 2s", AppConfig.PollInterval)
	}
}
