package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.APIBase != defaultAPIBase {
		t.Errorf("期望默认地址 %s, 实际为 %s", defaultAPIBase, cfg.APIBase)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Errorf("期望默认轮询间隔 %v, 实际为 %v", defaultPollInterval, cfg.PollInterval)
	}
	if cfg.UploadTimeout != defaultUploadTimeout {
		t.Errorf("期望默认上传超时 %v, 实际为 %v", defaultUploadTimeout, cfg.UploadTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DDOKDOC_API_BASE", "http://backend:9000")
	t.Setenv("DDOKDOC_POLL_INTERVAL", "1s")
	t.Setenv("DDOKDOC_CHAT_TIMEOUT", "500") // 纯数字按毫秒解析

	cfg := Load()
	if cfg.APIBase != "http://backend:9000" {
		t.Errorf("地址覆盖失效: %s", cfg.APIBase)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("轮询间隔覆盖失效: %v", cfg.PollInterval)
	}
	if cfg.ChatTimeout != 500*time.Millisecond {
		t.Errorf("毫秒写法解析失败: %v", cfg.ChatTimeout)
	}
}

func TestLoadInvalidFallsBack(t *testing.T) {
	t.Setenv("DDOKDOC_UPLOAD_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.UploadTimeout != defaultUploadTimeout {
		t.Errorf("非法值应回退默认, 实际为 %v", cfg.UploadTimeout)
	}
}
