// Package config 集中管理环境变量读取，输出强类型配置。
package config

import (
	"os"
	"strconv"
	"time"
)

// Config 客户端运行时配置
type Config struct {
	APIBase       string        // 后端服务地址
	PollInterval  time.Duration // 进度轮询间隔
	UploadTimeout time.Duration // 上传处理的最长等待时间（超过则判定失败）
	ChatTimeout   time.Duration // 单次聊天请求超时
	LogPath       string        // 日志文件路径（TUI 独占终端，日志只写文件）
}

const (
	defaultAPIBase       = "http://127.0.0.1:8000"
	defaultPollInterval  = 300 * time.Millisecond
	defaultUploadTimeout = 5 * time.Minute
	defaultChatTimeout   = 60 * time.Second
	defaultLogPath       = "ddokdoc.log"
)

// Load 从环境变量加载配置，缺省值兜底。
func Load() *Config {
	cfg := &Config{
		APIBase:       readEnv("DDOKDOC_API_BASE", defaultAPIBase),
		PollInterval:  parseDuration("DDOKDOC_POLL_INTERVAL", defaultPollInterval),
		UploadTimeout: parseDuration("DDOKDOC_UPLOAD_TIMEOUT", defaultUploadTimeout),
		ChatTimeout:   parseDuration("DDOKDOC_CHAT_TIMEOUT", defaultChatTimeout),
		LogPath:       readEnv("DDOKDOC_LOG_PATH", defaultLogPath),
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = defaultChatTimeout
	}
	return cfg
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		// 兼容纯毫秒数字写法
		if ms, err := strconv.Atoi(v); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
