package config

import (
	"os"
	"time"
)

type AppConfig struct {
	HTTPPort       string
	PostgresDSN    string
	RedisURL       string
	GemLoginURL    string        // GemLogin 自动化服务的根地址
	ClientTimeout  time.Duration // 调用 GemLogin 的单次请求超时
	PollCron       string        // daemon 模式下轮询的 cron 表达式
	SyncBatchLimit int           // 档案同步时单次拉取的上限
}

func Load() AppConfig {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=gem dbname=gem_scheduler sslmode=disable"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	apiURL := os.Getenv("GEMLOGIN_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:1010"
	}

	timeout := 30 * time.Second
	if v := os.Getenv("GEMLOGIN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	// 默认每分钟跑一轮，与外部 crontab 的惯例一致
	pollCron := os.Getenv("POLL_CRON")
	if pollCron == "" {
		pollCron = "* * * * *"
	}

	return AppConfig{
		HTTPPort:       port,
		PostgresDSN:    dsn,
		RedisURL:       redisURL,
		GemLoginURL:    apiURL,
		ClientTimeout:  timeout,
		PollCron:       pollCron,
		SyncBatchLimit: 1000,
	}
}
