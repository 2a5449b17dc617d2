package config

import (
	"os"
	"strconv"
	"time"
)

// Config phr-data（病历数据核心）配置
type Config struct {
	// 存储引擎："sqlite"（内嵌，默认）或 "postgres"
	Driver string

	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	// SQLite 数据库文件路径（":memory:" 表示内存库）
	SQLitePath string

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}

	// 报表缓存 TTL（Redis 启用时生效）
	ReportCacheTTL time.Duration

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置；默认值保证零配置即可用内嵌 SQLite 跑通
func Load() *Config {
	cfg := &Config{}

	cfg.Driver = getEnv("PHR_DRIVER", "sqlite")
	cfg.SQLitePath = getEnv("PHR_SQLITE_PATH", "phr.db")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "phr")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.ReportCacheTTL = parseDuration(getEnv("REPORT_CACHE_TTL", "30s"), 30*time.Second)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
