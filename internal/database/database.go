package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Michael-Nesci/cps510-patient-db/internal/config"
)

// Dialect 目标关系引擎方言
// 绝大多数 DDL/DML 两种引擎共用，方言差异收敛在 schema 包的少数钩子里
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Open 按配置打开数据库连接
// Postgres 走 lib/pq；SQLite 走纯 Go 的 modernc 驱动，
// DSN 里强制开启外键约束（SQLite 默认关闭，关闭则整个完整性模型失效）
func Open(cfg *config.Config) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Database, cfg.Database.SSLMode)
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open postgres: %w", err)
		}
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		return db, Postgres, nil

	case "sqlite":
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, "", err
		}
		return db, SQLite, nil

	default:
		return nil, "", fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// OpenSQLite 打开 SQLite 数据库（路径或带查询参数的 file: DSN）
func OpenSQLite(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := fmt.Sprintf("file:%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path, sep)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// 单写者即可；避免连接池放大 SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}
