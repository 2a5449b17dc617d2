package schema

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
)

// Manager 模式管理器：十五张实体表与三个视图的建立/拆除。
// 每个操作在单个事务里执行，任一语句失败即整体回滚，不留半套模式。
type Manager struct {
	db      *sql.DB
	dialect database.Dialect
	logger  *zap.Logger
}

// NewManager 创建模式管理器
func NewManager(db *sql.DB, dialect database.Dialect, logger *zap.Logger) *Manager {
	return &Manager{db: db, dialect: dialect, logger: logger}
}

// CreateSchema 按依赖顺序建全部实体表。
// 任一表已存在返回 SchemaError，且本次调用不留下任何新表。
func (m *Manager) CreateSchema(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create schema: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tableDefs {
		if _, err := tx.ExecContext(ctx, t.render(m.dialect)); err != nil {
			return dberr.DecodeFor(t.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit create schema: %w", err)
	}
	m.logger.Info("schema created", zap.Int("tables", len(tableDefs)))
	return nil
}

// DropSchema 按严格逆依赖顺序删全部实体表。
// 任一表不存在返回 SchemaError，整体回滚。
func (m *Manager) DropSchema(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin drop schema: %w", err)
	}
	defer tx.Rollback()

	for i := len(tableDefs) - 1; i >= 0; i-- {
		name := tableDefs[i].name
		if _, err := tx.ExecContext(ctx, "DROP TABLE "+name); err != nil {
			return dberr.DecodeFor(name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drop schema: %w", err)
	}
	m.logger.Info("schema dropped", zap.Int("tables", len(tableDefs)))
	return nil
}

// CreateViews 建三个派生视图；重名返回 SchemaError，不做静默覆盖
func (m *Manager) CreateViews(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create views: %w", err)
	}
	defer tx.Rollback()

	for _, v := range viewDefs {
		if _, err := tx.ExecContext(ctx, v.render(m.dialect)); err != nil {
			return dberr.DecodeFor(v.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit create views: %w", err)
	}
	m.logger.Info("views created", zap.Int("views", len(viewDefs)))
	return nil
}

// DropViews 删三个视图；任一视图不存在返回 SchemaError
func (m *Manager) DropViews(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin drop views: %w", err)
	}
	defer tx.Rollback()

	for i := len(viewDefs) - 1; i >= 0; i-- {
		name := viewDefs[i].name
		if _, err := tx.ExecContext(ctx, "DROP VIEW "+name); err != nil {
			return dberr.DecodeFor(name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drop views: %w", err)
	}
	m.logger.Info("views dropped", zap.Int("views", len(viewDefs)))
	return nil
}
