package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
)

var testDBSeq int64

// 每个测试一个独立的共享缓存内存库
func newTestManager(t *testing.T) (*sql.DB, *Manager) {
	name := fmt.Sprintf("schema_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := database.OpenSQLite(name)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, NewManager(db, database.SQLite, zap.NewNop())
}

// objectExists 用零行查询探测表/视图是否存在
func objectExists(db *sql.DB, name string) bool {
	rows, err := db.Query("SELECT 1 FROM " + name + " WHERE 1=0")
	if err != nil {
		return false
	}
	rows.Close()
	return true
}

func TestCreateAndDropSchema(t *testing.T) {
	db, m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.CreateSchema(ctx))
	for _, name := range TableNames() {
		assert.True(t, objectExists(db, name), name)
	}

	require.NoError(t, m.DropSchema(ctx))
	for _, name := range TableNames() {
		assert.False(t, objectExists(db, name), name)
	}
}

func TestCreateSchema_AlreadyExists(t *testing.T) {
	_, m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.CreateSchema(ctx))

	err := m.CreateSchema(ctx)
	require.Error(t, err)
	assert.True(t, dberr.IsSchemaExists(err))

	var se *dberr.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Op)
}

func TestDropSchema_Missing(t *testing.T) {
	_, m := newTestManager(t)

	err := m.DropSchema(context.Background())
	require.Error(t, err)
	assert.True(t, dberr.IsSchemaMissing(err))
}

func TestViews_RoundTrip(t *testing.T) {
	db, m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.CreateSchema(ctx))
	require.NoError(t, m.CreateViews(ctx))
	for _, name := range ViewNames() {
		assert.True(t, objectExists(db, name), name)
	}

	// 重名不做静默覆盖
	err := m.CreateViews(ctx)
	require.Error(t, err)
	assert.True(t, dberr.IsSchemaExists(err))

	require.NoError(t, m.DropViews(ctx))
	for _, name := range ViewNames() {
		assert.False(t, objectExists(db, name), name)
	}

	err = m.DropViews(ctx)
	require.Error(t, err)
	assert.True(t, dberr.IsSchemaMissing(err))
}

func TestDropSchema_WholeBatchRollsBack(t *testing.T) {
	db, m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.CreateSchema(ctx))

	// 先删掉删除顺序靠后的一张表，整批删除走到它那里失败并整体回滚
	_, err := db.Exec("DROP TABLE drug")
	require.NoError(t, err)

	err = m.DropSchema(ctx)
	require.Error(t, err)
	assert.True(t, dberr.IsSchemaMissing(err))

	// 失败之前已删的表应被回滚恢复
	assert.True(t, objectExists(db, "vitals"))
	assert.True(t, objectExists(db, "conditions"))
	assert.True(t, objectExists(db, "patient"))
}
