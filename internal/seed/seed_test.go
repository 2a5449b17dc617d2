package seed

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
	"github.com/Michael-Nesci/cps510-patient-db/internal/schema"
)

var testDBSeq int64

func newSeededSchema(t *testing.T) (*sql.DB, *Loader) {
	name := fmt.Sprintf("seed_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := database.OpenSQLite(name)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := schema.NewManager(db, database.SQLite, zap.NewNop())
	require.NoError(t, m.CreateSchema(context.Background()))
	return db, NewLoader(db, zap.NewNop())
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestLoad(t *testing.T) {
	db, l := newSeededSchema(t)
	require.NoError(t, l.Load(context.Background()))

	expected := map[string]int{
		"patient":                 6,
		"doctor":                  9,
		"booked":                  4,
		"bill":                    3,
		"medical_procedure":       3,
		"drug":                    4,
		"prescription":            3,
		"diagnosis":               4,
		"conditions":              3,
		"condition_details":       3,
		"chronic_condition":       1,
		"infectious_condition":    1,
		"injury_condition":        0,
		"mental_health_condition": 1,
		"vitals":                  3,
	}
	for table, want := range expected {
		assert.Equal(t, want, countRows(t, db, table), table)
	}
}

func TestLoad_SubtypeRowsMatchDiscriminant(t *testing.T) {
	db, l := newSeededSchema(t)
	require.NoError(t, l.Load(context.Background()))

	// 每条病情恰有一条扩展行和一条与标签同类型的子类型行
	var n int
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(*)
		FROM conditions c
		JOIN condition_details d ON d.condition_id = c.condition_id
		LEFT JOIN chronic_condition ch ON ch.condition_id = c.condition_id
		LEFT JOIN infectious_condition i ON i.condition_id = c.condition_id
		LEFT JOIN mental_health_condition m ON m.condition_id = c.condition_id
		WHERE (c.condition_type = 'chronic' AND ch.condition_id IS NOT NULL)
		   OR (c.condition_type = 'infectious' AND i.condition_id IS NOT NULL)
		   OR (c.condition_type = 'mental_health' AND m.condition_id IS NOT NULL)
	`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestLoad_Twice_RollsBackWhole(t *testing.T) {
	db, l := newSeededSchema(t)
	ctx := context.Background()
	require.NoError(t, l.Load(ctx))

	err := l.Load(ctx)
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)

	// 第二次装载一行都不应留下
	assert.Equal(t, 6, countRows(t, db, "patient"))
	assert.Equal(t, 4, countRows(t, db, "booked"))
	assert.Equal(t, 3, countRows(t, db, "vitals"))
}

func TestLoad_WithoutSchema(t *testing.T) {
	name := fmt.Sprintf("seed_test_noschema_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := database.OpenSQLite(name)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = NewLoader(db, zap.NewNop()).Load(context.Background())
	require.Error(t, err)
}
