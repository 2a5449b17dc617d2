//go:build integration
// +build integration

package schema

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/repository"
	"github.com/Michael-Nesci/cps510-patient-db/internal/seed"
)

// 获取测试数据库连接
func getTestDB(t *testing.T) *sql.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "phr_test"),
		getEnv("TEST_DB_SSLMODE", "disable"))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration test: cannot ping database: %v", err)
		return nil
	}
	return db
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestPostgres_FullLifecycle(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	ctx := context.Background()
	m := NewManager(db, database.Postgres, zap.NewNop())

	// 残留的上一轮模式先清掉
	_ = m.DropViews(ctx)
	_ = m.DropSchema(ctx)

	require.NoError(t, m.CreateSchema(ctx))
	require.NoError(t, seed.NewLoader(db, zap.NewNop()).Load(ctx))
	require.NoError(t, m.CreateViews(ctx))

	reports := repository.NewSQLReportsRepository(db)

	rs, err := reports.AvgUnpaidBillPerPatient(ctx)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)

	rs, err = reports.PatientsWithoutPrescriptions(ctx)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.EqualValues(t, "Julian", rs.Rows[0][1])

	rs, err = reports.DaySchedule(ctx, 100009, "2025-11-16")
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 1)

	require.NoError(t, m.DropViews(ctx))
	require.NoError(t, m.DropSchema(ctx))
}
