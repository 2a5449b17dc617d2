package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
	"github.com/Michael-Nesci/cps510-patient-db/internal/schema"
	"github.com/Michael-Nesci/cps510-patient-db/internal/seed"
)

var testDBSeq int64

// setupSeededDB 建全套模式、装参考数据、建视图，返回独立的内存库
func setupSeededDB(t *testing.T) *sql.DB {
	name := fmt.Sprintf("repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := database.OpenSQLite(name)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	m := schema.NewManager(db, database.SQLite, zap.NewNop())
	require.NoError(t, m.CreateSchema(ctx))
	require.NoError(t, seed.NewLoader(db, zap.NewNop()).Load(ctx))
	require.NoError(t, m.CreateViews(ctx))
	return db
}

func mustAppt(date string, patientID, doctorID int64, timeSlot string) *domain.Appointment {
	return &domain.Appointment{
		AppointmentDate: date,
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentTime: timeSlot,
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
