package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

func TestBook(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)
	ctx := context.Background()

	err := repo.Book(ctx, &domain.Appointment{
		AppointmentDate: "2025-12-01",
		PatientID:       100000004,
		DoctorID:        100002,
		AppointmentTime: "10:30",
		Reason:          "Vaccination",
	})
	require.NoError(t, err)

	appts, err := repo.ListByPatient(ctx, 100000004)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "2025-12-01", appts[0].AppointmentDate)
	assert.Equal(t, int64(100002), appts[0].DoctorID)
	assert.Equal(t, "Vaccination", appts[0].Reason)
}

func TestBook_PatientSlotTaken(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	// 与参考数据完全相同的 (patient, date, time)，换个医生也不行
	err := repo.Book(context.Background(), &domain.Appointment{
		AppointmentDate: "2025-10-25",
		PatientID:       100000001,
		DoctorID:        100002,
		AppointmentTime: "10:00",
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, "booked", cv.Entity)
	assert.Contains(t, []dberr.Kind{dberr.KindPrimaryKey, dberr.KindUnique}, cv.Kind)
}

func TestBook_DoctorDoubleBooked(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	// 医生 100001 在 2025-10-25 10:00 已有预约
	err := repo.Book(context.Background(), &domain.Appointment{
		AppointmentDate: "2025-10-25",
		PatientID:       100000002,
		DoctorID:        100001,
		AppointmentTime: "10:00",
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindUnique, cv.Kind)
}

func TestBook_SameDayRepeat(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	// 同患者同医生同日第二次预约，换时段也不行
	err := repo.Book(context.Background(), &domain.Appointment{
		AppointmentDate: "2025-10-25",
		PatientID:       100000001,
		DoctorID:        100001,
		AppointmentTime: "15:00",
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindUnique, cv.Kind)
}

func TestBook_MalformedTime(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	err := repo.Book(context.Background(), &domain.Appointment{
		AppointmentDate: "2025-12-01",
		PatientID:       100000001,
		DoctorID:        100001,
		AppointmentTime: "9am",
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindCheck, cv.Kind)
}

func TestBook_UnknownPatient(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	err := repo.Book(context.Background(), &domain.Appointment{
		AppointmentDate: "2025-12-01",
		PatientID:       999999999,
		DoctorID:        100001,
		AppointmentTime: "10:00",
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindForeignKey, cv.Kind)
}

func TestCancel(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Book(ctx, &domain.Appointment{
		AppointmentDate: "2025-12-20",
		PatientID:       100000006,
		DoctorID:        100006,
		AppointmentTime: "08:45",
	}))
	require.NoError(t, repo.Cancel(ctx, 100000006, "2025-12-20", "08:45"))

	appts, err := repo.ListByPatient(ctx, 100000006)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestCancel_NotFound(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	err := repo.Cancel(context.Background(), 100000001, "2030-01-01", "10:00")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCancel_BlockedByDependents(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)

	// 该预约挂着账单、操作和处方，外键应拒绝删除
	err := repo.Cancel(context.Background(), 100000001, "2025-10-25", "10:00")
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindForeignKey, cv.Kind)

	// 预约本身应原样保留
	assert.Equal(t, 4, countRows(t, db, "booked"))
}

func TestListByPatient_Ordering(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLAppointmentsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Book(ctx, &domain.Appointment{
		AppointmentDate: "2025-09-01", PatientID: 100000001, DoctorID: 100007, AppointmentTime: "16:00",
	}))
	require.NoError(t, repo.Book(ctx, &domain.Appointment{
		AppointmentDate: "2025-09-01", PatientID: 100000001, DoctorID: 100006, AppointmentTime: "09:00",
	}))

	appts, err := repo.ListByPatient(ctx, 100000001)
	require.NoError(t, err)
	require.Len(t, appts, 3)
	assert.Equal(t, "09:00", appts[0].AppointmentTime)
	assert.Equal(t, "16:00", appts[1].AppointmentTime)
	assert.Equal(t, "2025-10-25", appts[2].AppointmentDate)
}
