package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// SQLAppointmentsRepository 预约 Repository 实现
type SQLAppointmentsRepository struct {
	db *sql.DB
}

// NewSQLAppointmentsRepository 创建预约 Repository
func NewSQLAppointmentsRepository(db *sql.DB) *SQLAppointmentsRepository {
	return &SQLAppointmentsRepository{db: db}
}

// 确保实现了接口
var _ AppointmentsRepository = (*SQLAppointmentsRepository)(nil)

func (r *SQLAppointmentsRepository) Book(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO booked (appointment_date, patient_id, doctor_id, appointment_time, reason)
		VALUES ($1, $2, $3, $4, $5)
	`
	var reason any
	if appt.Reason != "" {
		reason = appt.Reason
	}
	_, err := r.db.ExecContext(ctx, query,
		appt.AppointmentDate, appt.PatientID, appt.DoctorID, appt.AppointmentTime, reason)
	if err != nil {
		return dberr.DecodeFor("booked", err)
	}
	return nil
}

func (r *SQLAppointmentsRepository) Cancel(ctx context.Context, patientID int64, date, timeSlot string) error {
	query := `
		DELETE FROM booked
		WHERE patient_id = $1 AND appointment_date = $2 AND appointment_time = $3
	`
	res, err := r.db.ExecContext(ctx, query, patientID, date, timeSlot)
	if err != nil {
		// 从属的 bill/medical_procedure/prescription 仍引用该三元组时，
		// 外键拒绝删除
		return dberr.DecodeFor("booked", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLAppointmentsRepository) ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	query := `
		SELECT appointment_date, patient_id, doctor_id, appointment_time, reason
		FROM booked
		WHERE patient_id = $1
		ORDER BY appointment_date, appointment_time
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		var reason sql.NullString
		if err := rows.Scan(&a.AppointmentDate, &a.PatientID, &a.DoctorID, &a.AppointmentTime, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if reason.Valid {
			a.Reason = reason.String
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}
