package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// SQLReportsRepository 报表查询 Repository 实现
type SQLReportsRepository struct {
	db *sql.DB
}

// NewSQLReportsRepository 创建报表 Repository
func NewSQLReportsRepository(db *sql.DB) *SQLReportsRepository {
	return &SQLReportsRepository{db: db}
}

// 确保实现了接口
var _ ReportsRepository = (*SQLReportsRepository)(nil)

func (r *SQLReportsRepository) AvgUnpaidBillPerPatient(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, AVG(amount) AS avg_unpaid
		FROM bill
		WHERE status = 'Unpaid'
		GROUP BY patient_id
		ORDER BY patient_id
	`
	return r.query(ctx, []string{"Patient ID", "Average Unpaid Amount"}, query)
}

func (r *SQLReportsRepository) PatientsWithoutOrStateFarmInsurance(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, f_name, l_name, insurance
		FROM patient
		WHERE insurance IS NULL
		UNION
		SELECT patient_id, f_name, l_name, insurance
		FROM patient
		WHERE insurance LIKE 'SF%'
		ORDER BY patient_id
	`
	return r.query(ctx, []string{"Patient ID", "First Name", "Last Name", "Insurance"}, query)
}

func (r *SQLReportsRepository) PatientsWithoutPrescriptions(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, f_name, l_name
		FROM patient
		WHERE patient_id IN (SELECT patient_id FROM booked)
		  AND patient_id NOT IN (SELECT patient_id FROM prescription)
		ORDER BY patient_id
	`
	return r.query(ctx, []string{"Patient ID", "First Name", "Last Name"}, query)
}

func (r *SQLReportsRepository) AppointmentCounts(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT doctor_id, patient_id, COUNT(*) AS appointments
		FROM booked
		GROUP BY doctor_id, patient_id
		ORDER BY doctor_id, patient_id
	`
	return r.query(ctx, []string{"Doctor ID", "Patient ID", "Count"}, query)
}

func (r *SQLReportsRepository) DoctorCountPerPatient(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, COUNT(DISTINCT doctor_id) AS doctors
		FROM booked
		GROUP BY patient_id
		ORDER BY patient_id
	`
	return r.query(ctx, []string{"Patient ID", "Doctor Count"}, query)
}

func (r *SQLReportsRepository) PatientCountPerDoctor(ctx context.Context) (*domain.ResultSet, error) {
	// 并列时按医生号升序破平
	query := `
		SELECT doctor_id, COUNT(DISTINCT patient_id) AS patients
		FROM booked
		GROUP BY doctor_id
		ORDER BY patients DESC, doctor_id ASC
	`
	return r.query(ctx, []string{"Doctor ID", "Patient Count"}, query)
}

func (r *SQLReportsRepository) PatientsSeenByBoth(ctx context.Context, doctorA, doctorB int64) (*domain.ResultSet, error) {
	// 两次相关存在性检查；患者即使在每位医生处有多条预约也只出现一次
	query := `
		SELECT p.patient_id, p.f_name, p.l_name
		FROM patient p
		WHERE EXISTS (SELECT 1 FROM booked b WHERE b.patient_id = p.patient_id AND b.doctor_id = $1)
		  AND EXISTS (SELECT 1 FROM booked b WHERE b.patient_id = p.patient_id AND b.doctor_id = $2)
		ORDER BY p.patient_id
	`
	return r.query(ctx, []string{"Patient ID", "First Name", "Last Name"}, query, doctorA, doctorB)
}

func (r *SQLReportsRepository) OverdueBills(ctx context.Context) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, appointment_date, amount
		FROM overdue_bills
		ORDER BY patient_id, appointment_date
	`
	return r.query(ctx, []string{"Patient", "Appointment Date", "Amount"}, query)
}

func (r *SQLReportsRepository) DaySchedule(ctx context.Context, doctorID int64, date string) (*domain.ResultSet, error) {
	query := `
		SELECT patient_id, appointment_time, reason
		FROM day_schedule
		WHERE doctor_id = $1 AND appointment_date = $2
		ORDER BY appointment_time
	`
	return r.query(ctx, []string{"Patient", "Time", "Reason"}, query, doctorID, date)
}

func (r *SQLReportsRepository) PrescriptionHistory(ctx context.Context, patientID int64) (*domain.ResultSet, error) {
	query := `
		SELECT pres_date, drug_name, din, med_count, dosage, refills, frequency, prescriber
		FROM prescription_history
		WHERE patient_id = $1
		ORDER BY pres_date
	`
	return r.query(ctx,
		[]string{"Date", "Drug", "DIN", "Count", "Dosage (mg)", "Refills", "Frequency", "Prescribed by"},
		query, patientID)
}

// query 执行只读查询并收成表格化结果集
func (r *SQLReportsRepository) query(ctx context.Context, columns []string, q string, args ...any) (*domain.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dberr.DecodeFor("", err)
	}
	defer rows.Close()

	rs := &domain.ResultSet{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		for i, v := range vals {
			// lib/pq 把 NUMERIC 等类型交回 []byte，统一转成可展示的文本
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report rows: %w", err)
	}
	return rs, nil
}
