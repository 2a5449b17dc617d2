package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// SQLVitalsRepository 体征测量 Repository 实现
type SQLVitalsRepository struct {
	db *sql.DB
}

// NewSQLVitalsRepository 创建体征 Repository
func NewSQLVitalsRepository(db *sql.DB) *SQLVitalsRepository {
	return &SQLVitalsRepository{db: db}
}

// 确保实现了接口
var _ VitalsRepository = (*SQLVitalsRepository)(nil)

func (r *SQLVitalsRepository) Record(ctx context.Context, v *domain.VitalsMeasurement) error {
	query := `
		INSERT INTO vitals (patient_id, measure_ts, height_cm, weight_kg, bp_systolic, bp_diastolic, heart_rate, resp_rate, temp_c, spo2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.PatientID, v.MeasureTs, v.HeightCm, v.WeightKg,
		v.BpSystolic, v.BpDiastolic, v.HeartRate, v.RespRate, v.TempC, v.SpO2)
	if err != nil {
		return dberr.DecodeFor("vitals", err)
	}
	return nil
}

func (r *SQLVitalsRepository) ListByPatient(ctx context.Context, patientID int64) ([]*domain.VitalsMeasurement, error) {
	query := `
		SELECT patient_id, measure_ts, height_cm, weight_kg, bp_systolic, bp_diastolic, heart_rate, resp_rate, temp_c, spo2
		FROM vitals
		WHERE patient_id = $1
		ORDER BY measure_ts
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vitals: %w", err)
	}
	defer rows.Close()

	var out []*domain.VitalsMeasurement
	for rows.Next() {
		var v domain.VitalsMeasurement
		if err := rows.Scan(&v.PatientID, &v.MeasureTs, &v.HeightCm, &v.WeightKg,
			&v.BpSystolic, &v.BpDiastolic, &v.HeartRate, &v.RespRate, &v.TempC, &v.SpO2); err != nil {
			return nil, fmt.Errorf("failed to scan vitals: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
