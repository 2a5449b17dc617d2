package domain

import "math"

// VitalsMeasurement 体征测量领域模型（对应 vitals 表）
// 复合主键 (patient_id, measure_ts)；BMI 不落库，读取时由身高体重推导
type VitalsMeasurement struct {
	PatientID   int64    `db:"patient_id"`   // INTEGER, NOT NULL, FK to patient
	MeasureTs   string   `db:"measure_ts"`   // VARCHAR(19), NOT NULL, ISO-8601 时间戳
	HeightCm    *float64 `db:"height_cm"`    // NUMERIC(5,2), nullable
	WeightKg    *float64 `db:"weight_kg"`    // NUMERIC(5,2), nullable
	BpSystolic  *int     `db:"bp_systolic"`  // INTEGER, nullable
	BpDiastolic *int     `db:"bp_diastolic"` // INTEGER, nullable
	HeartRate   *int     `db:"heart_rate"`   // INTEGER, nullable
	RespRate    *int     `db:"resp_rate"`    // INTEGER, nullable
	TempC       *float64 `db:"temp_c"`       // NUMERIC(4,1), nullable
	SpO2        *int     `db:"spo2"`         // INTEGER, nullable
}

// BMI 推导身体质量指数，保留两位小数。
// 身高或体重缺失、或身高不为正时无定义（ok=false）。
func (v *VitalsMeasurement) BMI() (float64, bool) {
	if v.HeightCm == nil || v.WeightKg == nil || *v.HeightCm <= 0 {
		return 0, false
	}
	m := *v.HeightCm / 100
	return math.Round(*v.WeightKg/(m*m)*100) / 100, true
}
