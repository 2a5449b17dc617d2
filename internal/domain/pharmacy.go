package domain

// Drug 药品领域模型（对应 drug 表）
type Drug struct {
	DIN      int64   `db:"din"`       // BIGINT, PRIMARY KEY（药品识别码）
	DrugName string  `db:"drug_name"` // VARCHAR(30), NOT NULL
	Dosage   float64 `db:"dosage"`    // NUMERIC(10,2), NOT NULL（标准剂量 mg）
}

// Prescription 处方领域模型（对应 prescription 表）
// 复合主键 (din, date, doctor, patient)；从属于 booked，并引用 drug
type Prescription struct {
	DIN             int64  `db:"din"`              // BIGINT, NOT NULL, FK to drug
	MedCount        int    `db:"med_count"`        // INTEGER, NOT NULL（数量）
	Refills         int    `db:"refills"`          // INTEGER, NOT NULL, DEFAULT 0
	Frequency       int    `db:"frequency"`        // INTEGER, NOT NULL（每日次数）
	AppointmentDate string `db:"appointment_date"` // VARCHAR(10), NOT NULL
	PatientID       int64  `db:"patient_id"`       // INTEGER, NOT NULL
	DoctorID        int64  `db:"doctor_id"`        // INTEGER, NOT NULL
}
