package domain

// Bill 账单领域模型（对应 bill 表）
// 与预约一对一：复合外键 (patient, doctor, date) 指向 booked
type Bill struct {
	Payer           string  `db:"payer"`            // VARCHAR(255), NOT NULL
	Status          string  `db:"status"`           // VARCHAR(6), NOT NULL ('Paid'/'Unpaid')
	Amount          float64 `db:"amount"`           // NUMERIC(10,2), NOT NULL
	AppointmentDate string  `db:"appointment_date"` // VARCHAR(10), NOT NULL
	PatientID       int64   `db:"patient_id"`       // INTEGER, NOT NULL
	DoctorID        int64   `db:"doctor_id"`        // INTEGER, NOT NULL
}

// 账单状态枚举
const (
	BillPaid   = "Paid"
	BillUnpaid = "Unpaid"
)

// MedicalProcedure 医疗操作领域模型（对应 medical_procedure 表）
// 复合主键 (procedure_type, date, doctor, patient)；从属于 booked
type MedicalProcedure struct {
	Filepath         string `db:"filepath"`          // VARCHAR(255), nullable（附件引用）
	ProcedureType    string `db:"procedure_type"`    // VARCHAR(20), NOT NULL
	Location         string `db:"location"`          // VARCHAR(20), NOT NULL
	ProcedureSummary string `db:"procedure_summary"` // VARCHAR(255), nullable
	AppointmentDate  string `db:"appointment_date"`  // VARCHAR(10), NOT NULL
	PatientID        int64  `db:"patient_id"`        // INTEGER, NOT NULL
	DoctorID         int64  `db:"doctor_id"`         // INTEGER, NOT NULL
}
