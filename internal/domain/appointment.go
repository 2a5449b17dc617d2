package domain

// Appointment 预约领域模型（对应 booked 表）
// 复合主键 (patient_id, appointment_date, appointment_time)；
// bill / medical_procedure / prescription 以 (date, patient, doctor) 三元组从属于本表
type Appointment struct {
	AppointmentDate string `db:"appointment_date"` // VARCHAR(10), NOT NULL, ISO-8601
	PatientID       int64  `db:"patient_id"`       // INTEGER, NOT NULL, FK to patient
	DoctorID        int64  `db:"doctor_id"`        // INTEGER, NOT NULL, FK to doctor
	AppointmentTime string `db:"appointment_time"` // VARCHAR(5), NOT NULL, CHECK LIKE '__:__'
	Reason          string `db:"reason"`           // VARCHAR(50), nullable
}
