// Package seed 装载固定参考数据集。
// 全部插入在一个事务里执行：任一行违反约束，整批回滚，不留任何行。
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
)

// Loader 参考数据装载器
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader 创建装载器
func NewLoader(db *sql.DB, logger *zap.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

type seedStmt struct {
	entity string
	query  string
	args   []any
}

func row(entity, query string, args ...any) seedStmt {
	return seedStmt{entity: entity, query: query, args: args}
}

const (
	insertPatient      = `INSERT INTO patient (patient_id, f_name, m_initial, l_name, sex, dob, address, email, phone_num, insurance) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	insertDoctor       = `INSERT INTO doctor (doctor_id, f_name, l_name, sex, extension, specialty, lang, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertBooked       = `INSERT INTO booked (appointment_date, patient_id, doctor_id, appointment_time, reason) VALUES ($1, $2, $3, $4, $5)`
	insertBill         = `INSERT INTO bill (payer, status, amount, appointment_date, patient_id, doctor_id) VALUES ($1, $2, $3, $4, $5, $6)`
	insertProcedure    = `INSERT INTO medical_procedure (procedure_type, location, procedure_summary, appointment_date, patient_id, doctor_id) VALUES ($1, $2, $3, $4, $5, $6)`
	insertDrug         = `INSERT INTO drug (din, drug_name, dosage) VALUES ($1, $2, $3)`
	insertPrescription = `INSERT INTO prescription (din, med_count, refills, frequency, appointment_date, patient_id, doctor_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertDiagnosis    = `INSERT INTO diagnosis (code_system, code, diagnosis_name, condition_type) VALUES ($1, $2, $3, $4)`
	insertCondition    = `INSERT INTO conditions (condition_id, patient_id, diagnosis_name, condition_type, onset_date) VALUES ($1, $2, $3, $4, $5)`
	insertDetail       = `INSERT INTO condition_details (condition_id, patient_id, code_system, code, onset_date, abatement_date, clinical_status, severity, doctor_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	insertVitals       = `INSERT INTO vitals (patient_id, measure_ts, height_cm, weight_kg, bp_systolic, bp_diastolic, heart_rate, resp_rate, temp_c, spo2) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)

// dataset 参考数据：6 患者、9 医生、4 预约、3 账单、3 操作、4 药品、
// 3 处方、4 诊断、3 病情（基表 + 扩展 + 子类型行各一）、3 体征记录。
// 病情代理键显式给定，扩展行与子类型行按同一 id 挂接。
func dataset() []seedStmt {
	return []seedStmt{
		row("patient", insertPatient, 100000001, "John", "A", "Smith", "M", "1990-12-01", "22 Bathurst St.", "jsmith@gmail.com", "416-991-2231", "SF12345678"),
		row("patient", insertPatient, 100000002, "Amanada", nil, "Smith", "F", "1988-07-16", "22 Bathurst St.", "asmith@gmail.com", "416-991-2231", "SF12345678"),
		row("patient", insertPatient, 100000003, "Sandra", "F", "Emerson", "F", "2001-09-01", "119 Sheppard Ave W", "sandra4432@hotmail.com", "905-999-0121", nil),
		row("patient", insertPatient, 100000004, "James", "E", "Emerson", "M", "2024-09-15", "119 Sheppard Ave W", nil, "905-999-0121", nil),
		row("patient", insertPatient, 100000005, "Julian", nil, "Emerson", "M", "1999-10-02", "119 Sheppard Ave W", "julianemerson@gmail.com", "289-991-2646", nil),
		row("patient", insertPatient, 100000006, "Avery", "A", "Jones", "X", "1989-03-31", "898 Oakwood Ave.", nil, nil, "GS987654321"),

		row("doctor", insertDoctor, 100001, "Addison", "Montgomery", "F", "4512", "Gynecology", "English", "Active"),
		row("doctor", insertDoctor, 100002, "James", "Wilson", "M", "4513", "Oncology", nil, "Active"),
		row("doctor", insertDoctor, 100003, "Gregory", "House", "M", "4514", nil, "Spanish", "Inactive"),
		row("doctor", insertDoctor, 100004, "Robert", "Chase", "M", "4515", nil, "German", "Active"),
		row("doctor", insertDoctor, 100005, "Preston", "Burke", "M", "4516", "Cardiology", "English", "Active"),
		row("doctor", insertDoctor, 100006, "Meredith", "Grey", "F", "4517", nil, "English, Russian", "Active"),
		row("doctor", insertDoctor, 100007, "Christina", "Yang", "F", "4517", "Cardiology", "Mandarin", "Active"),
		row("doctor", insertDoctor, 100008, "Allison", "Cameron", "F", "4518", "Immunology", "English", "Active"),
		row("doctor", insertDoctor, 100009, "Anita", "Akavan", "F", "4599", "Psychology", "Persian", "Active"),

		row("booked", insertBooked, "2025-10-25", 100000001, 100001, "10:00", "Annual check-up"),
		row("booked", insertBooked, "2025-11-05", 100000002, 100008, "14:30", "Allergic reaction/rash"),
		row("booked", insertBooked, "2025-12-10", 100000005, 100005, "09:15", "Cardiology follow-up"),
		row("booked", insertBooked, "2025-11-16", 100000003, 100009, "11:00", "Initial consultation"),

		row("bill", insertBill, "Insurance", "Paid", 125.50, "2025-10-25", 100000001, 100001),
		row("bill", insertBill, "Patient", "Unpaid", 75.00, "2025-11-05", 100000002, 100008),
		row("bill", insertBill, "Insurance", "Unpaid", 250.75, "2025-11-16", 100000003, 100009),

		row("medical_procedure", insertProcedure, "Physical", "Exam Room 1", "Standard physical exam with blood draw.", "2025-10-25", 100000001, 100001),
		row("medical_procedure", insertProcedure, "Dermatology", "Exam Room 3", "Skin scraping to test for fungal infection.", "2025-11-05", 100000002, 100008),
		row("medical_procedure", insertProcedure, "Consult", "Office 2", "Initial mental health assessment. Discussed history and treatment goals.", "2025-11-16", 100000003, 100009),

		row("drug", insertDrug, 1234567890, "Amoxicillin", 500),
		row("drug", insertDrug, 2345678901, "Lipitor", 20),
		row("drug", insertDrug, 3456789012, "Zoloft", 50),
		row("drug", insertDrug, 4567890123, "Acetaminophen", 325),

		row("prescription", insertPrescription, 2345678901, 30, 3, 1, "2025-10-25", 100000001, 100001),
		row("prescription", insertPrescription, 1234567890, 14, 0, 2, "2025-11-05", 100000002, 100008),
		row("prescription", insertPrescription, 3456789012, 60, 1, 1, "2025-11-16", 100000003, 100009),

		row("diagnosis", insertDiagnosis, "ICD-10", "I10", "Essential Hypertension", "chronic"),
		row("diagnosis", insertDiagnosis, "ICD-10", "J02.9", "Acute Pharyngitis", "infectious"),
		row("diagnosis", insertDiagnosis, "DSM-5-TR", "300.4", "Persistent Depressive Disorder", "mental_health"),
		row("diagnosis", insertDiagnosis, "ICD-10", "S82.30", "Fracture of Tibia", "injury"),

		row("conditions", insertCondition, 100000, 100000001, "Essential Hypertension", "chronic", "2024-05-10"),
		row("conditions", insertCondition, 100001, 100000002, "Acute Pharyngitis", "infectious", "2025-11-01"),
		row("conditions", insertCondition, 100002, 100000003, "Persistent Depressive Disorder", "mental_health", "2023-01-20"),

		row("condition_details", insertDetail, 100000, 100000001, "ICD-10", "I10", "2024-05-10", nil, "active", "moderate", 100001),
		row("condition_details", insertDetail, 100001, 100000002, "ICD-10", "J02.9", "2025-11-01", "2025-11-15", "resolved", "mild", 100008),
		row("condition_details", insertDetail, 100002, 100000003, "DSM-5-TR", "300.4", "2023-01-20", nil, "active", "moderate", 100009),

		row("chronic_condition",
			`INSERT INTO chronic_condition (condition_id, is_lifestyle_modifiable, long_term_med_required, follow_up_interval_months) VALUES ($1, $2, $3, $4)`,
			100000, "Y", "Y", 6),
		row("infectious_condition",
			`INSERT INTO infectious_condition (condition_id, pathogen_type, isolation_required) VALUES ($1, $2, $3)`,
			100001, "virus", "N"),
		row("mental_health_condition",
			`INSERT INTO mental_health_condition (condition_id, disorder_category, episode, treatment_type, risk_factor) VALUES ($1, $2, $3, $4, $5)`,
			100002, "Mood Disorder", "multiple", "Cognitive Behavioral Therapy", "Family History"),

		row("vitals", insertVitals, 100000001, "2025-11-16 09:30:00", 175.00, 80.50, 145, 95, 75, 16, 36.8, 98),
		row("vitals", insertVitals, 100000002, "2025-11-05 14:45:00", 162.00, 65.00, 120, 80, 85, 18, 37.2, 97),
		row("vitals", insertVitals, 100000003, "2025-11-16 11:20:00", 168.00, 58.00, 110, 70, 68, 15, 36.5, 99),
	}
}

// Load 以单个事务装载参考数据集。
// 任一行被拒（主键冲突、外键缺失、检查失败）则整批回滚，
// 返回解码后的 ConstraintViolation。
func (l *Loader) Load(ctx context.Context) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	stmts := dataset()
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
			return dberr.DecodeFor(s.entity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	l.logger.Info("reference dataset loaded", zap.Int("rows", len(stmts)))
	return nil
}
