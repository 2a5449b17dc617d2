package schema

import (
	"strings"

	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
)

// 十五张实体表，按依赖顺序排列（独立表在前，从属表在后）。
// 删除时按严格逆序执行，满足外键拆除顺序。
//
// 日期/时间戳统一为 ISO-8601 文本并用 LIKE 模式检查，
// 两种引擎共用一套 DDL；仅 conditions 的代理键一处需要方言替换。
var tableDefs = []tableDef{
	{"patient", `
CREATE TABLE patient (
    patient_id  INTEGER NOT NULL,
    f_name      VARCHAR(15) NOT NULL,
    m_initial   CHAR(1),
    l_name      VARCHAR(15) NOT NULL,
    sex         CHAR(1),
    dob         VARCHAR(10) NOT NULL,
    address     VARCHAR(50),
    email       VARCHAR(30),
    phone_num   VARCHAR(12),
    insurance   VARCHAR(50),
    CONSTRAINT pk_patient PRIMARY KEY (patient_id),
    CONSTRAINT ck_patient_id CHECK (patient_id >= 100000000),
    CONSTRAINT ck_patient_sex CHECK (sex IN ('M', 'F', 'X')),
    CONSTRAINT ck_patient_dob CHECK (dob LIKE '____-__-__'),
    CONSTRAINT ck_patient_email CHECK (email LIKE '%@%.%'),
    CONSTRAINT ck_patient_phone CHECK (phone_num LIKE '___-___-____')
)`},

	{"doctor", `
CREATE TABLE doctor (
    doctor_id  INTEGER NOT NULL,
    f_name     VARCHAR(15) NOT NULL,
    l_name     VARCHAR(15) NOT NULL,
    sex        CHAR(1),
    extension  VARCHAR(6),
    specialty  VARCHAR(50),
    lang       VARCHAR(50),
    status     VARCHAR(8) DEFAULT 'Active' NOT NULL,
    CONSTRAINT pk_doctor PRIMARY KEY (doctor_id),
    CONSTRAINT ck_doctor_id CHECK (doctor_id >= 10000),
    CONSTRAINT ck_doctor_sex CHECK (sex IN ('M', 'F', 'X')),
    CONSTRAINT ck_doctor_status CHECK (status IN ('Active', 'Inactive'))
)`},

	{"drug", `
CREATE TABLE drug (
    din        BIGINT NOT NULL,
    drug_name  VARCHAR(30) NOT NULL,
    dosage     NUMERIC(10,2) NOT NULL,
    CONSTRAINT pk_drug PRIMARY KEY (din)
)`},

	// uq_diagnosis_name_type 是 conditions 判别列复合外键的父端：
	// 病情记录的 condition_type 只能取目录里登记的标签
	{"diagnosis", `
CREATE TABLE diagnosis (
    code_system     VARCHAR(10) NOT NULL,
    code            VARCHAR(10) NOT NULL,
    diagnosis_name  VARCHAR(30) NOT NULL,
    condition_type  VARCHAR(15) NOT NULL,
    CONSTRAINT pk_diagnosis PRIMARY KEY (code_system, code),
    CONSTRAINT uq_diagnosis_name UNIQUE (diagnosis_name),
    CONSTRAINT uq_diagnosis_name_type UNIQUE (diagnosis_name, condition_type),
    CONSTRAINT ck_diagnosis_code_system CHECK (code_system IN ('DSM-5-TR', 'ICD-10', 'ICD-11')),
    CONSTRAINT ck_diagnosis_condition_type CHECK (condition_type IN ('chronic', 'infectious', 'injury', 'mental_health'))
)`},

	// 主键即"患者同一时段唯一"；uq_booked_doctor_slot 防医生双订；
	// uq_booked_same_day 防同患者同医生同日重复预约，
	// 同时作为 bill/medical_procedure/prescription 三元组外键的父端
	{"booked", `
CREATE TABLE booked (
    appointment_date  VARCHAR(10) NOT NULL,
    patient_id        INTEGER NOT NULL,
    doctor_id         INTEGER NOT NULL,
    appointment_time  VARCHAR(5) NOT NULL,
    reason            VARCHAR(50),
    CONSTRAINT pk_booked PRIMARY KEY (patient_id, appointment_date, appointment_time),
    CONSTRAINT fk_booked_patient FOREIGN KEY (patient_id) REFERENCES patient (patient_id),
    CONSTRAINT fk_booked_doctor FOREIGN KEY (doctor_id) REFERENCES doctor (doctor_id),
    CONSTRAINT uq_booked_same_day UNIQUE (patient_id, doctor_id, appointment_date),
    CONSTRAINT uq_booked_doctor_slot UNIQUE (appointment_date, doctor_id, appointment_time),
    CONSTRAINT ck_booked_date CHECK (appointment_date LIKE '____-__-__'),
    CONSTRAINT ck_booked_time CHECK (appointment_time LIKE '__:__')
)`},

	{"bill", `
CREATE TABLE bill (
    payer             VARCHAR(255) NOT NULL,
    status            VARCHAR(6) NOT NULL,
    amount            NUMERIC(10,2) NOT NULL,
    appointment_date  VARCHAR(10) NOT NULL,
    patient_id        INTEGER NOT NULL,
    doctor_id         INTEGER NOT NULL,
    CONSTRAINT pk_bill PRIMARY KEY (appointment_date, doctor_id, patient_id),
    CONSTRAINT fk_bill_booked FOREIGN KEY (patient_id, doctor_id, appointment_date)
        REFERENCES booked (patient_id, doctor_id, appointment_date),
    CONSTRAINT ck_bill_status CHECK (status IN ('Paid', 'Unpaid'))
)`},

	{"medical_procedure", `
CREATE TABLE medical_procedure (
    filepath           VARCHAR(255),
    procedure_type     VARCHAR(20) NOT NULL,
    location           VARCHAR(20) NOT NULL,
    procedure_summary  VARCHAR(255),
    appointment_date   VARCHAR(10) NOT NULL,
    patient_id         INTEGER NOT NULL,
    doctor_id          INTEGER NOT NULL,
    CONSTRAINT pk_medical_procedure PRIMARY KEY (procedure_type, appointment_date, doctor_id, patient_id),
    CONSTRAINT fk_medical_procedure_booked FOREIGN KEY (patient_id, doctor_id, appointment_date)
        REFERENCES booked (patient_id, doctor_id, appointment_date)
)`},

	{"prescription", `
CREATE TABLE prescription (
    din               BIGINT NOT NULL,
    med_count         INTEGER NOT NULL,
    refills           INTEGER DEFAULT 0 NOT NULL,
    frequency         INTEGER NOT NULL,
    appointment_date  VARCHAR(10) NOT NULL,
    patient_id        INTEGER NOT NULL,
    doctor_id         INTEGER NOT NULL,
    CONSTRAINT pk_prescription PRIMARY KEY (din, appointment_date, doctor_id, patient_id),
    CONSTRAINT fk_prescription_booked FOREIGN KEY (patient_id, doctor_id, appointment_date)
        REFERENCES booked (patient_id, doctor_id, appointment_date),
    CONSTRAINT fk_prescription_drug FOREIGN KEY (din) REFERENCES drug (din)
)`},

	// condition_type 为判别列：复合外键保证标签与诊断目录一致，
	// uq_conditions_discriminant 是子类型表复合外键的父端——
	// 同一 condition_id 只能有一个标签值，子类型行四选一由此在模式层收口
	{"conditions", `
CREATE TABLE conditions (
    {{SURROGATE_ID}},
    patient_id      INTEGER NOT NULL,
    diagnosis_name  VARCHAR(30) NOT NULL,
    condition_type  VARCHAR(15) NOT NULL,
    onset_date      VARCHAR(10) NOT NULL,
    CONSTRAINT fk_conditions_patient FOREIGN KEY (patient_id) REFERENCES patient (patient_id),
    CONSTRAINT fk_conditions_diagnosis FOREIGN KEY (diagnosis_name, condition_type)
        REFERENCES diagnosis (diagnosis_name, condition_type),
    CONSTRAINT ck_conditions_type CHECK (condition_type IN ('chronic', 'infectious', 'injury', 'mental_health')),
    CONSTRAINT ck_conditions_onset CHECK (onset_date LIKE '____-__-__'),
    CONSTRAINT uq_conditions_patient_diag UNIQUE (patient_id, diagnosis_name, onset_date),
    CONSTRAINT uq_conditions_patient_onset UNIQUE (patient_id, condition_id, onset_date),
    CONSTRAINT uq_conditions_discriminant UNIQUE (condition_id, condition_type)
)`},

	{"condition_details", `
CREATE TABLE condition_details (
    condition_id     BIGINT NOT NULL,
    patient_id       INTEGER NOT NULL,
    code_system      VARCHAR(10),
    code             VARCHAR(10),
    onset_date       VARCHAR(10),
    abatement_date   VARCHAR(10),
    clinical_status  VARCHAR(12) DEFAULT 'active' NOT NULL,
    severity         VARCHAR(10),
    doctor_id        INTEGER,
    CONSTRAINT pk_condition_details PRIMARY KEY (condition_id),
    CONSTRAINT fk_details_condition FOREIGN KEY (condition_id)
        REFERENCES conditions (condition_id) ON DELETE CASCADE,
    CONSTRAINT fk_details_base FOREIGN KEY (patient_id, condition_id, onset_date)
        REFERENCES conditions (patient_id, condition_id, onset_date) ON DELETE CASCADE,
    CONSTRAINT fk_details_code FOREIGN KEY (code_system, code) REFERENCES diagnosis (code_system, code),
    CONSTRAINT fk_details_doctor FOREIGN KEY (doctor_id) REFERENCES doctor (doctor_id),
    CONSTRAINT ck_details_status CHECK (clinical_status IN ('active', 'resolved', 'remission', 'unknown')),
    CONSTRAINT ck_details_severity CHECK (severity IN ('mild', 'moderate', 'severe', 'critical'))
)`},

	// 子类型表：condition_type 固定取值 + 复合外键回指基表判别列，
	// 另一条外键指向 condition_details，保证"先有扩展行，再有子类型行"；
	// 两条都 CASCADE，删基表行时连带清掉扩展行与子类型行
	{"chronic_condition", `
CREATE TABLE chronic_condition (
    condition_id               BIGINT NOT NULL,
    condition_type             VARCHAR(15) DEFAULT 'chronic' NOT NULL,
    is_lifestyle_modifiable    CHAR(1),
    long_term_med_required     CHAR(1),
    follow_up_interval_months  INTEGER,
    CONSTRAINT pk_chronic_condition PRIMARY KEY (condition_id),
    CONSTRAINT ck_chronic_type CHECK (condition_type = 'chronic'),
    CONSTRAINT fk_chronic_base FOREIGN KEY (condition_id, condition_type)
        REFERENCES conditions (condition_id, condition_type) ON DELETE CASCADE,
    CONSTRAINT fk_chronic_details FOREIGN KEY (condition_id)
        REFERENCES condition_details (condition_id) ON DELETE CASCADE,
    CONSTRAINT ck_chronic_yn CHECK (
        (is_lifestyle_modifiable IN ('Y', 'N') OR is_lifestyle_modifiable IS NULL)
        AND (long_term_med_required IN ('Y', 'N') OR long_term_med_required IS NULL)
    ),
    CONSTRAINT ck_chronic_follow_up CHECK (follow_up_interval_months IS NULL OR follow_up_interval_months >= 0)
)`},

	{"infectious_condition", `
CREATE TABLE infectious_condition (
    condition_id        BIGINT NOT NULL,
    condition_type      VARCHAR(15) DEFAULT 'infectious' NOT NULL,
    pathogen_type       VARCHAR(20),
    isolation_required  CHAR(1),
    CONSTRAINT pk_infectious_condition PRIMARY KEY (condition_id),
    CONSTRAINT ck_infectious_type CHECK (condition_type = 'infectious'),
    CONSTRAINT fk_infectious_base FOREIGN KEY (condition_id, condition_type)
        REFERENCES conditions (condition_id, condition_type) ON DELETE CASCADE,
    CONSTRAINT fk_infectious_details FOREIGN KEY (condition_id)
        REFERENCES condition_details (condition_id) ON DELETE CASCADE,
    CONSTRAINT ck_infectious_pathogen CHECK (
        pathogen_type IN ('virus', 'bacteria', 'fungus', 'parasite', 'unknown') OR pathogen_type IS NULL
    ),
    CONSTRAINT ck_infectious_yn CHECK (isolation_required IN ('Y', 'N') OR isolation_required IS NULL)
)`},

	{"injury_condition", `
CREATE TABLE injury_condition (
    condition_id    BIGINT NOT NULL,
    condition_type  VARCHAR(15) DEFAULT 'injury' NOT NULL,
    injury_type     VARCHAR(20),
    body_site       VARCHAR(120),
    laterality      VARCHAR(10),
    cause           VARCHAR(20),
    date_of_injury  VARCHAR(10),
    CONSTRAINT pk_injury_condition PRIMARY KEY (condition_id),
    CONSTRAINT ck_injury_type CHECK (condition_type = 'injury'),
    CONSTRAINT fk_injury_base FOREIGN KEY (condition_id, condition_type)
        REFERENCES conditions (condition_id, condition_type) ON DELETE CASCADE,
    CONSTRAINT fk_injury_details FOREIGN KEY (condition_id)
        REFERENCES condition_details (condition_id) ON DELETE CASCADE,
    CONSTRAINT ck_injury_laterality CHECK (
        laterality IN ('left', 'right', 'bilateral', 'midline', 'na') OR laterality IS NULL
    )
)`},

	{"mental_health_condition", `
CREATE TABLE mental_health_condition (
    condition_id       BIGINT NOT NULL,
    condition_type     VARCHAR(15) DEFAULT 'mental_health' NOT NULL,
    disorder_category  VARCHAR(20),
    episode            VARCHAR(20),
    treatment_type     VARCHAR(30),
    risk_factor        VARCHAR(50),
    CONSTRAINT pk_mental_health_condition PRIMARY KEY (condition_id),
    CONSTRAINT ck_mental_health_type CHECK (condition_type = 'mental_health'),
    CONSTRAINT fk_mental_health_base FOREIGN KEY (condition_id, condition_type)
        REFERENCES conditions (condition_id, condition_type) ON DELETE CASCADE,
    CONSTRAINT fk_mental_health_details FOREIGN KEY (condition_id)
        REFERENCES condition_details (condition_id) ON DELETE CASCADE,
    CONSTRAINT ck_mental_health_episode CHECK (
        episode IN ('initial', 'acute', 'partial remission', 'full remission', 'multiple', 'na') OR episode IS NULL
    )
)`},

	// BMI 不设列：读取时由身高体重推导（见 domain.VitalsMeasurement.BMI）
	{"vitals", `
CREATE TABLE vitals (
    patient_id    INTEGER NOT NULL,
    measure_ts    VARCHAR(19) NOT NULL,
    height_cm     NUMERIC(5,2),
    weight_kg     NUMERIC(5,2),
    bp_systolic   INTEGER,
    bp_diastolic  INTEGER,
    heart_rate    INTEGER,
    resp_rate     INTEGER,
    temp_c        NUMERIC(4,1),
    spo2          INTEGER,
    CONSTRAINT pk_vitals PRIMARY KEY (patient_id, measure_ts),
    CONSTRAINT fk_vitals_patient FOREIGN KEY (patient_id) REFERENCES patient (patient_id)
)`},
}

type tableDef struct {
	name string
	ddl  string
}

// render 完成方言替换。仅 conditions 的代理键需要：
// SQLite 用 INTEGER PRIMARY KEY（rowid 别名，自增且允许显式赋值），
// Postgres 用 BY DEFAULT 的 IDENTITY（同样允许显式赋值）。
func (t tableDef) render(dialect database.Dialect) string {
	surrogate := "condition_id    BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	if dialect == database.SQLite {
		surrogate = "condition_id    INTEGER PRIMARY KEY"
	}
	return strings.ReplaceAll(t.ddl, "{{SURROGATE_ID}}", surrogate)
}

// TableNames 十五张表名，按创建顺序
func TableNames() []string {
	names := make([]string, len(tableDefs))
	for i, t := range tableDefs {
		names[i] = t.name
	}
	return names
}

// 三个派生视图。day_schedule 与 prescription_history 不绑定任何字面量，
// 医生/日期/患者在读取时作为参数下推（见 repository.SQLReportsRepository）。
// overdue_bills 的"逾期 3 天"规则固定在视图里，日期运算是唯一的方言分叉。
var viewDefs = []viewDef{
	{"overdue_bills", map[database.Dialect]string{
		database.Postgres: `
CREATE VIEW overdue_bills (patient_id, appointment_date, amount) AS
SELECT patient_id, appointment_date, amount
FROM bill
WHERE status = 'Unpaid' AND appointment_date::date < CURRENT_DATE - 3`,
		database.SQLite: `
CREATE VIEW overdue_bills (patient_id, appointment_date, amount) AS
SELECT patient_id, appointment_date, amount
FROM bill
WHERE status = 'Unpaid' AND julianday('now') - julianday(appointment_date) > 3`,
	}},

	{"day_schedule", nil},
	{"prescription_history", nil},
}

const daySchedule = `
CREATE VIEW day_schedule (doctor_id, appointment_date, patient_id, appointment_time, reason) AS
SELECT doctor_id, appointment_date, patient_id, appointment_time, reason
FROM booked`

const prescriptionHistory = `
CREATE VIEW prescription_history (patient_id, pres_date, drug_name, din, med_count, dosage, refills, frequency, prescriber) AS
SELECT p.patient_id, p.appointment_date, d.drug_name, p.din, p.med_count, d.dosage, p.refills, p.frequency, doc.l_name
FROM prescription p
JOIN drug d ON d.din = p.din
JOIN doctor doc ON doc.doctor_id = p.doctor_id`

type viewDef struct {
	name      string
	byDialect map[database.Dialect]string
}

func (v viewDef) render(dialect database.Dialect) string {
	if v.byDialect != nil {
		return v.byDialect[dialect]
	}
	switch v.name {
	case "day_schedule":
		return daySchedule
	default:
		return prescriptionHistory
	}
}

// ViewNames 三个视图名，按创建顺序
func ViewNames() []string {
	names := make([]string, len(viewDefs))
	for i, v := range viewDefs {
		names[i] = v.name
	}
	return names
}
