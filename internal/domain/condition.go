package domain

// ConditionKind 病情子类型判别标签（与 diagnosis.condition_type 一致）
type ConditionKind string

const (
	KindChronic      ConditionKind = "chronic"
	KindInfectious   ConditionKind = "infectious"
	KindInjury       ConditionKind = "injury"
	KindMentalHealth ConditionKind = "mental_health"
)

// Valid 判别标签是否属于固定词表
func (k ConditionKind) Valid() bool {
	switch k {
	case KindChronic, KindInfectious, KindInjury, KindMentalHealth:
		return true
	}
	return false
}

// Condition 病情基表领域模型（对应 conditions 表）
// 代理主键 condition_id；condition_type 为判别列，
// 由复合外键 (diagnosis_name, condition_type) 保证与诊断目录一致
type Condition struct {
	ConditionID   int64         `db:"condition_id"`   // BIGINT, PRIMARY KEY（代理键，可显式指定）
	PatientID     int64         `db:"patient_id"`     // INTEGER, NOT NULL, FK to patient
	DiagnosisName string        `db:"diagnosis_name"` // VARCHAR(30), NOT NULL, FK to diagnosis(diagnosis_name)
	ConditionType ConditionKind `db:"condition_type"` // VARCHAR(15), NOT NULL（判别列）
	OnsetDate     string        `db:"onset_date"`     // VARCHAR(10), NOT NULL, ISO-8601
}

// ConditionDetail 病情临床扩展（对应 condition_details 表，与基表一对一，同主键）
type ConditionDetail struct {
	ConditionID    int64  `db:"condition_id"`    // BIGINT, PRIMARY KEY, FK to conditions ON DELETE CASCADE
	PatientID      int64  `db:"patient_id"`      // INTEGER, NOT NULL
	CodeSystem     string `db:"code_system"`     // VARCHAR(10), nullable, FK to diagnosis(code_system, code)
	Code           string `db:"code"`            // VARCHAR(10), nullable
	OnsetDate      string `db:"onset_date"`      // VARCHAR(10), nullable
	AbatementDate  string `db:"abatement_date"`  // VARCHAR(10), nullable
	ClinicalStatus string `db:"clinical_status"` // VARCHAR(12), NOT NULL, DEFAULT 'active'
	Severity       string `db:"severity"`        // VARCHAR(10), nullable ('mild'/'moderate'/'severe'/'critical')
	DoctorID       int64  `db:"doctor_id"`       // INTEGER, nullable, FK to doctor（主治医生）
}

// 临床状态/严重程度枚举
const (
	StatusActive    = "active"
	StatusResolved  = "resolved"
	StatusRemission = "remission"
	StatusUnknown   = "unknown"

	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
	SeverityCritical = "critical"
)

// ChronicDetail 慢性病子类型字段（对应 chronic_condition 表）
type ChronicDetail struct {
	IsLifestyleModifiable  string `db:"is_lifestyle_modifiable"`   // CHAR(1), 'Y'/'N' or NULL
	LongTermMedRequired    string `db:"long_term_med_required"`    // CHAR(1), 'Y'/'N' or NULL
	FollowUpIntervalMonths int    `db:"follow_up_interval_months"` // INTEGER, >= 0 or NULL（0 表示未设置）
}

// InfectiousDetail 感染性疾病子类型字段（对应 infectious_condition 表）
type InfectiousDetail struct {
	PathogenType      string `db:"pathogen_type"`      // VARCHAR(20), 固定词表 or NULL
	IsolationRequired string `db:"isolation_required"` // CHAR(1), 'Y'/'N' or NULL
}

// 病原体类型枚举
const (
	PathogenVirus    = "virus"
	PathogenBacteria = "bacteria"
	PathogenFungus   = "fungus"
	PathogenParasite = "parasite"
	PathogenUnknown  = "unknown"
)

// InjuryDetail 外伤子类型字段（对应 injury_condition 表）
type InjuryDetail struct {
	InjuryType   string `db:"injury_type"`    // VARCHAR(20), nullable
	BodySite     string `db:"body_site"`      // VARCHAR(120), nullable
	Laterality   string `db:"laterality"`     // VARCHAR(10), 固定词表 or NULL
	Cause        string `db:"cause"`          // VARCHAR(20), nullable
	DateOfInjury string `db:"date_of_injury"` // VARCHAR(10), nullable
}

// MentalHealthDetail 精神健康子类型字段（对应 mental_health_condition 表）
type MentalHealthDetail struct {
	DisorderCategory string `db:"disorder_category"` // VARCHAR(20), nullable
	Episode          string `db:"episode"`           // VARCHAR(20), 固定词表 or NULL
	TreatmentType    string `db:"treatment_type"`    // VARCHAR(30), nullable
	RiskFactor       string `db:"risk_factor"`       // VARCHAR(50), nullable
}

// ConditionRecord 病情聚合：基表 + 临床扩展 + 四选一的子类型载荷
// 应用边界上的 sum type：Kind 指定哪一个载荷指针非空，
// 持久化时落到对应的 table-per-subtype 表
type ConditionRecord struct {
	Condition
	Detail ConditionDetail

	Chronic      *ChronicDetail
	Infectious   *InfectiousDetail
	Injury       *InjuryDetail
	MentalHealth *MentalHealthDetail
}

// Payload 返回与 ConditionType 匹配的子类型载荷是否存在，
// 以及是否携带了不属于该类型的载荷
func (r *ConditionRecord) Payload() (matched bool, extra bool) {
	for kind, present := range map[ConditionKind]bool{
		KindChronic:      r.Chronic != nil,
		KindInfectious:   r.Infectious != nil,
		KindInjury:       r.Injury != nil,
		KindMentalHealth: r.MentalHealth != nil,
	} {
		if !present {
			continue
		}
		if kind == r.ConditionType {
			matched = true
		} else {
			extra = true
		}
	}
	return matched, extra
}
