package domain

// Diagnosis 诊断目录领域模型（对应 diagnosis 表）
// 复合主键 (code_system, code)；diagnosis_name 全局唯一，作为二级查找键；
// condition_type 标签决定病情记录落入哪一个子类型表
type Diagnosis struct {
	CodeSystem    string `db:"code_system"`    // VARCHAR(10), NOT NULL ('DSM-5-TR'/'ICD-10'/'ICD-11')
	Code          string `db:"code"`           // VARCHAR(10), NOT NULL
	DiagnosisName string `db:"diagnosis_name"` // VARCHAR(30), NOT NULL, UNIQUE
	ConditionType string `db:"condition_type"` // VARCHAR(15), NOT NULL ('chronic'/'infectious'/'injury'/'mental_health')
}

// 编码系统枚举
const (
	CodeSystemDSM5TR = "DSM-5-TR"
	CodeSystemICD10  = "ICD-10"
	CodeSystemICD11  = "ICD-11"
)
