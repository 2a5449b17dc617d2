package domain

// Patient 患者领域模型（对应 patient 表）
// 患者登记后不做物理删除，被预约/病情/体征记录引用
type Patient struct {
	// 主键（约定 9 位以上数字）
	PatientID int64 `db:"patient_id"` // INTEGER, PRIMARY KEY, CHECK >= 100000000

	// 姓名
	FName    string `db:"f_name"`    // VARCHAR(15), NOT NULL
	MInitial string `db:"m_initial"` // CHAR(1), nullable
	LName    string `db:"l_name"`    // VARCHAR(15), NOT NULL

	// 性别
	Sex string `db:"sex"` // CHAR(1), CHECK ('M'/'F'/'X')

	// 出生日期（ISO-8601 文本）
	DOB string `db:"dob"` // VARCHAR(10), NOT NULL, CHECK LIKE '____-__-__'

	// 联系方式
	Address  string `db:"address"`   // VARCHAR(50), nullable
	Email    string `db:"email"`     // VARCHAR(30), CHECK LIKE '%@%.%'
	PhoneNum string `db:"phone_num"` // VARCHAR(12), CHECK LIKE '___-___-____'

	// 保险标识（可为空，SF 前缀 = State Farm）
	Insurance string `db:"insurance"` // VARCHAR(50), nullable
}

// 性别枚举
const (
	SexMale   = "M"
	SexFemale = "F"
	SexOther  = "X"
)
