package domain

// Doctor 医生领域模型（对应 doctor 表）
// 独立生命周期，被 booked 与 condition_details 引用
type Doctor struct {
	DoctorID  int64  `db:"doctor_id"` // INTEGER, PRIMARY KEY, CHECK >= 10000
	FName     string `db:"f_name"`    // VARCHAR(15), NOT NULL
	LName     string `db:"l_name"`    // VARCHAR(15), NOT NULL
	Sex       string `db:"sex"`       // CHAR(1), CHECK ('M'/'F'/'X')
	Extension string `db:"extension"` // VARCHAR(6), nullable（分机号）
	Specialty string `db:"specialty"` // VARCHAR(50), nullable
	Lang      string `db:"lang"`      // VARCHAR(50), nullable（可用语言）
	Status    string `db:"status"`    // VARCHAR(8), NOT NULL, DEFAULT 'Active' ('Active'/'Inactive')
}

// 医生状态枚举
const (
	DoctorActive   = "Active"
	DoctorInactive = "Inactive"
)
