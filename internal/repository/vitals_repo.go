package repository

import (
	"context"

	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// VitalsRepository 体征测量 Repository 接口。
// BMI 不落库：读取后由 domain.VitalsMeasurement.BMI() 推导。
type VitalsRepository interface {
	// Record 写入一次测量；同患者同时间戳重复写入被主键拒绝
	Record(ctx context.Context, v *domain.VitalsMeasurement) error

	// ListByPatient 查询某患者的全部测量，按时间戳排序
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.VitalsMeasurement, error)
}
