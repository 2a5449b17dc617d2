package repository

import (
	"context"

	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// AppointmentsRepository 预约 Repository 接口
type AppointmentsRepository interface {
	// Book 新建预约；违反排期约束（患者/医生同时段、同日重复）时
	// 返回 ConstraintViolation
	Book(ctx context.Context, appt *domain.Appointment) error

	// Cancel 按主键删除预约；存在从属的账单/操作/处方时被拒。
	// 预约不存在返回 sql.ErrNoRows
	Cancel(ctx context.Context, patientID int64, date, timeSlot string) error

	// ListByPatient 查询某患者的全部预约，按日期、时间排序
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
}
