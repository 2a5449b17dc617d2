package repository

import (
	"context"

	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// ReportsRepository 报表查询 Repository 接口。
// 七个固定分析查询 + 三个视图读取，全部只读、无副作用；
// 行序是契约的一部分，不是实现细节。
type ReportsRepository interface {
	// AvgUnpaidBillPerPatient 按患者汇总未付账单平均额
	AvgUnpaidBillPerPatient(ctx context.Context) (*domain.ResultSet, error)

	// PatientsWithoutOrStateFarmInsurance 无保险 ∪ State Farm（SF 前缀）保险的患者，去重
	PatientsWithoutOrStateFarmInsurance(ctx context.Context) (*domain.ResultSet, error)

	// PatientsWithoutPrescriptions 有预约但无处方的患者（反连接），按患者号排序
	PatientsWithoutPrescriptions(ctx context.Context) (*domain.ResultSet, error)

	// AppointmentCounts 每个 (医生, 患者) 组合的预约次数，按 (医生, 患者) 排序
	AppointmentCounts(ctx context.Context) (*domain.ResultSet, error)

	// DoctorCountPerPatient 每个患者看过的不同医生数，按患者号排序
	DoctorCountPerPatient(ctx context.Context) (*domain.ResultSet, error)

	// PatientCountPerDoctor 每个医生接诊的不同患者数，
	// 按人数降序，人数相同按医生号升序
	PatientCountPerDoctor(ctx context.Context) (*domain.ResultSet, error)

	// PatientsSeenByBoth 同时在两位给定医生处有过预约的患者，
	// 去重，按患者号排序
	PatientsSeenByBoth(ctx context.Context, doctorA, doctorB int64) (*domain.ResultSet, error)

	// OverdueBills 读取 overdue_bills 视图，按 (患者, 日期) 排序
	OverdueBills(ctx context.Context) (*domain.ResultSet, error)

	// DaySchedule 读取 day_schedule 视图：某医生某日的排班，按时间排序
	DaySchedule(ctx context.Context, doctorID int64, date string) (*domain.ResultSet, error)

	// PrescriptionHistory 读取 prescription_history 视图：某患者的处方史，按日期排序
	PrescriptionHistory(ctx context.Context, patientID int64) (*domain.ResultSet, error)
}
