// Package service 生命周期编排：建模式 → 装数据 → 建视图，
// 拆除按逆序。各阶段独立暴露，展示层可以逐段调用并按段上报成败。
// 失败即止，不自动重试。
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
	"github.com/Michael-Nesci/cps510-patient-db/internal/repository"
	"github.com/Michael-Nesci/cps510-patient-db/internal/schema"
	"github.com/Michael-Nesci/cps510-patient-db/internal/seed"
	"github.com/Michael-Nesci/cps510-patient-db/internal/store"
)

// 报表标识
const (
	ReportAvgUnpaid           = "avg-unpaid"
	ReportInsurance           = "insurance"
	ReportNoPrescriptions     = "no-prescriptions"
	ReportAppointmentCounts   = "appointment-counts"
	ReportDoctorsPerPatient   = "doctors-per-patient"
	ReportPatientsPerDoctor   = "patients-per-doctor"
	ReportSharedPatients      = "shared-patients"
	ReportOverdueBills        = "overdue-bills"
	ReportDaySchedule         = "day-schedule"
	ReportPrescriptionHistory = "prescription-history"
)

// shared-patients 的缺省医生对（沿用参考数据集里的两位）
const (
	defaultSharedDoctorA = 100002
	defaultSharedDoctorB = 100004
)

const cacheKeyPrefix = "phr:report:"

// LifecycleService 生命周期编排器
type LifecycleService struct {
	schema   *schema.Manager
	seed     *seed.Loader
	reports  repository.ReportsRepository
	kv       store.KV // 可为 nil（缓存关闭）
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewLifecycleService 创建编排器；kv 传 nil 时禁用报表缓存
func NewLifecycleService(
	schemaMgr *schema.Manager,
	seedLoader *seed.Loader,
	reports repository.ReportsRepository,
	kv store.KV,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		schema:   schemaMgr,
		seed:     seedLoader,
		reports:  reports,
		kv:       kv,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Setup 一次完成建模式、装数据、建视图；任一阶段失败即止
func (s *LifecycleService) Setup(ctx context.Context) error {
	if err := s.CreateSchema(ctx); err != nil {
		return err
	}
	if err := s.Seed(ctx); err != nil {
		return err
	}
	return s.CreateViews(ctx)
}

// Teardown 逆序拆除：先视图后模式（数据随模式一并消失）
func (s *LifecycleService) Teardown(ctx context.Context) error {
	if err := s.DropViews(ctx); err != nil {
		return err
	}
	return s.DropSchema(ctx)
}

// CreateSchema 建十五张实体表
func (s *LifecycleService) CreateSchema(ctx context.Context) error {
	return s.stage(ctx, "create-schema", s.schema.CreateSchema)
}

// DropSchema 删十五张实体表
func (s *LifecycleService) DropSchema(ctx context.Context) error {
	return s.stage(ctx, "drop-schema", s.schema.DropSchema)
}

// Seed 装载参考数据集（单事务，失败整批回滚）
func (s *LifecycleService) Seed(ctx context.Context) error {
	return s.stage(ctx, "seed", s.seed.Load)
}

// CreateViews 建三个派生视图
func (s *LifecycleService) CreateViews(ctx context.Context) error {
	return s.stage(ctx, "create-views", s.schema.CreateViews)
}

// DropViews 删三个派生视图
func (s *LifecycleService) DropViews(ctx context.Context) error {
	return s.stage(ctx, "drop-views", s.schema.DropViews)
}

// stage 执行一个写阶段：带 run_id 记录成败，成功后失效报表缓存
func (s *LifecycleService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("stage", name), zap.String("run_id", runID))

	if err := fn(ctx); err != nil {
		log.Warn("stage failed", zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, log)
	log.Info("stage completed")
	return nil
}

// RunReport 按标识执行报表并返回表格化结果。
// 未知标识或参数不合法返回 QueryError。
func (s *LifecycleService) RunReport(ctx context.Context, id string, args ...string) (*domain.ResultSet, error) {
	key := cacheKeyPrefix + id
	if len(args) > 0 {
		key += ":" + strings.Join(args, ",")
	}
	if rs, ok := s.cacheGet(ctx, key); ok {
		return rs, nil
	}

	rs, err := s.dispatch(ctx, id, args)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, rs)
	return rs, nil
}

func (s *LifecycleService) dispatch(ctx context.Context, id string, args []string) (*domain.ResultSet, error) {
	switch id {
	case ReportAvgUnpaid:
		return s.reports.AvgUnpaidBillPerPatient(ctx)
	case ReportInsurance:
		return s.reports.PatientsWithoutOrStateFarmInsurance(ctx)
	case ReportNoPrescriptions:
		return s.reports.PatientsWithoutPrescriptions(ctx)
	case ReportAppointmentCounts:
		return s.reports.AppointmentCounts(ctx)
	case ReportDoctorsPerPatient:
		return s.reports.DoctorCountPerPatient(ctx)
	case ReportPatientsPerDoctor:
		return s.reports.PatientCountPerDoctor(ctx)

	case ReportSharedPatients:
		a, b := int64(defaultSharedDoctorA), int64(defaultSharedDoctorB)
		if len(args) != 0 {
			if len(args) != 2 {
				return nil, &dberr.QueryError{Msg: "shared-patients expects two doctor ids"}
			}
			var err error
			if a, err = parseID(args[0]); err != nil {
				return nil, err
			}
			if b, err = parseID(args[1]); err != nil {
				return nil, err
			}
		}
		return s.reports.PatientsSeenByBoth(ctx, a, b)

	case ReportOverdueBills:
		return s.reports.OverdueBills(ctx)

	case ReportDaySchedule:
		if len(args) != 2 {
			return nil, &dberr.QueryError{Msg: "day-schedule expects doctor id and date (YYYY-MM-DD)"}
		}
		doctorID, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		if len(args[1]) != 10 {
			return nil, &dberr.QueryError{Msg: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", args[1])}
		}
		return s.reports.DaySchedule(ctx, doctorID, args[1])

	case ReportPrescriptionHistory:
		if len(args) != 1 {
			return nil, &dberr.QueryError{Msg: "prescription-history expects a patient id"}
		}
		patientID, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return s.reports.PrescriptionHistory(ctx, patientID)
	}

	return nil, &dberr.QueryError{Msg: fmt.Sprintf("unknown report %q", id)}
}

// ReportIDs 全部报表标识（固定顺序，供展示层列菜单）
func ReportIDs() []string {
	return []string{
		ReportAvgUnpaid,
		ReportInsurance,
		ReportNoPrescriptions,
		ReportAppointmentCounts,
		ReportDoctorsPerPatient,
		ReportPatientsPerDoctor,
		ReportSharedPatients,
		ReportOverdueBills,
		ReportDaySchedule,
		ReportPrescriptionHistory,
	}
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &dberr.QueryError{Msg: fmt.Sprintf("invalid id %q", s)}
	}
	return n, nil
}

func (s *LifecycleService) cacheGet(ctx context.Context, key string) (*domain.ResultSet, bool) {
	if s.kv == nil {
		return nil, false
	}
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if err != store.ErrMiss {
			s.logger.Warn("report cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var rs domain.ResultSet
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		return nil, false
	}
	return &rs, true
}

func (s *LifecycleService) cacheSet(ctx context.Context, key string, rs *domain.ResultSet) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("report cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *LifecycleService) invalidateCache(ctx context.Context, log *zap.Logger) {
	if s.kv == nil {
		return
	}
	if err := s.kv.DeleteByPattern(ctx, cacheKeyPrefix+"*"); err != nil {
		log.Warn("report cache invalidation failed", zap.Error(err))
	}
}
