package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

func TestAddCondition_Chronic(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)
	ctx := context.Background()

	rec := &domain.ConditionRecord{
		Condition: domain.Condition{
			PatientID:     100000005,
			DiagnosisName: "Essential Hypertension",
			OnsetDate:     "2025-06-01",
		},
		Detail: domain.ConditionDetail{
			Severity: domain.SeverityMild,
			DoctorID: 100005,
		},
		Chronic: &domain.ChronicDetail{
			IsLifestyleModifiable:  "Y",
			LongTermMedRequired:    "N",
			FollowUpIntervalMonths: 12,
		},
	}
	id, err := repo.Add(ctx, rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	// 标签从诊断目录回填
	assert.Equal(t, domain.KindChronic, rec.ConditionType)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(100000005), got.PatientID)
	assert.Equal(t, domain.KindChronic, got.ConditionType)
	// 目录坐标缺省取诊断行的
	assert.Equal(t, "ICD-10", got.Detail.CodeSystem)
	assert.Equal(t, "I10", got.Detail.Code)
	assert.Equal(t, domain.StatusActive, got.Detail.ClinicalStatus)
	assert.Equal(t, domain.SeverityMild, got.Detail.Severity)
	require.NotNil(t, got.Chronic)
	assert.Equal(t, "Y", got.Chronic.IsLifestyleModifiable)
	assert.Equal(t, 12, got.Chronic.FollowUpIntervalMonths)
	assert.Nil(t, got.Infectious)
	assert.Nil(t, got.Injury)
	assert.Nil(t, got.MentalHealth)
}

func TestAddCondition_ExplicitID(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)
	ctx := context.Background()

	rec := &domain.ConditionRecord{
		Condition: domain.Condition{
			ConditionID:   200000,
			PatientID:     100000004,
			DiagnosisName: "Fracture of Tibia",
			OnsetDate:     "2025-08-14",
		},
		Injury: &domain.InjuryDetail{
			InjuryType:   "fracture",
			BodySite:     "tibia",
			Laterality:   "left",
			Cause:        "fall",
			DateOfInjury: "2025-08-14",
		},
	}
	id, err := repo.Add(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), id)

	got, err := repo.Get(ctx, 200000)
	require.NoError(t, err)
	assert.Equal(t, domain.KindInjury, got.ConditionType)
	require.NotNil(t, got.Injury)
	assert.Equal(t, "left", got.Injury.Laterality)
}

func TestAddCondition_PayloadMismatch(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)

	// 诊断标签是 infectious，却带 chronic 载荷
	_, err := repo.Add(context.Background(), &domain.ConditionRecord{
		Condition: domain.Condition{
			PatientID:     100000005,
			DiagnosisName: "Acute Pharyngitis",
			OnsetDate:     "2025-07-01",
		},
		Chronic: &domain.ChronicDetail{},
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindCheck, cv.Kind)
	assert.Equal(t, "infectious_condition", cv.Entity)
}

func TestAddCondition_ExtraPayload(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)

	_, err := repo.Add(context.Background(), &domain.ConditionRecord{
		Condition: domain.Condition{
			PatientID:     100000005,
			DiagnosisName: "Acute Pharyngitis",
			OnsetDate:     "2025-07-01",
		},
		Infectious: &domain.InfectiousDetail{PathogenType: domain.PathogenVirus},
		Injury:     &domain.InjuryDetail{},
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindCheck, cv.Kind)
}

func TestAddCondition_UnknownDiagnosis(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)

	_, err := repo.Add(context.Background(), &domain.ConditionRecord{
		Condition: domain.Condition{
			PatientID:     100000005,
			DiagnosisName: "Common Cold",
			OnsetDate:     "2025-07-01",
		},
		Infectious: &domain.InfectiousDetail{},
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindForeignKey, cv.Kind)
}

func TestAddCondition_DuplicateEpisode(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)

	// 与参考数据同患者、同诊断、同起病日期
	_, err := repo.Add(context.Background(), &domain.ConditionRecord{
		Condition: domain.Condition{
			PatientID:     100000001,
			DiagnosisName: "Essential Hypertension",
			OnsetDate:     "2024-05-10",
		},
		Chronic: &domain.ChronicDetail{},
	})
	require.Error(t, err)

	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, dberr.KindUnique, cv.Kind)

	// 事务整体回滚，不留半个聚合
	assert.Equal(t, 3, countRows(t, db, "conditions"))
	assert.Equal(t, 3, countRows(t, db, "condition_details"))
	assert.Equal(t, 1, countRows(t, db, "chronic_condition"))
}

func TestDeleteCondition_Cascades(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 100000))

	// 基表、扩展行与子类型行一并消失
	assert.Equal(t, 2, countRows(t, db, "conditions"))
	assert.Equal(t, 2, countRows(t, db, "condition_details"))
	assert.Equal(t, 0, countRows(t, db, "chronic_condition"))

	_, err := repo.Get(ctx, 100000)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteCondition_NotFound(t *testing.T) {
	db := setupSeededDB(t)
	repo := NewSQLConditionsRepository(db)

	err := repo.Delete(context.Background(), 424242)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSubtypeRow_WrongDiscriminantRejected(t *testing.T) {
	db := setupSeededDB(t)

	// 绕过 Repository 直接给 chronic 病情插一条 injury 子类型行：
	// 复合外键 (condition_id, condition_type) 在基表找不到 ('injury') 的父行
	_, err := db.Exec(
		`INSERT INTO injury_condition (condition_id, injury_type) VALUES ($1, $2)`,
		100000, "fracture")
	require.Error(t, err)

	decoded := dberr.DecodeFor("injury_condition", err)
	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, decoded, &cv)
	assert.Equal(t, dberr.KindForeignKey, cv.Kind)
}

func TestSubtypeRow_SecondOfSameTypeRejected(t *testing.T) {
	db := setupSeededDB(t)

	// 同一病情第二条同类型子类型行被主键拒绝
	_, err := db.Exec(
		`INSERT INTO chronic_condition (condition_id, is_lifestyle_modifiable) VALUES ($1, $2)`,
		100000, "N")
	require.Error(t, err)

	decoded := dberr.DecodeFor("chronic_condition", err)
	var cv *dberr.ConstraintViolation
	require.ErrorAs(t, decoded, &cv)
	assert.Contains(t, []dberr.Kind{dberr.KindPrimaryKey, dberr.KindUnique}, cv.Kind)
}
