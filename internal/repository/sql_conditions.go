package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Michael-Nesci/cps510-patient-db/internal/dberr"
	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// SQLConditionsRepository 病情层次 Repository 实现
type SQLConditionsRepository struct {
	db *sql.DB
}

// NewSQLConditionsRepository 创建病情 Repository
func NewSQLConditionsRepository(db *sql.DB) *SQLConditionsRepository {
	return &SQLConditionsRepository{db: db}
}

// 确保实现了接口
var _ ConditionsRepository = (*SQLConditionsRepository)(nil)

func (r *SQLConditionsRepository) Add(ctx context.Context, rec *domain.ConditionRecord) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin add condition: %w", err)
	}
	defer tx.Rollback()

	// 子类型由诊断目录的标签决定
	var codeSystem, code string
	var kind domain.ConditionKind
	err = tx.QueryRowContext(ctx,
		`SELECT code_system, code, condition_type FROM diagnosis WHERE diagnosis_name = $1`,
		rec.DiagnosisName,
	).Scan(&codeSystem, &code, &kind)
	if err == sql.ErrNoRows {
		return 0, &dberr.ConstraintViolation{
			Kind: dberr.KindForeignKey, Entity: "conditions", Constraint: "fk_conditions_diagnosis", Err: err,
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve diagnosis %q: %w", rec.DiagnosisName, err)
	}
	rec.ConditionType = kind

	// 载荷必须与标签一致，且不得携带其他子类型的载荷
	matched, extra := rec.Payload()
	if !matched || extra {
		return 0, &dberr.ConstraintViolation{
			Kind: dberr.KindCheck, Entity: subtypeTable(kind), Constraint: "one subtype payload matching the diagnosis tag",
		}
	}

	// 基表：代理键可显式给定，缺省由引擎分配
	var id int64
	if rec.ConditionID != 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO conditions (condition_id, patient_id, diagnosis_name, condition_type, onset_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ConditionID, rec.PatientID, rec.DiagnosisName, kind, rec.OnsetDate)
		id = rec.ConditionID
	} else {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO conditions (patient_id, diagnosis_name, condition_type, onset_date)
			 VALUES ($1, $2, $3, $4)
			 RETURNING condition_id`,
			rec.PatientID, rec.DiagnosisName, kind, rec.OnsetDate).Scan(&id)
	}
	if err != nil {
		return 0, dberr.DecodeFor("conditions", err)
	}

	// 临床扩展（一对一，同主键）；目录坐标缺省取诊断行的
	d := rec.Detail
	if d.CodeSystem == "" {
		d.CodeSystem, d.Code = codeSystem, code
	}
	if d.ClinicalStatus == "" {
		d.ClinicalStatus = domain.StatusActive
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO condition_details (condition_id, patient_id, code_system, code, onset_date, abatement_date, clinical_status, severity, doctor_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, rec.PatientID, d.CodeSystem, d.Code, rec.OnsetDate,
		nullStr(d.AbatementDate), d.ClinicalStatus, nullStr(d.Severity), nullID(d.DoctorID))
	if err != nil {
		return 0, dberr.DecodeFor("condition_details", err)
	}

	// 与标签匹配的子类型行，四选一
	switch kind {
	case domain.KindChronic:
		c := rec.Chronic
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chronic_condition (condition_id, is_lifestyle_modifiable, long_term_med_required, follow_up_interval_months)
			 VALUES ($1, $2, $3, $4)`,
			id, nullStr(c.IsLifestyleModifiable), nullStr(c.LongTermMedRequired), nullCount(c.FollowUpIntervalMonths))
	case domain.KindInfectious:
		i := rec.Infectious
		_, err = tx.ExecContext(ctx,
			`INSERT INTO infectious_condition (condition_id, pathogen_type, isolation_required)
			 VALUES ($1, $2, $3)`,
			id, nullStr(i.PathogenType), nullStr(i.IsolationRequired))
	case domain.KindInjury:
		j := rec.Injury
		_, err = tx.ExecContext(ctx,
			`INSERT INTO injury_condition (condition_id, injury_type, body_site, laterality, cause, date_of_injury)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, nullStr(j.InjuryType), nullStr(j.BodySite), nullStr(j.Laterality), nullStr(j.Cause), nullStr(j.DateOfInjury))
	case domain.KindMentalHealth:
		m := rec.MentalHealth
		_, err = tx.ExecContext(ctx,
			`INSERT INTO mental_health_condition (condition_id, disorder_category, episode, treatment_type, risk_factor)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, nullStr(m.DisorderCategory), nullStr(m.Episode), nullStr(m.TreatmentType), nullStr(m.RiskFactor))
	}
	if err != nil {
		return 0, dberr.DecodeFor(subtypeTable(kind), err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit add condition: %w", err)
	}
	rec.ConditionID = id
	return id, nil
}

func (r *SQLConditionsRepository) Get(ctx context.Context, conditionID int64) (*domain.ConditionRecord, error) {
	rec := &domain.ConditionRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT condition_id, patient_id, diagnosis_name, condition_type, onset_date
		 FROM conditions WHERE condition_id = $1`,
		conditionID,
	).Scan(&rec.ConditionID, &rec.PatientID, &rec.DiagnosisName, &rec.ConditionType, &rec.OnsetDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get condition: %w", err)
	}

	var codeSystem, code, onset, abatement, severity sql.NullString
	var doctorID sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT condition_id, patient_id, code_system, code, onset_date, abatement_date, clinical_status, severity, doctor_id
		 FROM condition_details WHERE condition_id = $1`,
		conditionID,
	).Scan(&rec.Detail.ConditionID, &rec.Detail.PatientID, &codeSystem, &code,
		&onset, &abatement, &rec.Detail.ClinicalStatus, &severity, &doctorID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get condition details: %w", err)
	}
	rec.Detail.CodeSystem = codeSystem.String
	rec.Detail.Code = code.String
	rec.Detail.OnsetDate = onset.String
	rec.Detail.AbatementDate = abatement.String
	rec.Detail.Severity = severity.String
	rec.Detail.DoctorID = doctorID.Int64

	// 判别列决定读哪一张子类型表
	switch rec.ConditionType {
	case domain.KindChronic:
		var c domain.ChronicDetail
		var lm, med sql.NullString
		var fu sql.NullInt64
		err = r.db.QueryRowContext(ctx,
			`SELECT is_lifestyle_modifiable, long_term_med_required, follow_up_interval_months
			 FROM chronic_condition WHERE condition_id = $1`, conditionID).Scan(&lm, &med, &fu)
		if err == nil {
			c.IsLifestyleModifiable, c.LongTermMedRequired, c.FollowUpIntervalMonths = lm.String, med.String, int(fu.Int64)
			rec.Chronic = &c
		}
	case domain.KindInfectious:
		var i domain.InfectiousDetail
		var pt, iso sql.NullString
		err = r.db.QueryRowContext(ctx,
			`SELECT pathogen_type, isolation_required
			 FROM infectious_condition WHERE condition_id = $1`, conditionID).Scan(&pt, &iso)
		if err == nil {
			i.PathogenType, i.IsolationRequired = pt.String, iso.String
			rec.Infectious = &i
		}
	case domain.KindInjury:
		var j domain.InjuryDetail
		var it, bs, lat, cause, doi sql.NullString
		err = r.db.QueryRowContext(ctx,
			`SELECT injury_type, body_site, laterality, cause, date_of_injury
			 FROM injury_condition WHERE condition_id = $1`, conditionID).Scan(&it, &bs, &lat, &cause, &doi)
		if err == nil {
			j.InjuryType, j.BodySite, j.Laterality, j.Cause, j.DateOfInjury = it.String, bs.String, lat.String, cause.String, doi.String
			rec.Injury = &j
		}
	case domain.KindMentalHealth:
		var m domain.MentalHealthDetail
		var dc, ep, tt, rf sql.NullString
		err = r.db.QueryRowContext(ctx,
			`SELECT disorder_category, episode, treatment_type, risk_factor
			 FROM mental_health_condition WHERE condition_id = $1`, conditionID).Scan(&dc, &ep, &tt, &rf)
		if err == nil {
			m.DisorderCategory, m.Episode, m.TreatmentType, m.RiskFactor = dc.String, ep.String, tt.String, rf.String
			rec.MentalHealth = &m
		}
	}
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get condition subtype: %w", err)
	}

	return rec, nil
}

func (r *SQLConditionsRepository) Delete(ctx context.Context, conditionID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conditions WHERE condition_id = $1`, conditionID)
	if err != nil {
		return dberr.DecodeFor("conditions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func subtypeTable(kind domain.ConditionKind) string {
	switch kind {
	case domain.KindChronic:
		return "chronic_condition"
	case domain.KindInfectious:
		return "infectious_condition"
	case domain.KindInjury:
		return "injury_condition"
	case domain.KindMentalHealth:
		return "mental_health_condition"
	}
	return "conditions"
}

// 空串/零值落库为 NULL
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullCount(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
