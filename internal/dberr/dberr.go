// Package dberr 将底层驱动错误解码为本系统的错误分类：
// SchemaError（实体已存在/不存在/被依赖阻塞）、
// ConstraintViolation（主键/外键/唯一/检查/非空，按具体约束打标）、
// QueryError（非法的报表标识或参数）。
// 任何约束或模式失败都整体中止触发操作，不存在吞错或降级路径。
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
)

// Kind 约束违例类别
type Kind string

const (
	KindPrimaryKey Kind = "primary_key"
	KindForeignKey Kind = "foreign_key"
	KindUnique     Kind = "unique"
	KindCheck      Kind = "check"
	KindNotNull    Kind = "not_null"
)

// Schema 失败原因
const (
	ReasonExists     = "already exists"
	ReasonMissing    = "does not exist"
	ReasonDependents = "blocked by dependents"
)

// SchemaError 模式操作失败（建表/删表/建视图/删视图）
type SchemaError struct {
	Op     string // "create" / "drop"
	Object string // 表名或视图名
	Reason string // ReasonExists / ReasonMissing / ReasonDependents
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s %s: %s", e.Op, e.Object, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConstraintViolation 完整性约束违例，携带具体约束标识
type ConstraintViolation struct {
	Kind       Kind
	Entity     string // 被变更的表
	Constraint string // 约束名（SQLite 的唯一违例给出列清单）
	Err        error
}

func (e *ConstraintViolation) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation on %s: %s (%s)", e.Entity, e.Constraint, e.Kind)
	}
	return fmt.Sprintf("constraint violation on %s (%s)", e.Entity, e.Kind)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// QueryError 报表调用方错误（未知标识、参数个数/格式不对）
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string { return e.Msg }

// SQLite 扩展结果码（modernc 驱动透传 C 侧取值）
const (
	sqliteGenericError      = 1
	sqliteConstraint        = 19
	sqliteConstraintCheck   = 275
	sqliteConstraintFK      = 787
	sqliteConstraintPK      = 1555
	sqliteConstraintNotNull = 1299
	sqliteConstraintUnique  = 2067
)

// DecodeFor 把驱动错误解码为类型化错误；entity 为正在变更/创建的对象，
// 在驱动不携带对象信息时作为兜底。无法识别的错误原样返回。
func DecodeFor(entity string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return decodePostgres(entity, pqErr, err)
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return decodeSQLite(entity, sqErr.Code(), err)
	}

	return err
}

func decodePostgres(entity string, pqErr *pq.Error, err error) error {
	table := pqErr.Table
	if table == "" {
		table = entity
	}

	switch pqErr.Code {
	case "23505": // unique_violation
		kind := KindUnique
		if strings.HasPrefix(pqErr.Constraint, "pk_") {
			kind = KindPrimaryKey
		}
		return &ConstraintViolation{Kind: kind, Entity: table, Constraint: pqErr.Constraint, Err: err}
	case "23503": // foreign_key_violation
		return &ConstraintViolation{Kind: KindForeignKey, Entity: table, Constraint: pqErr.Constraint, Err: err}
	case "23514": // check_violation
		return &ConstraintViolation{Kind: KindCheck, Entity: table, Constraint: pqErr.Constraint, Err: err}
	case "23502": // not_null_violation
		return &ConstraintViolation{Kind: KindNotNull, Entity: table, Constraint: pqErr.Column, Err: err}
	case "42P07": // duplicate_table
		return &SchemaError{Op: "create", Object: table, Reason: ReasonExists, Err: err}
	case "42P01": // undefined_table
		return &SchemaError{Op: "drop", Object: table, Reason: ReasonMissing, Err: err}
	case "2BP01": // dependent_objects_still_exist
		return &SchemaError{Op: "drop", Object: table, Reason: ReasonDependents, Err: err}
	}
	return err
}

func decodeSQLite(entity string, code int, err error) error {
	msg := err.Error()

	switch code {
	case sqliteConstraintPK:
		return &ConstraintViolation{Kind: KindPrimaryKey, Entity: sqliteEntity(msg, entity), Constraint: sqliteDetail(msg), Err: err}
	case sqliteConstraintUnique:
		return &ConstraintViolation{Kind: KindUnique, Entity: sqliteEntity(msg, entity), Constraint: sqliteDetail(msg), Err: err}
	case sqliteConstraintFK:
		return &ConstraintViolation{Kind: KindForeignKey, Entity: entity, Err: err}
	case sqliteConstraintCheck:
		return &ConstraintViolation{Kind: KindCheck, Entity: entity, Constraint: sqliteDetail(msg), Err: err}
	case sqliteConstraintNotNull:
		return &ConstraintViolation{Kind: KindNotNull, Entity: sqliteEntity(msg, entity), Constraint: sqliteDetail(msg), Err: err}
	case sqliteConstraint:
		// 未带扩展码的通用约束错误，按消息归类
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return &ConstraintViolation{Kind: KindUnique, Entity: sqliteEntity(msg, entity), Constraint: sqliteDetail(msg), Err: err}
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return &ConstraintViolation{Kind: KindForeignKey, Entity: entity, Err: err}
		case strings.Contains(msg, "CHECK constraint failed"):
			return &ConstraintViolation{Kind: KindCheck, Entity: entity, Constraint: sqliteDetail(msg), Err: err}
		case strings.Contains(msg, "NOT NULL constraint failed"):
			return &ConstraintViolation{Kind: KindNotNull, Entity: sqliteEntity(msg, entity), Constraint: sqliteDetail(msg), Err: err}
		}
		return &ConstraintViolation{Kind: KindCheck, Entity: entity, Err: err}
	case sqliteGenericError:
		switch {
		case strings.Contains(msg, "already exists"):
			return &SchemaError{Op: "create", Object: sqliteObject(msg, entity), Reason: ReasonExists, Err: err}
		case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such view"):
			return &SchemaError{Op: "drop", Object: sqliteObject(msg, entity), Reason: ReasonMissing, Err: err}
		}
	}
	return err
}

// sqliteDetail 取 "XXX constraint failed: " 之后的部分
// （CHECK 给出约束名，UNIQUE/NOT NULL 给出 table.column 清单）
func sqliteDetail(msg string) string {
	// modernc 的消息形如 "constraint failed: UNIQUE constraint failed: t.c (2067)"，
	// 取最后一个 "constraint failed: " 之后的部分
	if i := strings.LastIndex(msg, "constraint failed: "); i >= 0 {
		detail := msg[i+len("constraint failed: "):]
		if j := strings.Index(detail, " ("); j >= 0 {
			detail = detail[:j]
		}
		return strings.TrimSpace(detail)
	}
	return ""
}

// sqliteEntity 从 "table.column" 形式的违例详情里取表名
func sqliteEntity(msg, fallback string) string {
	detail := sqliteDetail(msg)
	if i := strings.Index(detail, "."); i > 0 {
		return detail[:i]
	}
	return fallback
}

// sqliteObject 从 "table X already exists" / "no such table: X" 取对象名
func sqliteObject(msg, fallback string) string {
	for _, prefix := range []string{"no such table: ", "no such view: "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			name := msg[i+len(prefix):]
			if j := strings.IndexAny(name, " ("); j >= 0 {
				name = name[:j]
			}
			return strings.TrimSpace(name)
		}
	}
	if i := strings.Index(msg, " already exists"); i >= 0 {
		head := msg[:i]
		if j := strings.LastIndex(head, " "); j >= 0 {
			return head[j+1:]
		}
	}
	return fallback
}

// IsSchemaExists 模式对象已存在
func IsSchemaExists(err error) bool {
	var se *SchemaError
	return errors.As(err, &se) && se.Reason == ReasonExists
}

// IsSchemaMissing 模式对象不存在
func IsSchemaMissing(err error) bool {
	var se *SchemaError
	return errors.As(err, &se) && se.Reason == ReasonMissing
}
