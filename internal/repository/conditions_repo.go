package repository

import (
	"context"

	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

// ConditionsRepository 病情层次 Repository 接口。
// 基表/临床扩展/子类型行作为一个聚合写入与删除：
// 子类型四选一由诊断目录的标签决定，写入方不得自行指定别的类型。
type ConditionsRepository interface {
	// Add 写入病情聚合（基表 + 扩展 + 与诊断标签匹配的子类型行），
	// 单事务；返回代理键。
	// 载荷与目录标签不符、或携带多个子类型载荷时整体拒绝。
	Add(ctx context.Context, rec *domain.ConditionRecord) (int64, error)

	// Get 按代理键读取聚合；判别列决定回填哪一个子类型载荷
	Get(ctx context.Context, conditionID int64) (*domain.ConditionRecord, error)

	// Delete 删除基表行；扩展行与子类型行级联清除。
	// 不存在返回 sql.ErrNoRows
	Delete(ctx context.Context, conditionID int64) error
}
