package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Catalog     CatalogRepository
	Requirement RequirementRepository
	Assignment  AssignmentRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Catalog:     NewCatalogRepo(db),
		Requirement: NewRequirementRepo(db),
		Assignment:  NewAssignmentRepo(db),
		db:          db,
	}
}

// Transaction 在同一事务中执行 fn；fn 返回错误时整体回滚
// 测试中以 mock 构造的 Repository 没有 db，此时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
