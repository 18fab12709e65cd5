package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-classroom/backend/internal/model"
)

// RequirementRepository 课时需求数据访问接口
type RequirementRepository interface {
	List(ctx context.Context) ([]model.SubjectRequirement, error)
}

type requirementRepo struct {
	db *gorm.DB
}

// NewRequirementRepo 创建 RequirementRepository 实例
func NewRequirementRepo(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) List(ctx context.Context) ([]model.SubjectRequirement, error) {
	var reqs []model.SubjectRequirement
	err := r.db.WithContext(ctx).Order("id ASC").Find(&reqs).Error
	return reqs, err
}
