package service

import (
	"go.uber.org/zap"

	"smart-classroom/backend/config"
	"smart-classroom/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Catalog  CatalogService
	Schedule ScheduleService
	Export   ExportService
	Seed     SeedService
}

// NewService 创建 Service 聚合
// cache 可为 nil（Redis 不可用时降级为直接查库）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache CatalogCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		Catalog:  NewCatalogService(repo, cache, logger),
		Schedule: NewScheduleService(repo, NewSolver(cfg.Solver.Seed), logger),
		Export:   NewExportService(repo, logger),
		Seed:     NewSeedService(repo, cache, logger),
	}
}
