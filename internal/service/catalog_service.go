package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/repository"
	"smart-classroom/backend/pkg/redis"
)

// 目录缓存键
const (
	CatalogClasses      = "classes"
	CatalogTeachers     = "teachers"
	CatalogSubjects     = "subjects"
	CatalogRooms        = "rooms"
	CatalogTimeSlots    = "timeslots"
	CatalogRequirements = "requirements"
)

// AllCatalogKinds 全部目录种类（种子写入后整体失效）
var AllCatalogKinds = []string{
	CatalogClasses, CatalogTeachers, CatalogSubjects, CatalogRooms, CatalogTimeSlots, CatalogRequirements,
}

// CatalogCache 目录读缓存，由 pkg/redis.Client 实现
type CatalogCache interface {
	GetCatalog(ctx context.Context, kind string) ([]byte, error)
	SetCatalog(ctx context.Context, kind string, payload []byte) error
	InvalidateCatalog(ctx context.Context, kinds ...string) error
}

// CatalogService 实体目录业务接口（只读）
type CatalogService interface {
	ListClasses(ctx context.Context) ([]dto.ClassGroupResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	ListRooms(ctx context.Context) ([]dto.RoomResponse, error)
	ListTimeSlots(ctx context.Context) ([]dto.TimeSlotResponse, error)
	ListRequirements(ctx context.Context) ([]dto.RequirementResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, cache CatalogCache, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, cache: cache, logger: logger}
}

func (s *catalogService) ListClasses(ctx context.Context) ([]dto.ClassGroupResponse, error) {
	return cached(ctx, s, CatalogClasses, func(ctx context.Context) ([]dto.ClassGroupResponse, error) {
		rows, err := s.repo.Catalog.ListClasses(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ClassGroupResponse, 0, len(rows))
		for _, c := range rows {
			out = append(out, dto.ClassGroupResponse{ID: c.ID, Name: c.Name, Size: c.Size})
		}
		return out, nil
	})
}

func (s *catalogService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	return cached(ctx, s, CatalogTeachers, func(ctx context.Context) ([]dto.TeacherResponse, error) {
		rows, err := s.repo.Catalog.ListTeachers(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.TeacherResponse, 0, len(rows))
		for _, t := range rows {
			out = append(out, dto.TeacherResponse{ID: t.ID, Name: t.Name})
		}
		return out, nil
	})
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	return cached(ctx, s, CatalogSubjects, func(ctx context.Context) ([]dto.SubjectResponse, error) {
		rows, err := s.repo.Catalog.ListSubjects(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.SubjectResponse, 0, len(rows))
		for _, sub := range rows {
			out = append(out, dto.SubjectResponse{ID: sub.ID, Name: sub.Name})
		}
		return out, nil
	})
}

func (s *catalogService) ListRooms(ctx context.Context) ([]dto.RoomResponse, error) {
	return cached(ctx, s, CatalogRooms, func(ctx context.Context) ([]dto.RoomResponse, error) {
		rows, err := s.repo.Catalog.ListRooms(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.RoomResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.RoomResponse{
				ID:            r.ID,
				Name:          r.Name,
				Capacity:      r.Capacity,
				HasProjector:  r.HasProjector,
				HasSmartBoard: r.HasSmartBoard,
			})
		}
		return out, nil
	})
}

func (s *catalogService) ListTimeSlots(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	return cached(ctx, s, CatalogTimeSlots, func(ctx context.Context) ([]dto.TimeSlotResponse, error) {
		rows, err := s.repo.Catalog.ListTimeSlots(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.TimeSlotResponse, 0, len(rows))
		for _, ts := range rows {
			out = append(out, dto.TimeSlotResponse{ID: ts.ID, Day: ts.Day, Slot: ts.Slot, Label: ts.Label})
		}
		return out, nil
	})
}

func (s *catalogService) ListRequirements(ctx context.Context) ([]dto.RequirementResponse, error) {
	return cached(ctx, s, CatalogRequirements, func(ctx context.Context) ([]dto.RequirementResponse, error) {
		rows, err := s.repo.Requirement.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.RequirementResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.RequirementResponse{
				ID:             r.ID,
				ClassID:        r.ClassID,
				SubjectID:      r.SubjectID,
				PeriodsPerWeek: r.PeriodsPerWeek,
			})
		}
		return out, nil
	})
}

// ── 内部辅助方法 ──

// cached 先读缓存，未命中或缓存异常时查库并回填；缓存故障只记录日志，不影响结果
func cached[T any](ctx context.Context, s *catalogService, kind string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		payload, err := s.cache.GetCatalog(ctx, kind)
		switch {
		case err == nil:
			var out []T
			if err := json.Unmarshal(payload, &out); err == nil {
				return out, nil
			}
			s.logger.Warn("目录缓存内容无法解析，回退查库", zap.String("kind", kind))
		case !errors.Is(err, redis.ErrCacheMiss):
			s.logger.Warn("读取目录缓存失败", zap.String("kind", kind), zap.Error(err))
		}
	}

	out, err := load(ctx)
	if err != nil {
		s.logger.Error("查询目录失败", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cache.SetCatalog(ctx, kind, payload); err != nil {
				s.logger.Warn("写入目录缓存失败", zap.String("kind", kind), zap.Error(err))
			}
		}
	}
	return out, nil
}
