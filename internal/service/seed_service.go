package service

import (
	"context"

	"go.uber.org/zap"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/model"
	"smart-classroom/backend/internal/repository"
)

// SeedService 演示数据初始化
type SeedService interface {
	// Run 数据库为空时写入默认目录数据，否则跳过
	Run(ctx context.Context) (*dto.SeedResult, error)
}

type seedService struct {
	repo   *repository.Repository
	cache  CatalogCache
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(repo *repository.Repository, cache CatalogCache, logger *zap.Logger) SeedService {
	return &seedService{repo: repo, cache: cache, logger: logger}
}

// DefaultSlotLabels 默认每天 6 节
var DefaultSlotLabels = []string{
	"09:00-09:45", "09:50-10:35", "10:40-11:25", "11:35-12:20", "13:10-13:55", "14:00-14:45",
}

func (s *seedService) Run(ctx context.Context) (*dto.SeedResult, error) {
	n, err := s.repo.Catalog.CountTeachers(ctx)
	if err != nil {
		s.logger.Error("查询教师数量失败", zap.Error(err))
		return nil, err
	}
	if n > 0 {
		s.logger.Info("目录数据已存在，跳过初始化")
		return &dto.SeedResult{Seeded: false}, nil
	}

	if err := s.repo.Catalog.Seed(ctx, DefaultSeedData()); err != nil {
		s.logger.Error("写入初始化数据失败", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCatalog(ctx, AllCatalogKinds...); err != nil {
			s.logger.Warn("清除目录缓存失败", zap.Error(err))
		}
	}

	s.logger.Info("初始化数据写入完成")
	return &dto.SeedResult{Seeded: true}, nil
}

// DefaultSeedData 默认演示数据：3 名教师、4 个科目、2 个班级、2 间教室、5×6 时间段
// TeacherSubjects / Requirements 中的 ID 为对应切片下标 + 1
func DefaultSeedData() *repository.SeedData {
	data := &repository.SeedData{
		Teachers: []model.Teacher{
			{Name: "Anita Sen"},
			{Name: "Rahul Mehta"},
			{Name: "Joseph D"},
		},
		Subjects: []model.Subject{
			{Name: "Mathematics"},
			{Name: "Science"},
			{Name: "English"},
			{Name: "History"},
		},
		TeacherSubjects: []model.TeacherSubject{
			{TeacherID: 1, SubjectID: 1},
			{TeacherID: 2, SubjectID: 2},
			{TeacherID: 3, SubjectID: 3},
			{TeacherID: 2, SubjectID: 4},
		},
		Classes: []model.ClassGroup{
			{Name: "Grade 8 - A", Size: 28},
			{Name: "Grade 8 - B", Size: 30},
		},
		Rooms: []model.Room{
			{Name: "Room 101", Capacity: 30, HasProjector: true},
			{Name: "Room 102", Capacity: 32, HasSmartBoard: true},
		},
	}

	for day := 0; day < len(DayNames); day++ {
		for slot, label := range DefaultSlotLabels {
			data.TimeSlots = append(data.TimeSlots, model.TimeSlot{Day: day, Slot: slot, Label: label})
		}
	}

	periods := []int{5, 4, 4, 3} // Mathematics, Science, English, History
	for classIdx := range data.Classes {
		for subjectIdx, n := range periods {
			data.Requirements = append(data.Requirements, model.SubjectRequirement{
				ClassID:        int64(classIdx + 1),
				SubjectID:      int64(subjectIdx + 1),
				PeriodsPerWeek: n,
			})
		}
	}
	return data
}
