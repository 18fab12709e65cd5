package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/model"
	"smart-classroom/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrClassNotFound   = errors.New("班级不存在")
	ErrSubjectNotFound = errors.New("科目不存在")
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrRoomNotFound    = errors.New("教室不存在")
	ErrInvalidTimeSlot = errors.New("无效的 day/slot")
	ErrTeacherBusy     = errors.New("该教师在此时间段已有课程")
	ErrRoomBusy        = errors.New("该教室在此时间段已被占用")
)

// ScheduleService 课表业务接口
type ScheduleService interface {
	// 获取课表；classID 为 nil 时返回全部班级
	GetSchedule(ctx context.Context, classID *int64) (dto.ScheduleResponse, error)
	// 重新生成全部班级课表（先清空，覆盖手动调整）
	Generate(ctx context.Context) (*dto.GenerateResponse, error)
	// 清空全部班级课表
	Clear(ctx context.Context) error
	// 手动覆盖单个单元格
	Override(ctx context.Context, req *dto.OverrideRequest) (*dto.OverrideResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	solver *Solver
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, solver *Solver, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, solver: solver, logger: logger}
}

// ────────────────────── GetSchedule ──────────────────────

func (s *scheduleService) GetSchedule(ctx context.Context, classID *int64) (dto.ScheduleResponse, error) {
	items, err := s.repo.Assignment.ListDetailed(ctx, classID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}

	out := make(dto.ScheduleResponse)
	for _, a := range items {
		if a.TimeSlot == nil {
			continue
		}
		key := strconv.FormatInt(a.ClassID, 10)
		if out[key] == nil {
			out[key] = make(map[string]dto.ScheduleEntryResponse)
		}
		out[key][dto.SlotKey(a.TimeSlot.Day, a.TimeSlot.Slot)] = toEntryResponse(&a)
	}
	return out, nil
}

// ────────────────────── Generate ──────────────────────

func (s *scheduleService) Generate(ctx context.Context) (*dto.GenerateResponse, error) {
	in, err := s.loadSolverInput(ctx)
	if err != nil {
		return nil, err
	}

	items, stats := s.solver.Solve(in)

	// 整体替换：删除旧排课与写入新排课在同一事务内
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.DeleteAll(ctx); err != nil {
			return err
		}
		return tx.Assignment.BatchCreate(ctx, items)
	})
	if err != nil {
		s.logger.Error("写入自动排课结果失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("自动排课完成",
		zap.Int("placed", stats.Placed),
		zap.Int("needed", stats.Needed),
	)
	return &dto.GenerateResponse{Stats: stats}, nil
}

// ────────────────────── Clear ──────────────────────

func (s *scheduleService) Clear(ctx context.Context) error {
	if err := s.repo.Assignment.DeleteAll(ctx); err != nil {
		s.logger.Error("清空课表失败", zap.Error(err))
		return err
	}
	s.logger.Info("课表已清空")
	return nil
}

// ────────────────────── Override ──────────────────────

func (s *scheduleService) Override(ctx context.Context, req *dto.OverrideRequest) (*dto.OverrideResponse, error) {
	if req.Day == nil || req.Slot == nil {
		return nil, ErrInvalidTimeSlot
	}

	// 1. 校验引用的实体存在
	if err := s.ensureExists(ctx, req); err != nil {
		return nil, err
	}

	// 2. 解析时间段
	ts, err := s.repo.Catalog.GetTimeSlotByPosition(ctx, *req.Day, *req.Slot)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTimeSlot
		}
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}

	// 3. 替换该班级该时段的排课；冲突时整体回滚，原排课保留
	assignment := &model.Assignment{
		ClassID:    req.ClassID,
		TimeSlotID: ts.ID,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.DeleteByClassAndSlot(ctx, req.ClassID, ts.ID); err != nil {
			return err
		}
		if err := checkFree(ctx, tx, req.TeacherID, req.RoomID, ts.ID); err != nil {
			return err
		}
		return tx.Assignment.Create(ctx, assignment)
	})
	if err != nil {
		if errors.Is(err, ErrTeacherBusy) || errors.Is(err, ErrRoomBusy) {
			s.logger.Info("手动覆盖冲突",
				zap.Int64("class_id", req.ClassID),
				zap.Int("day", *req.Day),
				zap.Int("slot", *req.Slot),
				zap.Error(err),
			)
			return nil, err
		}
		s.logger.Error("手动覆盖失败", zap.Error(err))
		return nil, err
	}

	return &dto.OverrideResponse{AssignmentID: assignment.ID}, nil
}

// ── 内部辅助方法 ──

func (s *scheduleService) loadSolverInput(ctx context.Context) (*SolverInput, error) {
	classes, err := s.repo.Catalog.ListClasses(ctx)
	if err != nil {
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}
	rooms, err := s.repo.Catalog.ListRooms(ctx)
	if err != nil {
		s.logger.Error("查询教室失败", zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.Catalog.ListTimeSlots(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	quals, err := s.repo.Catalog.ListTeacherSubjects(ctx)
	if err != nil {
		s.logger.Error("查询教师资格失败", zap.Error(err))
		return nil, err
	}
	reqs, err := s.repo.Requirement.List(ctx)
	if err != nil {
		s.logger.Error("查询课时需求失败", zap.Error(err))
		return nil, err
	}

	return &SolverInput{
		Classes:        classes,
		Rooms:          rooms,
		TimeSlots:      slots,
		Qualifications: quals,
		Requirements:   reqs,
	}, nil
}

func (s *scheduleService) ensureExists(ctx context.Context, req *dto.OverrideRequest) error {
	checks := []struct {
		lookup   func() error
		notFound error
	}{
		{func() error { _, err := s.repo.Catalog.GetClass(ctx, req.ClassID); return err }, ErrClassNotFound},
		{func() error { _, err := s.repo.Catalog.GetSubject(ctx, req.SubjectID); return err }, ErrSubjectNotFound},
		{func() error { _, err := s.repo.Catalog.GetTeacher(ctx, req.TeacherID); return err }, ErrTeacherNotFound},
		{func() error { _, err := s.repo.Catalog.GetRoom(ctx, req.RoomID); return err }, ErrRoomNotFound},
	}
	for _, c := range checks {
		if err := c.lookup(); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.notFound
			}
			s.logger.Error("校验覆盖引用失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func checkFree(ctx context.Context, tx *repository.Repository, teacherID, roomID, slotID int64) error {
	_, err := tx.Assignment.FindByTeacherAndSlot(ctx, teacherID, slotID)
	switch {
	case err == nil:
		return ErrTeacherBusy
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	_, err = tx.Assignment.FindByRoomAndSlot(ctx, roomID, slotID)
	switch {
	case err == nil:
		return ErrRoomBusy
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	return nil
}

func toEntryResponse(a *model.Assignment) dto.ScheduleEntryResponse {
	entry := dto.ScheduleEntryResponse{
		AssignmentID: a.ID,
		SubjectID:    a.SubjectID,
		TeacherID:    a.TeacherID,
		RoomID:       a.RoomID,
	}
	if a.Subject != nil {
		entry.Subject = a.Subject.Name
	}
	if a.Teacher != nil {
		entry.Teacher = a.Teacher.Name
	}
	if a.Room != nil {
		entry.Room = a.Room.Name
	}
	if a.TimeSlot != nil {
		entry.Label = a.TimeSlot.Label
	}
	return entry
}
