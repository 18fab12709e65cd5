package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-classroom/backend/internal/model"
	pkgerrors "smart-classroom/backend/pkg/errors"
)

// AssignmentRepository 排课记录数据访问接口
type AssignmentRepository interface {
	// ListDetailed 列出排课并预加载时间段/科目/教师/教室；classID 为 nil 时返回全部班级
	ListDetailed(ctx context.Context, classID *int64) ([]model.Assignment, error)
	Create(ctx context.Context, a *model.Assignment) error
	BatchCreate(ctx context.Context, items []model.Assignment) error
	DeleteAll(ctx context.Context) error
	DeleteByClassAndSlot(ctx context.Context, classID, timeSlotID int64) error
	FindByTeacherAndSlot(ctx context.Context, teacherID, timeSlotID int64) (*model.Assignment, error)
	FindByRoomAndSlot(ctx context.Context, roomID, timeSlotID int64) (*model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) ListDetailed(ctx context.Context, classID *int64) ([]model.Assignment, error) {
	var items []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("Subject").
		Preload("Teacher").
		Preload("Room")
	if classID != nil {
		db = db.Where("class_id = ?", *classID)
	}
	err := db.Order("class_id ASC, timeslot_id ASC").Find(&items).Error
	return items, err
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if pkgerrors.IsUniqueViolation(err) {
		return pkgerrors.ErrSlotTaken
	}
	return err
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, items []model.Assignment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *assignmentRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Assignment{}).Error
}

func (r *assignmentRepo) DeleteByClassAndSlot(ctx context.Context, classID, timeSlotID int64) error {
	return r.db.WithContext(ctx).
		Where("class_id = ? AND timeslot_id = ?", classID, timeSlotID).
		Delete(&model.Assignment{}).Error
}

func (r *assignmentRepo) FindByTeacherAndSlot(ctx context.Context, teacherID, timeSlotID int64) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND timeslot_id = ?", teacherID, timeSlotID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) FindByRoomAndSlot(ctx context.Context, roomID, timeSlotID int64) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND timeslot_id = ?", roomID, timeSlotID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
