package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-classroom/backend/internal/model"
)

// CatalogRepository 实体目录数据访问接口（班级/教师/科目/教室/时间段）
type CatalogRepository interface {
	ListClasses(ctx context.Context) ([]model.ClassGroup, error)
	ListTeachers(ctx context.Context) ([]model.Teacher, error)
	ListSubjects(ctx context.Context) ([]model.Subject, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
	ListTeacherSubjects(ctx context.Context) ([]model.TeacherSubject, error)

	GetClass(ctx context.Context, id int64) (*model.ClassGroup, error)
	GetTeacher(ctx context.Context, id int64) (*model.Teacher, error)
	GetSubject(ctx context.Context, id int64) (*model.Subject, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	GetTimeSlotByPosition(ctx context.Context, day, slot int) (*model.TimeSlot, error)

	CountTeachers(ctx context.Context) (int64, error)
	Seed(ctx context.Context, data *SeedData) error
}

// SeedData 初始化目录数据
// TeacherSubjects / Requirements 中的 ID 为对应切片下标 + 1 的占位，写入时替换为真实主键
type SeedData struct {
	Teachers        []model.Teacher
	Subjects        []model.Subject
	TeacherSubjects []model.TeacherSubject
	Classes         []model.ClassGroup
	Rooms           []model.Room
	TimeSlots       []model.TimeSlot
	Requirements    []model.SubjectRequirement
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo 创建 CatalogRepository 实例
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListClasses(ctx context.Context) ([]model.ClassGroup, error) {
	var classes []model.ClassGroup
	err := r.db.WithContext(ctx).Order("id ASC").Find(&classes).Error
	return classes, err
}

func (r *catalogRepo) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).Order("id ASC").Find(&teachers).Error
	return teachers, err
}

func (r *catalogRepo) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

func (r *catalogRepo) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *catalogRepo) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).Order("day ASC, slot ASC").Find(&slots).Error
	return slots, err
}

func (r *catalogRepo) ListTeacherSubjects(ctx context.Context) ([]model.TeacherSubject, error) {
	var rows []model.TeacherSubject
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) GetClass(ctx context.Context, id int64) (*model.ClassGroup, error) {
	var class model.ClassGroup
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *catalogRepo) GetTeacher(ctx context.Context, id int64) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *catalogRepo) GetSubject(ctx context.Context, id int64) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *catalogRepo) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *catalogRepo) GetTimeSlotByPosition(ctx context.Context, day, slot int) (*model.TimeSlot, error) {
	var ts model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("day = ? AND slot = ?", day, slot).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *catalogRepo) CountTeachers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Teacher{}).Count(&n).Error
	return n, err
}

func (r *catalogRepo) Seed(ctx context.Context, data *SeedData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createAll(tx, data.Teachers); err != nil {
			return err
		}
		if err := createAll(tx, data.Subjects); err != nil {
			return err
		}
		if err := createAll(tx, data.Classes); err != nil {
			return err
		}
		if err := createAll(tx, data.Rooms); err != nil {
			return err
		}
		if err := createAll(tx, data.TimeSlots); err != nil {
			return err
		}

		// 占位 ID（下标 + 1）→ 真实主键
		quals := make([]model.TeacherSubject, 0, len(data.TeacherSubjects))
		for _, q := range data.TeacherSubjects {
			quals = append(quals, model.TeacherSubject{
				TeacherID: data.Teachers[q.TeacherID-1].ID,
				SubjectID: data.Subjects[q.SubjectID-1].ID,
			})
		}
		if err := createAll(tx, quals); err != nil {
			return err
		}

		reqs := make([]model.SubjectRequirement, 0, len(data.Requirements))
		for _, rq := range data.Requirements {
			reqs = append(reqs, model.SubjectRequirement{
				ClassID:        data.Classes[rq.ClassID-1].ID,
				SubjectID:      data.Subjects[rq.SubjectID-1].ID,
				PeriodsPerWeek: rq.PeriodsPerWeek,
			})
		}
		return createAll(tx, reqs)
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
