package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"smart-classroom/backend/internal/model"
	"smart-classroom/backend/internal/repository"
	pkgerrors "smart-classroom/backend/pkg/errors"
	"smart-classroom/backend/pkg/redis"
)

// ── Mock CatalogRepository ──

type mockCatalogRepo struct {
	classes   []model.ClassGroup
	teachers  []model.Teacher
	subjects  []model.Subject
	rooms     []model.Room
	timeslots []model.TimeSlot
	quals     []model.TeacherSubject

	listErr error
	seeded  *repository.SeedData
}

func (m *mockCatalogRepo) ListClasses(_ context.Context) ([]model.ClassGroup, error) {
	return m.classes, m.listErr
}
func (m *mockCatalogRepo) ListTeachers(_ context.Context) ([]model.Teacher, error) {
	return m.teachers, m.listErr
}
func (m *mockCatalogRepo) ListSubjects(_ context.Context) ([]model.Subject, error) {
	return m.subjects, m.listErr
}
func (m *mockCatalogRepo) ListRooms(_ context.Context) ([]model.Room, error) {
	return m.rooms, m.listErr
}
func (m *mockCatalogRepo) ListTimeSlots(_ context.Context) ([]model.TimeSlot, error) {
	return m.timeslots, m.listErr
}
func (m *mockCatalogRepo) ListTeacherSubjects(_ context.Context) ([]model.TeacherSubject, error) {
	return m.quals, m.listErr
}

func (m *mockCatalogRepo) GetClass(_ context.Context, id int64) (*model.ClassGroup, error) {
	for i := range m.classes {
		if m.classes[i].ID == id {
			return &m.classes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCatalogRepo) GetTeacher(_ context.Context, id int64) (*model.Teacher, error) {
	for i := range m.teachers {
		if m.teachers[i].ID == id {
			return &m.teachers[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCatalogRepo) GetSubject(_ context.Context, id int64) (*model.Subject, error) {
	for i := range m.subjects {
		if m.subjects[i].ID == id {
			return &m.subjects[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCatalogRepo) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			return &m.rooms[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCatalogRepo) GetTimeSlotByPosition(_ context.Context, day, slot int) (*model.TimeSlot, error) {
	for i := range m.timeslots {
		if m.timeslots[i].Day == day && m.timeslots[i].Slot == slot {
			return &m.timeslots[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) CountTeachers(_ context.Context) (int64, error) {
	return int64(len(m.teachers)), m.listErr
}

func (m *mockCatalogRepo) Seed(_ context.Context, data *repository.SeedData) error {
	m.seeded = data
	return nil
}

// ── Mock RequirementRepository ──

type mockRequirementRepo struct {
	reqs []model.SubjectRequirement
	err  error
}

func (m *mockRequirementRepo) List(_ context.Context) ([]model.SubjectRequirement, error) {
	return m.reqs, m.err
}

// ── Mock AssignmentRepository ──

// mockAssignmentRepo 内存排课表，模拟 (class_id, timeslot_id) 唯一约束，
// ListDetailed 时从 catalog 回填关联
type mockAssignmentRepo struct {
	catalog *mockCatalogRepo
	items   []model.Assignment
	nextID  int64

	createErr error
	deleteErr error
}

func (m *mockAssignmentRepo) ListDetailed(_ context.Context, classID *int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.items {
		if classID != nil && a.ClassID != *classID {
			continue
		}
		out = append(out, m.attach(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].TimeSlotID < out[j].TimeSlotID
	})
	return out, nil
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, x := range m.items {
		if x.ClassID == a.ClassID && x.TimeSlotID == a.TimeSlotID {
			return pkgerrors.ErrSlotTaken
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.items = append(m.items, *a)
	return nil
}

func (m *mockAssignmentRepo) BatchCreate(ctx context.Context, items []model.Assignment) error {
	for i := range items {
		if err := m.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAssignmentRepo) DeleteAll(_ context.Context) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.items = nil
	return nil
}

func (m *mockAssignmentRepo) DeleteByClassAndSlot(_ context.Context, classID, timeSlotID int64) error {
	kept := m.items[:0]
	for _, a := range m.items {
		if a.ClassID == classID && a.TimeSlotID == timeSlotID {
			continue
		}
		kept = append(kept, a)
	}
	m.items = kept
	return nil
}

func (m *mockAssignmentRepo) FindByTeacherAndSlot(_ context.Context, teacherID, timeSlotID int64) (*model.Assignment, error) {
	for i := range m.items {
		if m.items[i].TeacherID == teacherID && m.items[i].TimeSlotID == timeSlotID {
			return &m.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) FindByRoomAndSlot(_ context.Context, roomID, timeSlotID int64) (*model.Assignment, error) {
	for i := range m.items {
		if m.items[i].RoomID == roomID && m.items[i].TimeSlotID == timeSlotID {
			return &m.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) attach(a model.Assignment) model.Assignment {
	for i := range m.catalog.timeslots {
		if m.catalog.timeslots[i].ID == a.TimeSlotID {
			a.TimeSlot = &m.catalog.timeslots[i]
		}
	}
	a.Subject, _ = m.catalog.GetSubject(context.Background(), a.SubjectID)
	a.Teacher, _ = m.catalog.GetTeacher(context.Background(), a.TeacherID)
	a.Room, _ = m.catalog.GetRoom(context.Background(), a.RoomID)
	return a
}

// ── Mock CatalogCache ──

type mockCatalogCache struct {
	data        map[string][]byte
	getErr      error
	gets        int
	sets        int
	invalidated []string
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{data: make(map[string][]byte)}
}

func (m *mockCatalogCache) GetCatalog(_ context.Context, kind string) ([]byte, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.data[kind]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return b, nil
}

func (m *mockCatalogCache) SetCatalog(_ context.Context, kind string, payload []byte) error {
	m.sets++
	m.data[kind] = payload
	return nil
}

func (m *mockCatalogCache) InvalidateCatalog(_ context.Context, kinds ...string) error {
	m.invalidated = append(m.invalidated, kinds...)
	for _, k := range kinds {
		delete(m.data, k)
	}
	return nil
}

// ── 测试夹具 ──

var errDBDown = errors.New("connection refused")

// fixture 构造与默认种子数据一致的目录：班级 1/2，教师 1-3，科目 1-4，教室 1/2，5×6 时间段
type fixture struct {
	catalog     *mockCatalogRepo
	requirement *mockRequirementRepo
	assignment  *mockAssignmentRepo
	repo        *repository.Repository
}

func newFixture() *fixture {
	seed := DefaultSeedData()

	cat := &mockCatalogRepo{}
	for i, c := range seed.Classes {
		c.ID = int64(i + 1)
		cat.classes = append(cat.classes, c)
	}
	for i, t := range seed.Teachers {
		t.ID = int64(i + 1)
		cat.teachers = append(cat.teachers, t)
	}
	for i, s := range seed.Subjects {
		s.ID = int64(i + 1)
		cat.subjects = append(cat.subjects, s)
	}
	for i, r := range seed.Rooms {
		r.ID = int64(i + 1)
		cat.rooms = append(cat.rooms, r)
	}
	for i, ts := range seed.TimeSlots {
		ts.ID = int64(i + 1)
		cat.timeslots = append(cat.timeslots, ts)
	}
	for i, q := range seed.TeacherSubjects {
		q.ID = int64(i + 1)
		cat.quals = append(cat.quals, q)
	}

	req := &mockRequirementRepo{}
	for i, r := range seed.Requirements {
		r.ID = int64(i + 1)
		req.reqs = append(req.reqs, r)
	}

	asg := &mockAssignmentRepo{catalog: cat}
	return &fixture{
		catalog:     cat,
		requirement: req,
		assignment:  asg,
		repo: &repository.Repository{
			Catalog:     cat,
			Requirement: req,
			Assignment:  asg,
		},
	}
}

// slotID 返回 (day, slot) 对应的时间段 ID
func (f *fixture) slotID(day, slot int) int64 {
	ts, _ := f.catalog.GetTimeSlotByPosition(context.Background(), day, slot)
	return ts.ID
}

func intPtr(v int) *int { return &v }
