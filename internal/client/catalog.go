package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"smart-classroom/backend/internal/dto"
)

// 目录名称，用于 CatalogLoadError
const (
	CollectionClasses   = "classes"
	CollectionTeachers  = "teachers"
	CollectionSubjects  = "subjects"
	CollectionRooms     = "rooms"
	CollectionTimeSlots = "timeslots"
)

// Catalog 会话内只读的实体目录
type Catalog struct {
	Classes   []dto.ClassGroupResponse
	Teachers  []dto.TeacherResponse
	Subjects  []dto.SubjectResponse
	Rooms     []dto.RoomResponse
	TimeSlots []dto.TimeSlotResponse

	classes  map[int64]string
	teachers map[int64]string
	subjects map[int64]string
	rooms    map[int64]string
}

// LoadCatalog 并行加载五个目录；任一失败则整体失败，不返回部分结果
func LoadCatalog(ctx context.Context, gw Gateway) (*Catalog, error) {
	var (
		classes   []dto.ClassGroupResponse
		teachers  []dto.TeacherResponse
		subjects  []dto.SubjectResponse
		rooms     []dto.RoomResponse
		timeslots []dto.TimeSlotResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = gw.ListClasses(gctx)
		return wrapCatalog(CollectionClasses, err)
	})
	g.Go(func() (err error) {
		teachers, err = gw.ListTeachers(gctx)
		return wrapCatalog(CollectionTeachers, err)
	})
	g.Go(func() (err error) {
		subjects, err = gw.ListSubjects(gctx)
		return wrapCatalog(CollectionSubjects, err)
	})
	g.Go(func() (err error) {
		rooms, err = gw.ListRooms(gctx)
		return wrapCatalog(CollectionRooms, err)
	})
	g.Go(func() (err error) {
		timeslots, err = gw.ListTimeSlots(gctx)
		return wrapCatalog(CollectionTimeSlots, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewCatalog(classes, teachers, subjects, rooms, timeslots), nil
}

func wrapCatalog(collection string, err error) error {
	if err == nil {
		return nil
	}
	return &CatalogLoadError{Collection: collection, Err: err}
}

// NewCatalog 由已加载的集合构建目录并建立 ID → 名称索引
func NewCatalog(
	classes []dto.ClassGroupResponse,
	teachers []dto.TeacherResponse,
	subjects []dto.SubjectResponse,
	rooms []dto.RoomResponse,
	timeslots []dto.TimeSlotResponse,
) *Catalog {
	c := &Catalog{
		Classes:   classes,
		Teachers:  teachers,
		Subjects:  subjects,
		Rooms:     rooms,
		TimeSlots: timeslots,
		classes:   make(map[int64]string, len(classes)),
		teachers:  make(map[int64]string, len(teachers)),
		subjects:  make(map[int64]string, len(subjects)),
		rooms:     make(map[int64]string, len(rooms)),
	}
	for _, x := range classes {
		c.classes[x.ID] = x.Name
	}
	for _, x := range teachers {
		c.teachers[x.ID] = x.Name
	}
	for _, x := range subjects {
		c.subjects[x.ID] = x.Name
	}
	for _, x := range rooms {
		c.rooms[x.ID] = x.Name
	}
	return c
}

func (c *Catalog) HasClass(id int64) bool   { _, ok := c.classes[id]; return ok }
func (c *Catalog) HasTeacher(id int64) bool { _, ok := c.teachers[id]; return ok }
func (c *Catalog) HasSubject(id int64) bool { _, ok := c.subjects[id]; return ok }
func (c *Catalog) HasRoom(id int64) bool    { _, ok := c.rooms[id]; return ok }

func (c *Catalog) ClassName(id int64) string   { return c.classes[id] }
func (c *Catalog) TeacherName(id int64) string { return c.teachers[id] }
func (c *Catalog) SubjectName(id int64) string { return c.subjects[id] }
func (c *Catalog) RoomName(id int64) string    { return c.rooms[id] }
