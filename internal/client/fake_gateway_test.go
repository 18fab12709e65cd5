package client

import (
	"context"
	"errors"
	"sync"

	"smart-classroom/backend/internal/dto"
)

// fakeGateway 内存后端；gates 中存在的班级在 GetSchedule 时阻塞直到 channel 关闭
type fakeGateway struct {
	mu sync.Mutex

	classes   []dto.ClassGroupResponse
	teachers  []dto.TeacherResponse
	subjects  []dto.SubjectResponse
	rooms     []dto.RoomResponse
	timeslots []dto.TimeSlotResponse

	catalogErr  map[string]error
	schedules   map[int64]ScheduleMap
	scheduleErr error

	generateStats dto.GenerateStats
	generated     map[int64]ScheduleMap
	generateErr   error
	overrideErr   error

	gates           map[int64]chan struct{}
	fetchStarted    chan int64
	overrideGate    chan struct{}
	overrideStarted chan struct{}

	scheduleCalls []int64
	overrideCalls []OverrideRequest
	generateCalls int
	clearCalls    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		classes: []dto.ClassGroupResponse{
			{ID: 3, Name: "Grade 8 - C", Size: 28},
			{ID: 4, Name: "Grade 8 - D", Size: 30},
			{ID: 5, Name: "Grade 9 - A", Size: 25},
		},
		teachers: []dto.TeacherResponse{
			{ID: 5, Name: "Anita Sen"},
			{ID: 6, Name: "Rahul Mehta"},
		},
		subjects: []dto.SubjectResponse{
			{ID: 1, Name: "Mathematics"},
			{ID: 2, Name: "Science"},
		},
		rooms: []dto.RoomResponse{
			{ID: 1, Name: "Room 101", Capacity: 30},
			{ID: 2, Name: "Room 102", Capacity: 32},
		},
		timeslots:  rectangularSlots(5, 6),
		catalogErr: map[string]error{},
		schedules:  map[int64]ScheduleMap{},
		gates:      map[int64]chan struct{}{},
	}
}

func rectangularSlots(days, perDay int) []dto.TimeSlotResponse {
	var out []dto.TimeSlotResponse
	id := int64(1)
	for d := 0; d < days; d++ {
		for s := 0; s < perDay; s++ {
			out = append(out, dto.TimeSlotResponse{ID: id, Day: d, Slot: s, Label: labelFor(s)})
			id++
		}
	}
	return out
}

func labelFor(slot int) string {
	labels := []string{"09:00-09:45", "09:50-10:35", "10:40-11:25", "11:35-12:20", "13:10-13:55", "14:00-14:45", "15:00-15:45"}
	return labels[slot%len(labels)]
}

func (f *fakeGateway) ListClasses(ctx context.Context) ([]dto.ClassGroupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classes, f.catalogErr[CollectionClasses]
}

func (f *fakeGateway) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teachers, f.catalogErr[CollectionTeachers]
}

func (f *fakeGateway) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subjects, f.catalogErr[CollectionSubjects]
}

func (f *fakeGateway) ListRooms(ctx context.Context) ([]dto.RoomResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms, f.catalogErr[CollectionRooms]
}

func (f *fakeGateway) ListTimeSlots(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeslots, f.catalogErr[CollectionTimeSlots]
}

func (f *fakeGateway) GetSchedule(ctx context.Context, classID int64) (ScheduleMap, error) {
	f.mu.Lock()
	f.scheduleCalls = append(f.scheduleCalls, classID)
	gate := f.gates[classID]
	started := f.fetchStarted
	f.mu.Unlock()

	if gate != nil {
		if started != nil {
			started <- classID
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	out := ScheduleMap{}
	for k, v := range f.schedules[classID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeGateway) Generate(ctx context.Context) (dto.GenerateStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	if f.generateErr != nil {
		return dto.GenerateStats{}, f.generateErr
	}
	if f.generated != nil {
		f.schedules = f.generated
	}
	return f.generateStats, nil
}

func (f *fakeGateway) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	f.schedules = map[int64]ScheduleMap{}
	return nil
}

func (f *fakeGateway) Override(ctx context.Context, req OverrideRequest) error {
	f.mu.Lock()
	f.overrideCalls = append(f.overrideCalls, req)
	gate, started := f.overrideGate, f.overrideStarted
	f.mu.Unlock()

	if gate != nil {
		if started != nil {
			close(started)
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overrideErr != nil {
		return f.overrideErr
	}
	if f.schedules[req.ClassID] == nil {
		f.schedules[req.ClassID] = ScheduleMap{}
	}
	f.schedules[req.ClassID][CellKey{Day: req.Day, Slot: req.Slot}] = Entry{
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
	}
	return nil
}

func (f *fakeGateway) calls() (schedule []int64, override []OverrideRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.scheduleCalls...), append([]OverrideRequest(nil), f.overrideCalls...)
}

var errBackendDown = errors.New("connection refused")
