package client

import (
	"context"
	"sync"
)

// CellKey 单元格坐标
type CellKey struct {
	Day  int
	Slot int
}

// Entry 单元格排课；名称为后端解析结果，可能为空，渲染时以目录为准
type Entry struct {
	SubjectID int64
	TeacherID int64
	RoomID    int64
	Subject   string
	Teacher   string
	Room      string
}

// ScheduleMap 单个班级的课表，缺失的键表示空闲
type ScheduleMap map[CellKey]Entry

// Snapshot Store 当前内容的只读副本
type Snapshot struct {
	ClassID int64
	Entries ScheduleMap
	Loaded  bool
}

// ScheduleStore 当前班级课表；每次加载整体替换，失败时保留上次成功的内容
type ScheduleStore struct {
	gw Gateway

	mu      sync.RWMutex
	classID int64
	entries ScheduleMap
	loaded  bool
}

// NewScheduleStore 创建 ScheduleStore
func NewScheduleStore(gw Gateway) *ScheduleStore {
	return &ScheduleStore{gw: gw}
}

// Load 拉取并替换课表
func (s *ScheduleStore) Load(ctx context.Context, classID int64) (ScheduleMap, error) {
	entries, err := s.Fetch(ctx, classID)
	if err != nil {
		return nil, err
	}
	s.Replace(classID, entries)
	return entries, nil
}

// Fetch 只拉取不写入；由 Session 判断请求是否已被取代后再调用 Replace
func (s *ScheduleStore) Fetch(ctx context.Context, classID int64) (ScheduleMap, error) {
	entries, err := s.gw.GetSchedule(ctx, classID)
	if err != nil {
		return nil, &ScheduleLoadError{ClassID: classID, Err: err}
	}
	if entries == nil {
		entries = ScheduleMap{}
	}
	return entries, nil
}

// Replace 整体替换驻留的课表
func (s *ScheduleStore) Replace(classID int64, entries ScheduleMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classID = classID
	s.entries = entries
	s.loaded = true
}

// Reset 清空驻留内容（无班级时使用）
func (s *ScheduleStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classID = 0
	s.entries = nil
	s.loaded = false
}

// Snapshot 返回当前内容的副本
func (s *ScheduleStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(ScheduleMap, len(s.entries))
	for k, v := range s.entries {
		cp[k] = v
	}
	return Snapshot{ClassID: s.classID, Entries: cp, Loaded: s.loaded}
}
