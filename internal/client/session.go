package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"smart-classroom/backend/internal/dto"
)

// State 会话状态
type State int

const (
	StateUninitialized State = iota
	StateCatalogLoaded
	StateScheduleLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCatalogLoaded:
		return "catalog_loaded"
	case StateScheduleLoaded:
		return "schedule_loaded"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session 会话控制器：持有目录、当前班级、课表与网格，串行化所有状态迁移
//
// 并发规则：
//   - 后端调用在锁外进行，结果回来后按请求序号判断是否仍是最新请求，过期结果直接丢弃
//   - generate / clear / override 互斥，后到者立即返回 ErrMutationInFlight
//   - 启动阶段的加载失败使会话进入 Error（终态）；之后的刷新失败保留旧网格
type Session struct {
	gw     Gateway
	store  *ScheduleStore
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	failure  error
	catalog  *Catalog
	classID  int64
	hasClass bool
	grid     *Grid
	seq      uint64
	mutating bool
	override *OverrideWorkflow
}

// NewSession 创建会话
func NewSession(gw Gateway, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		gw:     gw,
		store:  NewScheduleStore(gw),
		logger: logger,
	}
}

// ── 查询 ──

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err 会话失败原因；仅在 StateError 时非 nil
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

func (s *Session) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// CurrentClass 当前班级；目录为空或未加载时 ok 为 false
func (s *Session) CurrentClass() (id int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classID, s.hasClass
}

// Grid 当前网格；启动前为 nil
func (s *Session) Grid() *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Snapshot Store 的当前内容
func (s *Session) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// ── 启动 ──

// Start 加载目录，选中第一个班级并加载其课表
// 失败时会话进入 Error，之后的操作均返回 ErrSessionFailed
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateError:
		s.mu.Unlock()
		return ErrSessionFailed
	case StateUninitialized:
	default:
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	cat, err := LoadCatalog(ctx, s.gw)
	if err != nil {
		s.fail(err)
		return err
	}

	grid, err := Project(cat.TimeSlots, cat, Snapshot{})
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.catalog = cat
	s.grid = grid
	s.state = StateCatalogLoaded
	if len(cat.Classes) == 0 {
		s.mu.Unlock()
		s.logger.Info("目录中没有班级，网格保持为空")
		return nil
	}
	s.classID, s.hasClass = cat.Classes[0].ID, true
	s.seq++
	seq, classID := s.seq, s.classID
	s.mu.Unlock()

	s.logger.Info("目录加载完成",
		zap.Int("classes", len(cat.Classes)),
		zap.Int("timeslots", len(cat.TimeSlots)),
	)

	if err := s.reload(ctx, classID, seq); err != nil {
		if errors.Is(err, ErrSuperseded) {
			return nil
		}
		s.fail(err)
		return err
	}
	return nil
}

// ── 班级切换 ──

// SelectClass 切换当前班级并加载其课表
// 若在返回前又有更新的选择，本次结果被丢弃并返回 ErrSuperseded
func (s *Session) SelectClass(ctx context.Context, classID int64) error {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.catalog.HasClass(classID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownClass, classID)
	}
	s.classID, s.hasClass = classID, true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	return s.reload(ctx, classID, seq)
}

// Refresh 重新拉取当前班级课表
func (s *Session) Refresh(ctx context.Context) error {
	err := s.reloadCurrent(ctx)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// ── 写操作 ──

// Generate 触发后端全量重新排课，然后重新加载当前班级
// placed < needed 属于正常结果，不视为错误
func (s *Session) Generate(ctx context.Context) (dto.GenerateStats, error) {
	if err := s.beginMutation(); err != nil {
		return dto.GenerateStats{}, err
	}
	defer s.endMutation()

	stats, err := s.gw.Generate(ctx)
	if err != nil {
		s.logger.Warn("自动排课失败", zap.Error(err))
		return dto.GenerateStats{}, fmt.Errorf("自动排课失败: %w", err)
	}
	s.logger.Info("自动排课完成", zap.Int("placed", stats.Placed), zap.Int("needed", stats.Needed))

	if err := s.reloadCurrent(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return stats, err
	}
	return stats, nil
}

// Clear 清空全部班级课表，然后重新加载当前班级
func (s *Session) Clear(ctx context.Context) error {
	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	if err := s.gw.Clear(ctx); err != nil {
		s.logger.Warn("清空课表失败", zap.Error(err))
		return fmt.Errorf("清空课表失败: %w", err)
	}

	if err := s.reloadCurrent(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

// BeginOverride 为当前班级的 (day, slot) 打开覆盖流程
// 已有未提交的流程会被取消；正在提交时返回 ErrOverrideInFlight
func (s *Session) BeginOverride(day, slot int) (*OverrideWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return nil, err
	}
	if !s.hasClass {
		return nil, ErrNoClassSelected
	}
	if s.grid == nil || day < 0 || day >= len(DayNames) || slot < 0 || slot >= len(s.grid.Header) {
		return nil, &ValidationError{Fields: []string{fmt.Sprintf("时间段 (%d,%d) 不存在", day, slot)}}
	}

	if prev := s.override; prev != nil {
		if prev.State() == OverrideSubmitting {
			return nil, ErrOverrideInFlight
		}
		prev.Cancel()
	}

	w := newOverrideWorkflow(s, s.catalog, s.classID, day, slot, s.grid.Header[slot])
	s.override = w
	return w, nil
}

// ── 内部 ──

func (s *Session) readyLocked() error {
	switch s.state {
	case StateError:
		return ErrSessionFailed
	case StateUninitialized:
		return ErrNotStarted
	}
	return nil
}

func (s *Session) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	if s.mutating {
		return ErrMutationInFlight
	}
	s.mutating = true
	return nil
}

func (s *Session) endMutation() {
	s.mu.Lock()
	s.mutating = false
	s.mu.Unlock()
}

func (s *Session) reloadCurrent(ctx context.Context) error {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.hasClass {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq, classID := s.seq, s.classID
	s.mu.Unlock()

	return s.reload(ctx, classID, seq)
}

// reload 拉取课表；只有 seq 仍为最新时才写入 Store 并重新投影
func (s *Session) reload(ctx context.Context, classID int64, seq uint64) error {
	entries, fetchErr := s.store.Fetch(ctx, classID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("丢弃过期的课表响应", zap.Int64("class_id", classID), zap.Uint64("seq", seq))
		return ErrSuperseded
	}
	if fetchErr != nil {
		s.logger.Warn("课表加载失败，保留上次内容", zap.Int64("class_id", classID), zap.Error(fetchErr))
		return fetchErr
	}

	snap := Snapshot{ClassID: classID, Entries: entries, Loaded: true}
	grid, err := Project(s.catalog.TimeSlots, s.catalog, snap)
	if err != nil {
		s.logger.Error("课表投影失败", zap.Int64("class_id", classID), zap.Error(err))
		return err
	}

	s.store.Replace(classID, entries)
	s.grid = grid
	if s.state != StateError {
		s.state = StateScheduleLoaded
	}
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.failure = err
	s.logger.Error("会话启动失败", zap.Error(err))
}
