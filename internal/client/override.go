package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"go.uber.org/zap"

	"smart-classroom/backend/internal/dto"
)

// OverrideState 覆盖流程状态
type OverrideState int

const (
	OverrideCollecting OverrideState = iota
	OverrideSubmitting
	OverrideCommitted
	OverrideCancelled
	OverrideFailed
)

func (s OverrideState) String() string {
	switch s {
	case OverrideCollecting:
		return "collecting"
	case OverrideSubmitting:
		return "submitting"
	case OverrideCommitted:
		return "committed"
	case OverrideCancelled:
		return "cancelled"
	case OverrideFailed:
		return "failed"
	}
	return fmt.Sprintf("override(%d)", int(s))
}

// OverrideSelection 提交时的选择快照
type OverrideSelection struct {
	SubjectID int64 `validate:"required,min=1" label:"科目"`
	TeacherID int64 `validate:"required,min=1" label:"教师"`
	RoomID    int64 `validate:"required,min=1" label:"教室"`
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

// 校验错误使用中文提示，字段名取 label 标签
func init() {
	validate = validator.New()

	_zh := zh.New()
	uni := ut.New(_zh, _zh)
	translator, _ = uni.GetTranslator("zh")
	_ = zh_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("label")
	})
}

// OverrideWorkflow 单个单元格的覆盖流程
// 语义为整体替换：不预填现有排课，提交的三项必须全部给出
type OverrideWorkflow struct {
	session *Session
	catalog *Catalog

	ClassID int64
	Day     int
	Slot    int
	Label   string

	mu      sync.Mutex
	state   OverrideState
	lastErr error
}

func newOverrideWorkflow(s *Session, cat *Catalog, classID int64, day, slot int, label string) *OverrideWorkflow {
	return &OverrideWorkflow{
		session: s,
		catalog: cat,
		ClassID: classID,
		Day:     day,
		Slot:    slot,
		Label:   label,
		state:   OverrideCollecting,
	}
}

// ── 可选项 ──

func (w *OverrideWorkflow) Subjects() []dto.SubjectResponse { return w.catalog.Subjects }
func (w *OverrideWorkflow) Teachers() []dto.TeacherResponse { return w.catalog.Teachers }
func (w *OverrideWorkflow) Rooms() []dto.RoomResponse       { return w.catalog.Rooms }

func (w *OverrideWorkflow) State() OverrideState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err 最近一次失败原因（Failed 状态下为后端拒绝原因）
func (w *OverrideWorkflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// ── 操作 ──

// Submit 校验并提交覆盖
//   - 选择不完整或引用不存在：ValidationError，不访问后端，状态不变
//   - 后端拒绝：进入 Failed，流程保持打开，可修改后重新提交，不重新加载课表
//   - 成功：进入 Committed，并对当前班级重新加载一次课表
func (w *OverrideWorkflow) Submit(ctx context.Context, sel OverrideSelection) error {
	w.mu.Lock()
	switch w.state {
	case OverrideSubmitting:
		w.mu.Unlock()
		return ErrOverrideInFlight
	case OverrideCommitted, OverrideCancelled:
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if err := w.check(sel); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	// 会话锁不能在持有 w.mu 时获取
	if err := w.session.beginMutation(); err != nil {
		return err
	}
	defer w.session.endMutation()

	w.mu.Lock()
	if w.state == OverrideSubmitting {
		w.mu.Unlock()
		return ErrOverrideInFlight
	}
	if w.state == OverrideCommitted || w.state == OverrideCancelled {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	w.state = OverrideSubmitting
	w.mu.Unlock()

	req := OverrideRequest{
		ClassID:   w.ClassID,
		Day:       w.Day,
		Slot:      w.Slot,
		SubjectID: sel.SubjectID,
		TeacherID: sel.TeacherID,
		RoomID:    sel.RoomID,
	}
	if err := w.session.gw.Override(ctx, req); err != nil {
		w.mu.Lock()
		w.state = OverrideFailed
		w.lastErr = err
		w.mu.Unlock()

		var rejected *OverrideRejected
		if errors.As(err, &rejected) {
			w.session.logger.Info("覆盖被后端拒绝",
				zap.Int64("class_id", w.ClassID),
				zap.Int("day", w.Day),
				zap.Int("slot", w.Slot),
				zap.String("reason", rejected.Reason),
			)
		} else {
			w.session.logger.Warn("覆盖请求失败", zap.Error(err))
		}
		return err
	}

	w.mu.Lock()
	w.state = OverrideCommitted
	w.lastErr = nil
	w.mu.Unlock()

	if err := w.session.reloadCurrent(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

// Cancel 在提交前关闭流程；不访问后端
func (w *OverrideWorkflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case OverrideCollecting, OverrideFailed:
		w.state = OverrideCancelled
		return nil
	case OverrideSubmitting:
		return ErrOverrideInFlight
	}
	return ErrWorkflowClosed
}

// check 必填校验与目录引用校验
func (w *OverrideWorkflow) check(sel OverrideSelection) error {
	var fields []string
	if err := validate.Struct(sel); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			fields = append(fields, fe.Translate(translator))
		}
		return &ValidationError{Fields: fields}
	}

	if !w.catalog.HasSubject(sel.SubjectID) {
		fields = append(fields, fmt.Sprintf("科目 %d 不存在", sel.SubjectID))
	}
	if !w.catalog.HasTeacher(sel.TeacherID) {
		fields = append(fields, fmt.Sprintf("教师 %d 不存在", sel.TeacherID))
	}
	if !w.catalog.HasRoom(sel.RoomID) {
		fields = append(fields, fmt.Sprintf("教室 %d 不存在", sel.RoomID))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
