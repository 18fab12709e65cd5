package client

import (
	"errors"
	"fmt"
	"strings"
)

// ── 客户端错误 ──

var (
	ErrSuperseded       = errors.New("请求已被更新的班级选择取代")
	ErrMutationInFlight = errors.New("另一个课表写操作尚未完成")
	ErrOverrideInFlight = errors.New("覆盖请求正在提交中")
	ErrNoClassSelected  = errors.New("尚未选择班级")
	ErrSessionFailed    = errors.New("会话已失败，需要重新启动")
	ErrWorkflowClosed   = errors.New("覆盖流程已结束")
)

// CatalogLoadError 任一目录加载失败；整体加载作废
type CatalogLoadError struct {
	Collection string
	Err        error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("加载目录 %s 失败: %v", e.Collection, e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

// ScheduleLoadError 课表加载失败；Store 保留上一次成功的内容
type ScheduleLoadError struct {
	ClassID int64
	Err     error
}

func (e *ScheduleLoadError) Error() string {
	return fmt.Sprintf("加载班级 %d 课表失败: %v", e.ClassID, e.Err)
}

func (e *ScheduleLoadError) Unwrap() error { return e.Err }

// IrregularGridError 时间段布局不是矩形，拒绝渲染
type IrregularGridError struct {
	Day      int
	Expected int
	Got      int
	Reason   string
}

func (e *IrregularGridError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("时间段布局不规则: 第 %d 天 %s", e.Day, e.Reason)
	}
	return fmt.Sprintf("时间段布局不规则: 第 %d 天有 %d 节，第 0 天有 %d 节", e.Day, e.Got, e.Expected)
}

// ValidationError 覆盖选择不完整或引用了不存在的实体
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "覆盖选择无效: " + strings.Join(e.Fields, "; ")
}

// OverrideRejected 后端拒绝覆盖（如教师或教室冲突）
type OverrideRejected struct {
	Status int
	Code   int
	Reason string
}

func (e *OverrideRejected) Error() string {
	return "覆盖被拒绝: " + e.Reason
}

// APIError 后端返回的非成功响应
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("后端返回错误 (HTTP %d, code %d): %s", e.Status, e.Code, e.Message)
}

var (
	ErrNotStarted   = errors.New("会话尚未启动")
	ErrUnknownClass = errors.New("班级不存在")
)
