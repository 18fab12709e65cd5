package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// ── 课表模块 DTO ──

// ScheduleQuery 课表查询参数；class_id 为空时返回全部班级
type ScheduleQuery struct {
	ClassID *int64 `form:"class_id" binding:"omitempty,min=1"`
}

// OverrideRequest 手动覆盖单个单元格请求
// day/slot 允许为 0，因此使用指针配合 required
type OverrideRequest struct {
	ClassID   int64 `json:"class_id"   binding:"required,min=1"`
	Day       *int  `json:"day"        binding:"required,min=0,max=4"`
	Slot      *int  `json:"slot"       binding:"required,min=0"`
	SubjectID int64 `json:"subject_id" binding:"required,min=1"`
	TeacherID int64 `json:"teacher_id" binding:"required,min=1"`
	RoomID    int64 `json:"room_id"    binding:"required,min=1"`
}

// ── 响应 ──

// ScheduleEntryResponse 单元格排课（同时给出 ID 与显示名称）
type ScheduleEntryResponse struct {
	AssignmentID int64  `json:"assignment_id"`
	SubjectID    int64  `json:"subject_id"`
	Subject      string `json:"subject"`
	TeacherID    int64  `json:"teacher_id"`
	Teacher      string `json:"teacher"`
	RoomID       int64  `json:"room_id"`
	Room         string `json:"room"`
	Label        string `json:"label"`
}

// ScheduleResponse 课表：班级ID → "day,slot" → 排课
type ScheduleResponse map[string]map[string]ScheduleEntryResponse

// GenerateStats 自动排课统计
type GenerateStats struct {
	Placed int `json:"placed"`
	Needed int `json:"needed"`
}

// GenerateResponse 自动排课响应
type GenerateResponse struct {
	Stats GenerateStats `json:"stats"`
}

// OverrideResponse 覆盖成功响应
type OverrideResponse struct {
	AssignmentID int64 `json:"assignment_id"`
}

// ── 单元格键 ──

// SlotKey 生成 "day,slot" 复合键
func SlotKey(day, slot int) string {
	return strconv.Itoa(day) + "," + strconv.Itoa(slot)
}

// ParseSlotKey 解析 "day,slot" 复合键
func ParseSlotKey(key string) (day, slot int, err error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("非法的单元格键 %q", key)
	}
	if day, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, fmt.Errorf("非法的单元格键 %q: %w", key, err)
	}
	if slot, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, fmt.Errorf("非法的单元格键 %q: %w", key, err)
	}
	return day, slot, nil
}
