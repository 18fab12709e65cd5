package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/service"
	pkgerrors "smart-classroom/backend/pkg/errors"
	"smart-classroom/backend/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GetSchedule 获取课表
// GET /api/v1/schedule?class_id=1
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	var q dto.ScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedule, err := h.scheduleSvc.GetSchedule(c.Request.Context(), q.ClassID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// Generate 重新生成全部课表
// POST /api/v1/schedule/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	result, err := h.scheduleSvc.Generate(c.Request.Context())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Clear 清空全部课表
// POST /api/v1/schedule/clear
func (h *ScheduleHandler) Clear(c *gin.Context) {
	if err := h.scheduleSvc.Clear(c.Request.Context()); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Override 手动覆盖单个单元格
// POST /api/v1/schedule/override
func (h *ScheduleHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Override(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理课表模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimeSlot):
		response.BadRequest(c, 17001, "无效的 day/slot")
	case errors.Is(err, service.ErrClassNotFound):
		response.BadRequest(c, 17002, "班级不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.BadRequest(c, 17003, "科目不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.BadRequest(c, 17004, "教师不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.BadRequest(c, 17005, "教室不存在")
	case errors.Is(err, service.ErrTeacherBusy):
		response.Conflict(c, 17101, "该教师在此时间段已有课程")
	case errors.Is(err, service.ErrRoomBusy):
		response.Conflict(c, 17102, "该教室在此时间段已被占用")
	case errors.Is(err, pkgerrors.ErrSlotTaken):
		response.Conflict(c, 17103, pkgerrors.ErrSlotTaken.Error())
	default:
		response.InternalError(c)
	}
}
