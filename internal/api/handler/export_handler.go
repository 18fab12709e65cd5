package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/service"
	"smart-classroom/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	now       func() time.Time
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, now: time.Now}
}

// ExportExcel 导出班级周课表（Excel）
// GET /api/v1/export/schedule.xlsx?class_id=1
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), q.ClassID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeXLSX, buf)
}

// ExportICS 导出班级周课表（iCalendar，每周重复）
// GET /api/v1/export/schedule.ics?class_id=1
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), q.ClassID, h.now())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeICS, buf)
}

func writeAttachment(c *gin.Context, filename, contentType string, buf *bytes.Buffer) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 16101, "班级不存在")
	case errors.Is(err, service.ErrExportNoTimeSlots):
		response.BadRequest(c, 16102, "尚未配置时间段")
	default:
		response.InternalError(c)
	}
}
