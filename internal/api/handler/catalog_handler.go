package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"smart-classroom/backend/internal/service"
	"smart-classroom/backend/pkg/response"
)

// CatalogHandler 实体目录 HTTP 处理器（只读）
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListClasses 班级列表
// GET /api/v1/catalog/classes
func (h *CatalogHandler) ListClasses(c *gin.Context) {
	writeList(c, h.catalogSvc.ListClasses)
}

// ListTeachers 教师列表
// GET /api/v1/catalog/teachers
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	writeList(c, h.catalogSvc.ListTeachers)
}

// ListSubjects 科目列表
// GET /api/v1/catalog/subjects
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	writeList(c, h.catalogSvc.ListSubjects)
}

// ListRooms 教室列表
// GET /api/v1/catalog/rooms
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	writeList(c, h.catalogSvc.ListRooms)
}

// ListTimeSlots 时间段列表（按 day, slot 排序）
// GET /api/v1/catalog/timeslots
func (h *CatalogHandler) ListTimeSlots(c *gin.Context) {
	writeList(c, h.catalogSvc.ListTimeSlots)
}

// ListRequirements 课时需求列表
// GET /api/v1/requirements
func (h *CatalogHandler) ListRequirements(c *gin.Context) {
	writeList(c, h.catalogSvc.ListRequirements)
}

// writeList 目录列表统一输出；空列表输出 [] 而不是 null
func writeList[T any](c *gin.Context, list func(context.Context) ([]T, error)) {
	items, err := list(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.OK(c, items)
}
