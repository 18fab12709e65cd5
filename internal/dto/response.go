package dto

// ── 导出模块 ──

// ExportQuery 导出查询参数
type ExportQuery struct {
	ClassID int64 `form:"class_id" binding:"required,min=1"`
}

// SeedResult 种子数据写入结果
type SeedResult struct {
	Seeded bool `json:"seeded"` // 数据库非空时跳过
}
