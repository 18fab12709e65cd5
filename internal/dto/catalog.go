package dto

// ── 实体目录 DTO ──

// ClassGroupResponse 班级
type ClassGroupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// TeacherResponse 教师
type TeacherResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubjectResponse 科目
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoomResponse 教室
type RoomResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Capacity      int    `json:"capacity"`
	HasProjector  bool   `json:"has_projector"`
	HasSmartBoard bool   `json:"has_smart_board"`
}

// TimeSlotResponse 时间段（day: 0=周一 … 4=周五）
type TimeSlotResponse struct {
	ID    int64  `json:"id"`
	Day   int    `json:"day"`
	Slot  int    `json:"slot"`
	Label string `json:"label"`
}

// RequirementResponse 班级科目课时需求
type RequirementResponse struct {
	ID             int64 `json:"id"`
	ClassID        int64 `json:"class_id"`
	SubjectID      int64 `json:"subject_id"`
	PeriodsPerWeek int   `json:"periods_per_week"`
}
