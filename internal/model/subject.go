package model

// Subject 科目 — 对应 subjects
type Subject struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// SubjectRequirement 班级每周课时需求 — 对应 subject_requirements
type SubjectRequirement struct {
	ID             int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID        int64 `gorm:"not null"                 json:"class_id"`
	SubjectID      int64 `gorm:"not null"                 json:"subject_id"`
	PeriodsPerWeek int   `gorm:"not null"                 json:"periods_per_week"`
}

// TableName 指定表名
func (SubjectRequirement) TableName() string { return "subject_requirements" }
