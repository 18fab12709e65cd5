package model

// Teacher 教师 — 对应 teachers
type Teacher struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	BaseModel

	// 关联
	Subjects []TeacherSubject `gorm:"foreignKey:TeacherID" json:"-"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// TeacherSubject 教师可授科目 — 对应 teacher_subjects
type TeacherSubject struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TeacherID int64 `gorm:"not null"                 json:"teacher_id"`
	SubjectID int64 `gorm:"not null"                 json:"subject_id"`
}

// TableName 指定表名
func (TeacherSubject) TableName() string { return "teacher_subjects" }
