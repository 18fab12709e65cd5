package model

// ClassGroup 班级（共享同一张周课表的学生分组）— 对应 class_groups
type ClassGroup struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Size int    `gorm:"not null;default:30"                  json:"size"`
	BaseModel
}

// TableName 指定表名
func (ClassGroup) TableName() string { return "class_groups" }
