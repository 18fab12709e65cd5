package model

// Room 教室 — 对应 rooms
type Room struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name          string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Capacity      int    `gorm:"not null;default:30"                  json:"capacity"`
	HasProjector  bool   `gorm:"not null;default:false"               json:"has_projector"`
	HasSmartBoard bool   `gorm:"not null;default:false"               json:"has_smart_board"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
