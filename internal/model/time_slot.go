package model

// TimeSlot 时间段 — 对应 timeslots
// Day 取值 0-4（周一至周五），Slot 为当天内从 0 开始的节次
type TimeSlot struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"    json:"id"`
	Day   int    `gorm:"type:smallint;not null"      json:"day"`
	Slot  int    `gorm:"type:smallint;not null"      json:"slot"`
	Label string `gorm:"type:varchar(50);not null"   json:"label"`
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "timeslots" }
