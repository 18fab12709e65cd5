package model

import "time"

// Assignment 排课记录：某班级在某时间段的（科目，教师，教室）— 对应 assignments
// (class_id, timeslot_id) 唯一
type Assignment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"           json:"id"`
	ClassID    int64     `gorm:"not null"                           json:"class_id"`
	TimeSlotID int64     `gorm:"column:timeslot_id;not null"        json:"timeslot_id"`
	SubjectID  int64     `gorm:"not null"                           json:"subject_id"`
	TeacherID  int64     `gorm:"not null"                           json:"teacher_id"`
	RoomID     int64     `gorm:"not null"                           json:"room_id"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`

	// 关联
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
	Subject  *Subject  `gorm:"foreignKey:SubjectID"  json:"subject,omitempty"`
	Teacher  *Teacher  `gorm:"foreignKey:TeacherID"  json:"teacher,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID"     json:"room,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }
