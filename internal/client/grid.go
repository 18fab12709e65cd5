package client

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	"smart-classroom/backend/internal/dto"
)

// DayNames 周一至周五
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// CellState 单元格状态
type CellState int

const (
	CellFree CellState = iota
	CellAssigned
)

// Cell 网格中的一个单元格
type Cell struct {
	Day   int
	Slot  int
	Label string
	State CellState

	SubjectID int64
	TeacherID int64
	RoomID    int64
	Subject   string
	Teacher   string
	Room      string
	Color     string
}

// Grid 渲染用的二维表：表头为第 0 天的时间段标签，每天一行
// Loaded 为 false 表示课表尚未加载，此时 Rows 为空，与「全部空闲」不同
type Grid struct {
	ClassID   int64
	ClassName string
	Loaded    bool
	Header    []string
	Rows      [][]Cell
}

// Populated 已排课的单元格数量
func (g *Grid) Populated() int {
	n := 0
	for _, row := range g.Rows {
		for _, c := range row {
			if c.State == CellAssigned {
				n++
			}
		}
	}
	return n
}

// Project 由时间段目录与课表快照生成网格；纯函数
// 时间段布局必须是矩形（每天节数与第 0 天相同，且从 0 连续），否则返回 IrregularGridError
func Project(timeslots []dto.TimeSlotResponse, cat *Catalog, snap Snapshot) (*Grid, error) {
	labels, err := layout(timeslots)
	if err != nil {
		return nil, err
	}

	g := &Grid{Header: labels[0]}
	if !snap.Loaded {
		return g, nil
	}

	g.ClassID = snap.ClassID
	g.Loaded = true
	if cat != nil {
		g.ClassName = cat.ClassName(snap.ClassID)
	}

	perDay := len(labels[0])
	for key := range snap.Entries {
		if key.Day < 0 || key.Day >= len(DayNames) || key.Slot < 0 || key.Slot >= perDay {
			return nil, &IrregularGridError{
				Day:    key.Day,
				Reason: fmt.Sprintf("排课位于不存在的时间段 (%d,%d)", key.Day, key.Slot),
			}
		}
	}

	g.Rows = make([][]Cell, len(DayNames))
	for day := range DayNames {
		row := make([]Cell, perDay)
		for slot := 0; slot < perDay; slot++ {
			c := Cell{Day: day, Slot: slot, Label: labels[day][slot], State: CellFree}
			if e, ok := snap.Entries[CellKey{Day: day, Slot: slot}]; ok {
				c.State = CellAssigned
				c.SubjectID, c.TeacherID, c.RoomID = e.SubjectID, e.TeacherID, e.RoomID
				c.Subject = resolveName(cat.subjectName, e.SubjectID, e.Subject, "subject")
				c.Teacher = resolveName(cat.teacherName, e.TeacherID, e.Teacher, "teacher")
				c.Room = resolveName(cat.roomName, e.RoomID, e.Room, "room")
				c.Color = SubjectColor(c.Subject)
			}
			row[slot] = c
		}
		g.Rows[day] = row
	}
	return g, nil
}

// layout 校验矩形布局，返回每天按 slot 排序的标签
func layout(timeslots []dto.TimeSlotResponse) ([][]string, error) {
	byDay := make([]map[int]string, len(DayNames))
	for i := range byDay {
		byDay[i] = make(map[int]string)
	}
	for _, ts := range timeslots {
		if ts.Day < 0 || ts.Day >= len(DayNames) {
			return nil, &IrregularGridError{Day: ts.Day, Reason: "不在周一至周五范围内"}
		}
		if _, dup := byDay[ts.Day][ts.Slot]; dup {
			return nil, &IrregularGridError{Day: ts.Day, Reason: fmt.Sprintf("第 %d 节重复", ts.Slot)}
		}
		byDay[ts.Day][ts.Slot] = ts.Label
	}

	expected := len(byDay[0])
	labels := make([][]string, len(DayNames))
	for day, slots := range byDay {
		if len(slots) != expected {
			return nil, &IrregularGridError{Day: day, Expected: expected, Got: len(slots)}
		}
		labels[day] = make([]string, expected)
		for slot := 0; slot < expected; slot++ {
			label, ok := slots[slot]
			if !ok {
				return nil, &IrregularGridError{Day: day, Reason: fmt.Sprintf("节次不连续，缺少第 %d 节", slot)}
			}
			labels[day][slot] = label
		}
	}
	return labels, nil
}

// 名称解析：目录优先，其次后端返回的名称，最后回退为 "kind#id"
func resolveName(lookup func(int64) string, id int64, fallback, kind string) string {
	if lookup != nil {
		if name := lookup(id); name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return kind + "#" + strconv.FormatInt(id, 10)
}

func (c *Catalog) subjectName(id int64) string {
	if c == nil {
		return ""
	}
	return c.SubjectName(id)
}

func (c *Catalog) teacherName(id int64) string {
	if c == nil {
		return ""
	}
	return c.TeacherName(id)
}

func (c *Catalog) roomName(id int64) string {
	if c == nil {
		return ""
	}
	return c.RoomName(id)
}

// SubjectColor 由科目名称确定的浅色 hsl 颜色
// 按 UTF-16 码元计算 hash*31+c，移位前截断为 32 位，与网页端结果一致
func SubjectColor(name string) string {
	var hash int64
	for _, c := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(hash) << 5)
		hash = int64(c) + shifted - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return fmt.Sprintf("hsl(%d, 70%%, 90%%)", hash%360)
}
