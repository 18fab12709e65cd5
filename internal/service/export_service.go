package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-classroom/backend/internal/model"
	"smart-classroom/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportNoTimeSlots  = errors.New("尚未配置时间段")
)

// DayNames 周一至周五
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel：单个 Sheet，行为周一至周五，列为节次（表头取周一的时间段标签），空单元格填 "—"
//   - ICS：每个排课生成一个每周重复的事件，起始周为 weekOf 所在的周一
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportExcel(ctx context.Context, classID int64) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, classID int64, weekOf time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportData 导出所需数据
type exportData struct {
	class  *model.ClassGroup
	slots  []model.TimeSlot
	byCell map[[2]int]model.Assignment // (day, slot) → 排课
}

func (s *exportService) load(ctx context.Context, classID int64) (*exportData, error) {
	class, err := s.repo.Catalog.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Int64("class_id", classID), zap.Error(err))
		return nil, err
	}

	slots, err := s.repo.Catalog.ListTimeSlots(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrExportNoTimeSlots
	}

	items, err := s.repo.Assignment.ListDetailed(ctx, &classID)
	if err != nil {
		s.logger.Error("查询排课失败", zap.Int64("class_id", classID), zap.Error(err))
		return nil, err
	}

	byCell := make(map[[2]int]model.Assignment, len(items))
	for _, a := range items {
		if a.TimeSlot != nil {
			byCell[[2]int{a.TimeSlot.Day, a.TimeSlot.Slot}] = a
		}
	}
	return &exportData{class: class, slots: slots, byCell: byCell}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出班级周课表为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportExcel(ctx context.Context, classID int64) (*bytes.Buffer, string, error) {
	data, err := s.load(ctx, classID)
	if err != nil {
		return nil, "", err
	}

	// 表头取周一（day 0）的时间段
	var header []model.TimeSlot
	for _, ts := range data.slots {
		if ts.Day == 0 {
			header = append(header, ts)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	if len(header) > 0 {
		f.SetColWidth(sheetName, colName(1), colName(len(header)), 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Weekly Grid — %s", data.class.Name))
	f.MergeCell(sheetName, "A1", cell(colName(len(header)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellStyle(sheetName, "A2", cell(colName(len(header)), 2), headerStyle)
	for i, ts := range header {
		f.SetCellValue(sheetName, cell(colName(1+i), 2), ts.Label)
	}

	// 数据行
	for day, name := range DayNames {
		row := 3 + day
		f.SetCellValue(sheetName, cell("A", row), name)
		for i := range header {
			text := "—"
			if a, ok := data.byCell[[2]int{day, i}]; ok {
				text = fmt.Sprintf("%s\n%s • %s", subjectName(&a), teacherName(&a), roomName(&a))
			}
			ref := cell(colName(1+i), row)
			f.SetCellValue(sheetName, ref, text)
			f.SetCellStyle(sheetName, ref, ref, cellStyle)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("timetable_%s.xlsx", fileSafe(data.class.Name)), nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出班级周课表为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, classID int64, weekOf time.Time) (*bytes.Buffer, string, error) {
	data, err := s.load(ctx, classID)
	if err != nil {
		return nil, "", err
	}

	monday := mondayOf(weekOf)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//smart-classroom//timetable//EN")
	cal.SetXWRCalName(data.class.Name)

	for _, ts := range data.slots {
		a, ok := data.byCell[[2]int{ts.Day, ts.Slot}]
		if !ok {
			continue
		}
		start, end, err := parseSlotLabel(ts.Label)
		if err != nil {
			s.logger.Warn("时间段标签无法解析，跳过", zap.String("label", ts.Label))
			continue
		}

		date := monday.AddDate(0, 0, ts.Day)
		evt := cal.AddEvent(fmt.Sprintf("class-%d-assignment-%d@smart-classroom", data.class.ID, a.ID))
		evt.SetSummary(subjectName(&a))
		evt.SetLocation(roomName(&a))
		evt.SetDescription(fmt.Sprintf("%s / %s", teacherName(&a), data.class.Name))
		evt.SetStartAt(date.Add(start))
		evt.SetEndAt(date.Add(end))
		evt.AddRrule("FREQ=WEEKLY")
	}

	buf := bytes.NewBufferString(cal.Serialize())

	return buf, fmt.Sprintf("timetable_%s.ics", fileSafe(data.class.Name)), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func subjectName(a *model.Assignment) string {
	if a.Subject != nil {
		return a.Subject.Name
	}
	return fmt.Sprintf("subject#%d", a.SubjectID)
}

func teacherName(a *model.Assignment) string {
	if a.Teacher != nil {
		return a.Teacher.Name
	}
	return fmt.Sprintf("teacher#%d", a.TeacherID)
}

func roomName(a *model.Assignment) string {
	if a.Room != nil {
		return a.Room.Name
	}
	return fmt.Sprintf("room#%d", a.RoomID)
}

// mondayOf 返回 t 所在周的周一 00:00（UTC）
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseSlotLabel 解析 "09:00-09:45" / "09:00–09:45" 形式的标签，返回相对当天零点的偏移
func parseSlotLabel(label string) (time.Duration, time.Duration, error) {
	normalized := strings.ReplaceAll(label, "–", "-")
	parts := strings.Split(normalized, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("非法的时间段标签 %q", label)
	}
	start, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	toOffset := func(t time.Time) time.Duration {
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}
	if !end.After(start) {
		return 0, 0, fmt.Errorf("时间段标签结束时间早于开始时间 %q", label)
	}
	return toOffset(start), toOffset(end), nil
}

func fileSafe(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
}
