package service

import (
	"math/rand"
	"sort"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/internal/model"
)

// SolverInput 自动排课所需的全部目录数据
type SolverInput struct {
	Classes        []model.ClassGroup
	Rooms          []model.Room
	TimeSlots      []model.TimeSlot
	Qualifications []model.TeacherSubject
	Requirements   []model.SubjectRequirement
}

// Solver 贪心排课器
//
// 规则：
//   - 按课时需求展开为单节课，使用固定种子打乱，保证同一输入结果可复现
//   - 按 (day, slot) 顺序遍历时间段，每个时间段为每个班级尝试排一节
//   - 优先选择当天已排次数最少的科目，使一天内科目分布更均匀
//   - 教师须具备该科目资格且该时段空闲；教室按容量从小到大选第一个能容纳班级且空闲的
//   - 排不下的课时不重试，只体现在 placed < needed 中
type Solver struct {
	seed int64
}

// NewSolver 创建排课器
func NewSolver(seed int64) *Solver {
	return &Solver{seed: seed}
}

type busyKey struct {
	id     int64
	slotID int64
}

type dayCountKey struct {
	classID   int64
	day       int
	subjectID int64
}

// Solve 计算完整课表；不访问数据库，返回待写入的排课记录与统计
func (s *Solver) Solve(in *SolverInput) ([]model.Assignment, dto.GenerateStats) {
	rng := rand.New(rand.NewSource(s.seed))

	// 科目 → 有资格的教师
	qual := make(map[int64][]int64)
	for _, q := range in.Qualifications {
		qual[q.SubjectID] = append(qual[q.SubjectID], q.TeacherID)
	}

	// 展开课时并打乱
	type period struct {
		classID   int64
		subjectID int64
	}
	var expanded []period
	for _, r := range in.Requirements {
		for i := 0; i < r.PeriodsPerWeek; i++ {
			expanded = append(expanded, period{classID: r.ClassID, subjectID: r.SubjectID})
		}
	}
	rng.Shuffle(len(expanded), func(i, j int) { expanded[i], expanded[j] = expanded[j], expanded[i] })

	pending := make(map[int64][]int64) // classID → 待排科目（含重复）
	for _, p := range expanded {
		pending[p.classID] = append(pending[p.classID], p.subjectID)
	}

	classes := append([]model.ClassGroup(nil), in.Classes...)
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })

	rooms := append([]model.Room(nil), in.Rooms...)
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Capacity != rooms[j].Capacity {
			return rooms[i].Capacity < rooms[j].Capacity
		}
		return rooms[i].ID < rooms[j].ID
	})

	slots := append([]model.TimeSlot(nil), in.TimeSlots...)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Slot < slots[j].Slot
	})

	teacherBusy := make(map[busyKey]bool)
	roomBusy := make(map[busyKey]bool)
	dayCount := make(map[dayCountKey]int)

	var result []model.Assignment
	for _, ts := range slots {
		for _, class := range classes {
			remaining := pending[class.ID]
			if len(remaining) == 0 {
				continue
			}

			candidates := uniqueInOrder(remaining)
			sort.SliceStable(candidates, func(i, j int) bool {
				return dayCount[dayCountKey{class.ID, ts.Day, candidates[i]}] <
					dayCount[dayCountKey{class.ID, ts.Day, candidates[j]}]
			})

			placed := false
			for _, subjectID := range candidates {
				teachers := append([]int64(nil), qual[subjectID]...)
				rng.Shuffle(len(teachers), func(i, j int) { teachers[i], teachers[j] = teachers[j], teachers[i] })

				for _, teacherID := range teachers {
					if teacherBusy[busyKey{teacherID, ts.ID}] {
						continue
					}
					room, ok := firstFreeRoom(rooms, roomBusy, class.Size, ts.ID)
					if !ok {
						continue
					}

					result = append(result, model.Assignment{
						ClassID:    class.ID,
						TimeSlotID: ts.ID,
						SubjectID:  subjectID,
						TeacherID:  teacherID,
						RoomID:     room.ID,
					})
					teacherBusy[busyKey{teacherID, ts.ID}] = true
					roomBusy[busyKey{room.ID, ts.ID}] = true
					dayCount[dayCountKey{class.ID, ts.Day, subjectID}]++
					pending[class.ID] = removeFirst(remaining, subjectID)
					placed = true
					break
				}
				if placed {
					break
				}
			}
		}
	}

	return result, dto.GenerateStats{Placed: len(result), Needed: len(expanded)}
}

func firstFreeRoom(rooms []model.Room, busy map[busyKey]bool, classSize int, slotID int64) (model.Room, bool) {
	for _, r := range rooms {
		if r.Capacity < classSize {
			continue
		}
		if busy[busyKey{r.ID, slotID}] {
			continue
		}
		return r, true
	}
	return model.Room{}, false
}

func uniqueInOrder(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func removeFirst(ids []int64, target int64) []int64 {
	for i, id := range ids {
		if id == target {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
