package service

import (
	"errors"
	"testing"

	"classhub/backend/internal/model"
)

// ── ValidateTimeBlock 测试 ──

func TestValidateTimeBlock_Valid(t *testing.T) {
	if err := ValidateTimeBlock(1, "09:00", "10:00"); err != nil {
		t.Fatalf("合法块不应报错: %v", err)
	}
	if err := ValidateTimeBlock(0, "00:00", "23:59"); err != nil {
		t.Fatalf("周日全天块不应报错: %v", err)
	}
}

func TestValidateTimeBlock_InvalidDayOfWeek(t *testing.T) {
	if err := ValidateTimeBlock(7, "09:00", "10:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}
	if err := ValidateTimeBlock(-1, "09:00", "10:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestValidateTimeBlock_InvalidFormat(t *testing.T) {
	if err := ValidateTimeBlock(1, "9:00", "10:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("非零填充时间应报错，实际: %v", err)
	}
	if err := ValidateTimeBlock(1, "09:00", "25:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("非法小时应报错，实际: %v", err)
	}
}

func TestValidateTimeBlock_RejectsNonPaddedHour(t *testing.T) {
	// "9:00"-"9:30" 字典序上 start < end 成立，只有格式门能拦住它；
	// 一旦放行，"9:00" 与任何零填充块的字典序比较都不再是时间比较
	if err := ValidateTimeBlock(1, "9:00", "9:30"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("非零填充时间段应报错，实际: %v", err)
	}
	// 仅结束时间非零填充
	if err := ValidateTimeBlock(1, "09:00", "9:30"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("非零填充结束时间应报错，实际: %v", err)
	}
	// 冒号错位的同长度输入
	if err := ValidateTimeBlock(1, "090:0", "10:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("冒号错位应报错，实际: %v", err)
	}
}

func TestValidateTimeBlock_StartNotBeforeEnd(t *testing.T) {
	// 零长度块非法
	if err := ValidateTimeBlock(1, "09:00", "09:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("start==end 应报错，实际: %v", err)
	}
	if err := ValidateTimeBlock(1, "10:00", "09:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("start>end 应报错，实际: %v", err)
	}
}

// ── BlocksOverlap 测试 ──

func TestBlocksOverlap_DifferentDay(t *testing.T) {
	// 不同星期即使时间相同也不冲突
	if BlocksOverlap(1, "09:00", "10:00", 2, "09:00", "10:00") {
		t.Error("不同星期不应冲突")
	}
}

func TestBlocksOverlap_PartialOverlap(t *testing.T) {
	if !BlocksOverlap(1, "09:00", "10:00", 1, "09:30", "10:30") {
		t.Error("部分重叠应冲突")
	}
}

func TestBlocksOverlap_BackToBack(t *testing.T) {
	// 半开区间语义：边界相接（连堂课）合法
	if BlocksOverlap(1, "09:00", "10:00", 1, "10:00", "11:00") {
		t.Error("边界相接不应冲突")
	}
	if BlocksOverlap(1, "10:00", "11:00", 1, "09:00", "10:00") {
		t.Error("边界相接（反向）不应冲突")
	}
}

func TestBlocksOverlap_Containment(t *testing.T) {
	if !BlocksOverlap(3, "09:00", "12:00", 3, "10:00", "11:00") {
		t.Error("包含关系应冲突")
	}
}

func TestBlocksOverlap_SelfOverlap(t *testing.T) {
	if !BlocksOverlap(1, "09:00", "10:00", 1, "09:00", "10:00") {
		t.Error("完全相同的块应冲突")
	}
}

func TestBlocksOverlap_Symmetry(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd string
	}{
		{"09:00", "10:00", "09:30", "10:30"},
		{"09:00", "10:00", "10:00", "11:00"},
		{"08:00", "12:00", "09:00", "10:00"},
		{"09:00", "10:00", "14:00", "15:00"},
	}
	for _, c := range cases {
		ab := BlocksOverlap(1, c.aStart, c.aEnd, 1, c.bStart, c.bEnd)
		ba := BlocksOverlap(1, c.bStart, c.bEnd, 1, c.aStart, c.aEnd)
		if ab != ba {
			t.Errorf("对称性被破坏: (%s-%s, %s-%s) ab=%v ba=%v",
				c.aStart, c.aEnd, c.bStart, c.bEnd, ab, ba)
		}
	}
}

// ── FindScheduleConflict 测试 ──

func testCourses() []model.Course {
	return []model.Course{
		{
			CourseID: "course-math",
			Name:     "数学",
			Blocks: []model.ScheduleBlock{
				{BlockID: "b1", CourseID: "course-math", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
				{BlockID: "b2", CourseID: "course-math", DayOfWeek: 3, StartTime: "14:00", EndTime: "16:00"},
			},
		},
		{
			CourseID: "course-eng",
			Name:     "英语",
			Blocks: []model.ScheduleBlock{
				{BlockID: "b3", CourseID: "course-eng", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"},
			},
		},
	}
}

func TestFindScheduleConflict_NoConflict(t *testing.T) {
	candidate := BlockCandidate{DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00"}
	conflict := FindScheduleConflict(candidate, "course-new", testCourses(), nil, -1)
	if conflict != nil {
		t.Errorf("不应有冲突，实际: %+v", conflict)
	}
}

func TestFindScheduleConflict_AgainstCommitted(t *testing.T) {
	candidate := BlockCandidate{DayOfWeek: 1, StartTime: "09:30", EndTime: "10:30"}
	conflict := FindScheduleConflict(candidate, "course-new", testCourses(), nil, -1)
	if conflict == nil {
		t.Fatal("应检出与已提交块的冲突")
	}
	if conflict.CourseID != "course-math" {
		t.Errorf("期望首个冲突课程=course-math，实际=%s", conflict.CourseID)
	}
	if conflict.Block == nil || conflict.Block.BlockID != "b1" {
		t.Errorf("期望冲突块=b1，实际=%+v", conflict.Block)
	}
	if conflict.DraftIndex != -1 {
		t.Errorf("已提交块冲突 DraftIndex 应为 -1，实际=%d", conflict.DraftIndex)
	}
}

func TestFindScheduleConflict_BackToBackAccepted(t *testing.T) {
	// 数学 09:00-10:00 与英语 10:00-11:00 之后紧接 11:00 开始
	candidate := BlockCandidate{DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"}
	conflict := FindScheduleConflict(candidate, "course-new", testCourses(), nil, -1)
	if conflict != nil {
		t.Errorf("边界相接不应冲突，实际: %+v", conflict)
	}
}

func TestFindScheduleConflict_OwnerExcluded(t *testing.T) {
	// owner 的已提交块不参与扫描（由 draft 代表）
	candidate := BlockCandidate{DayOfWeek: 3, StartTime: "14:00", EndTime: "15:00"}
	conflict := FindScheduleConflict(candidate, "course-math", testCourses(), nil, -1)
	if conflict != nil {
		t.Errorf("owner 自身的块不应参与扫描，实际: %+v", conflict)
	}
}

func TestFindScheduleConflict_AgainstDraft(t *testing.T) {
	draft := []BlockCandidate{
		{DayOfWeek: 5, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 5, StartTime: "13:00", EndTime: "14:00"},
	}
	candidate := BlockCandidate{DayOfWeek: 5, StartTime: "13:30", EndTime: "14:30"}
	conflict := FindScheduleConflict(candidate, "course-new", nil, draft, -1)
	if conflict == nil {
		t.Fatal("应检出与草稿块的冲突")
	}
	if conflict.DraftIndex != 1 {
		t.Errorf("期望冲突草稿下标=1，实际=%d", conflict.DraftIndex)
	}
	if conflict.DraftBlock == nil || conflict.DraftBlock.StartTime != "13:00" {
		t.Errorf("期望冲突草稿块 13:00-14:00，实际=%+v", conflict.DraftBlock)
	}
}

func TestFindScheduleConflict_EditIndexExcluded(t *testing.T) {
	// 原位编辑：第 0 块从 09:00-10:00 微调为 09:00-10:30，
	// 不排除旧值会误报与自己冲突
	draft := []BlockCandidate{
		{DayOfWeek: 5, StartTime: "09:00", EndTime: "10:00"},
	}
	candidate := BlockCandidate{DayOfWeek: 5, StartTime: "09:00", EndTime: "10:30"}

	if conflict := FindScheduleConflict(candidate, "course-new", nil, draft, 0); conflict != nil {
		t.Errorf("editIndex 指向的块不应参与扫描，实际: %+v", conflict)
	}
	if conflict := FindScheduleConflict(candidate, "course-new", nil, draft, -1); conflict == nil {
		t.Error("不排除旧值时应检出冲突")
	}
}

func TestFindScheduleConflict_CommittedBeforeDraft(t *testing.T) {
	// 候选同时与已提交块和草稿块冲突时，先报已提交块
	draft := []BlockCandidate{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
	}
	candidate := BlockCandidate{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"}
	conflict := FindScheduleConflict(candidate, "course-new", testCourses(), draft, -1)
	if conflict == nil {
		t.Fatal("应检出冲突")
	}
	if conflict.Block == nil {
		t.Errorf("应先报已提交块冲突，实际: %+v", conflict)
	}
}

// ── DayLabel 测试 ──

func TestDayLabel(t *testing.T) {
	if got := DayLabel(0); got != "周日" {
		t.Errorf("期望 DayLabel(0)=周日，实际=%s", got)
	}
	if got := DayLabel(6); got != "周六" {
		t.Errorf("期望 DayLabel(6)=周六，实际=%s", got)
	}
	if got := DayLabel(7); got != "" {
		t.Errorf("越界应返回空串，实际=%s", got)
	}
}

// [自证通过] internal/service/schedule_conflict_test.go
