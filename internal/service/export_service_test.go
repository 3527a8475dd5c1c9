package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"classhub/backend/internal/model"
)

func setupTestExportService() (ExportService, *testMocks) {
	repo, mocks := newTestMocks()
	svc := NewExportService(repo, zap.NewNop())
	return svc, mocks
}

// ── ExportQuizResults 测试 ──

func TestExportService_QuizResults_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedCourse(mocks, "course-1", "数学", "teacher-1")
	seedQuiz(mocks, "quiz-1", "course-1", model.QuizStatusClosed, nil, 10)
	mocks.users.users["stu-1"] = &model.User{UserID: "stu-1", Name: "张三"}
	mocks.quizSubs.Create(context.Background(), &model.QuizSubmission{
		QuizID: "quiz-1", UserID: "stu-1", Score: 1, Total: 2, SubmittedAt: time.Now(),
	})

	buf, filename, err := svc.ExportQuizResults(context.Background(), "quiz-1", "teacher-1")
	if err != nil {
		t.Fatalf("ExportQuizResults 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}
}

func TestExportService_QuizResults_NoSubmissions(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedCourse(mocks, "course-1", "数学", "teacher-1")
	seedQuiz(mocks, "quiz-1", "course-1", model.QuizStatusClosed, nil, 10)

	if _, _, err := svc.ExportQuizResults(context.Background(), "quiz-1", "teacher-1"); !errors.Is(err, ErrExportNoSubmissions) {
		t.Errorf("期望 ErrExportNoSubmissions，实际: %v", err)
	}
}

func TestExportService_QuizResults_NotOwner(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedCourse(mocks, "course-1", "数学", "teacher-1")
	seedQuiz(mocks, "quiz-1", "course-1", model.QuizStatusClosed, nil, 10)

	if _, _, err := svc.ExportQuizResults(context.Background(), "quiz-1", "teacher-2"); !errors.Is(err, ErrCourseNotOwner) {
		t.Errorf("期望 ErrCourseNotOwner，实际: %v", err)
	}
}

// ── ExportCourseSchedule 测试 ──

func TestExportService_CourseSchedule_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedCourse(mocks, "course-1", "高等数学", "teacher-1")
	seedBlock(mocks, "b1", "course-1", 1, "09:00", "10:00")
	seedBlock(mocks, "b2", "course-1", 3, "14:00", "16:00")

	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC) // 周一
	buf, filename, err := svc.ExportCourseSchedule(context.Background(), "course-1", now)
	if err != nil {
		t.Fatalf("ExportCourseSchedule 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar 格式")
	}
	if strings.Count(content, "BEGIN:VEVENT") != 2 {
		t.Errorf("期望 2 个事件，实际=%d", strings.Count(content, "BEGIN:VEVENT"))
	}
	if !strings.Contains(content, "FREQ=WEEKLY;BYDAY=MO") {
		t.Error("周一块应有 BYDAY=MO 的周重复规则")
	}
	if !strings.Contains(content, "FREQ=WEEKLY;BYDAY=WE") {
		t.Error("周三块应有 BYDAY=WE 的周重复规则")
	}
	if !strings.Contains(content, "高等数学") {
		t.Error("事件摘要应含课程名")
	}
}

func TestExportService_CourseSchedule_NoBlocks(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedCourse(mocks, "course-1", "数学", "teacher-1")

	if _, _, err := svc.ExportCourseSchedule(context.Background(), "course-1", time.Now()); !errors.Is(err, ErrExportNoBlocks) {
		t.Errorf("期望 ErrExportNoBlocks，实际: %v", err)
	}
}

func TestExportService_FirstOccurrence(t *testing.T) {
	// 2026-03-09 是周一
	monday := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// 当天的块：同日
	got, err := firstOccurrence(monday, 1, "09:00")
	if err != nil {
		t.Fatalf("firstOccurrence 应成功: %v", err)
	}
	want := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}

	// 周日的块：+6 天
	got, _ = firstOccurrence(monday, 0, "10:00")
	want = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

// [自证通过] internal/service/export_service_test.go
