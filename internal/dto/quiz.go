package dto

import "time"

// ── 测验模块 DTO ──

// QuestionInput 题目输入
type QuestionInput struct {
	Text        string   `json:"text"         binding:"required"`
	Options     []string `json:"options"      binding:"required,min=2,dive,required"`
	AnswerIndex *int     `json:"answer_index" binding:"required,gte=0"`
}

// CreateQuizRequest 创建测验请求
type CreateQuizRequest struct {
	Title           string          `json:"title"            binding:"required,min=1,max=200"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,gte=0,lte=600"`
	Questions       []QuestionInput `json:"questions"        binding:"required,min=1,dive"`
}

// UpdateQuizRequest 更新测验请求（乐观锁：version 必填）
type UpdateQuizRequest struct {
	Title           *string         `json:"title"            binding:"omitempty,min=1,max=200"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
	ClearSchedule   bool            `json:"clear_schedule"` // true 时移除定时解锁
	DurationMinutes *int            `json:"duration_minutes" binding:"omitempty,gte=0,lte=600"`
	Questions       []QuestionInput `json:"questions"        binding:"omitempty,min=1,dive"`
	Version         int             `json:"version"          binding:"required,gte=1"`
}

// QuizResponse 测验信息响应（教师视角，含全部字段）
type QuizResponse struct {
	ID              string             `json:"id"`
	CourseID        string             `json:"course_id"`
	Title           string             `json:"title"`
	Status          string             `json:"status"`
	ScheduledAt     *time.Time         `json:"scheduled_at,omitempty"`
	DurationMinutes int                `json:"duration_minutes"`
	QuestionCount   int                `json:"question_count"`
	Version         int                `json:"version"`
	Questions       []QuestionResponse `json:"questions,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

// QuestionResponse 题目响应（教师视角含答案，学生视角不含）
type QuestionResponse struct {
	ID          string   `json:"id"`
	Position    int      `json:"position"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	AnswerIndex *int     `json:"answer_index,omitempty"`
}

// StudentQuizResponse 测验信息响应（学生视角，携带派生状态）
type StudentQuizResponse struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"course_id"`
	Title           string     `json:"title"`
	State           string     `json:"state"` // submitted | locked | disabled | open
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"` // locked 时即解锁时间
	DurationMinutes int        `json:"duration_minutes"`
	QuestionCount   int        `json:"question_count"`
	Score           *int       `json:"score,omitempty"` // 仅 submitted
	Total           *int       `json:"total,omitempty"` // 仅 submitted
}

// ── 答题会话 DTO ──

// StartAttemptResponse 开始答题响应
// 时长为零的测验立即自动交卷：auto_submitted=true 且携带结果
type StartAttemptResponse struct {
	QuizID           string             `json:"quiz_id"`
	RemainingSeconds int                `json:"remaining_seconds"`
	QuestionCount    int                `json:"question_count"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	AutoSubmitted    bool               `json:"auto_submitted"`
	Result           *SubmissionResult  `json:"result,omitempty"`
}

// RecordAnswersRequest 记录作答请求
// answers[i] 为第 i 题所选选项下标，-1 表示未作答
type RecordAnswersRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// AttemptStateResponse 答题会话状态
type AttemptStateResponse struct {
	QuizID           string `json:"quiz_id"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// SubmitAttemptRequest 交卷请求
type SubmitAttemptRequest struct {
	Answers []int `json:"answers" binding:"omitempty"`
}

// SubmissionResult 判分结果
type SubmissionResult struct {
	QuizID      string    `json:"quiz_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// QuizResultsResponse 测验成绩汇总（教师视角）
type QuizResultsResponse struct {
	QuizID      string            `json:"quiz_id"`
	Title       string            `json:"title"`
	Submissions []SubmissionBrief `json:"submissions"`
}

// SubmissionBrief 单条提交摘要
type SubmissionBrief struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}
