package model

import "time"

// 测验状态（教师控制，与时间无关）
const (
	QuizStatusAvailable = "available"
	QuizStatusInactive  = "inactive"
	QuizStatusClosed    = "closed"
)

// Quiz 测验表 — 对应 quizzes
// status 由教师切换；scheduled_at 设定且在将来时，无论 status 如何都额外
// 阻止学生进入（定时解锁）。
type Quiz struct {
	QuizID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_id"`
	CourseID        string     `gorm:"type:uuid;not null"                             json:"course_id"`
	Title           string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Status          string     `gorm:"type:varchar(20);not null;default:'inactive'"   json:"status"` // available | inactive | closed
	ScheduledAt     *time.Time `gorm:"type:timestamptz"                               json:"scheduled_at,omitempty"`
	DurationMinutes int        `gorm:"not null;default:0"                             json:"duration_minutes"`
	VersionedModel

	// 关联
	Course    *Course        `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID;references:QuizID"     json:"questions,omitempty"`
}

// TableName 指定表名
func (Quiz) TableName() string { return "quizzes" }

// QuizQuestion 测验题目 — 对应 quiz_questions
type QuizQuestion struct {
	QuestionID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	QuizID      string      `gorm:"type:uuid;not null"                             json:"quiz_id"`
	Position    int         `gorm:"not null;default:0"                             json:"position"`
	Text        string      `gorm:"type:text;not null"                             json:"text"`
	Options     StringArray `gorm:"type:text[];not null"                           json:"options"`
	AnswerIndex int         `gorm:"not null"                                       json:"-"` // 不下发给学生
	SoftDeleteModel
}

// TableName 指定表名
func (QuizQuestion) TableName() string { return "quiz_questions" }

// [自证通过] internal/model/quiz.go
