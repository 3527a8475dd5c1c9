package dto

import "time"

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
type CreateAssignmentRequest struct {
	Title       string     `json:"title"       binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateAssignmentRequest 更新作业请求
type UpdateAssignmentRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"` // true 时移除截止时间
}

// SubmitAssignmentRequest 提交作业请求
type SubmitAssignmentRequest struct {
	Content string `json:"content" binding:"omitempty"`
}

// AssignmentResponse 作业信息响应（学生视角携带派生逾期天数）
type AssignmentResponse struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"` // pending | submitted
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	OverdueDays int        `json:"overdue_days"`
	CreatedAt   string     `json:"created_at"`
}

// AssignmentSubmissionResponse 作业提交响应
type AssignmentSubmissionResponse struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	Content      string    `json:"content,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	OverdueDays  int       `json:"overdue_days"`
}
