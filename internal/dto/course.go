package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name    string `json:"name"    binding:"required,min=1,max=100"`
	Subject string `json:"subject" binding:"omitempty,max=100"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=100"`
	Subject *string `json:"subject" binding:"omitempty,max=100"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Subject   string                  `json:"subject,omitempty"`
	TeacherID string                  `json:"teacher_id"`
	Teacher   *UserResponse           `json:"teacher,omitempty"`
	Blocks    []ScheduleBlockResponse `json:"blocks"`
	CreatedAt string                  `json:"created_at"`
}

// ── 周课程块 DTO ──

// TimeBlockInput 候选课程块（创建/编辑/试探共用）
// day_of_week: 0=周日 … 6=周六；时间为零填充 "HH:MM"
// （len=5 与 datetime 叠加：datetime 沿用 time.Parse，单独使用会放过 "9:00"）
type TimeBlockInput struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,gte=0,lte=6"`
	StartTime string `json:"start_time"  binding:"required,len=5,datetime=15:04"`
	EndTime   string `json:"end_time"    binding:"required,len=5,datetime=15:04"`
	Room      string `json:"room"        binding:"omitempty,max=100"`
}

// ProposeBlockRequest 课程块试探请求（纯决策，不写库）
// draft_blocks 为编辑器中尚未提交的块列表；edit_index 指向正在原位编辑的
// 草稿下标（排除其旧值参与自重叠扫描），-1 或缺省表示新增。
type ProposeBlockRequest struct {
	Candidate   TimeBlockInput   `json:"candidate"    binding:"required"`
	DraftBlocks []TimeBlockInput `json:"draft_blocks" binding:"omitempty,dive"`
	EditIndex   *int             `json:"edit_index"   binding:"omitempty,gte=0"`
}

// ProposeBlockResponse 试探结果
type ProposeBlockResponse struct {
	Accepted bool              `json:"accepted"`
	Conflict *ConflictResponse `json:"conflict,omitempty"`
}

// ConflictResponse 冲突详情（用于人类可读提示）
type ConflictResponse struct {
	CourseID   string                 `json:"course_id,omitempty"`
	CourseName string                 `json:"course_name,omitempty"`
	Block      *ScheduleBlockResponse `json:"block,omitempty"`
	Draft      bool                   `json:"draft"` // 冲突对象是否为草稿块
}

// UpdateBlockRequest 原位编辑课程块请求
type UpdateBlockRequest struct {
	Candidate TimeBlockInput `json:"candidate" binding:"required"`
}

// ScheduleBlockResponse 课程块响应
type ScheduleBlockResponse struct {
	ID        string `json:"id,omitempty"`
	DayOfWeek int    `json:"day_of_week"`
	DayLabel  string `json:"day_label"` // 展示用派生字段，绝不参与比较
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room,omitempty"`
}
