package dto

// ── 班级动态模块 DTO ──

// CreatePostRequest 发布动态请求
type CreatePostRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// PostListRequest 动态列表查询参数
type PostListRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，缺省为 1
func (r *PostListRequest) GetPage() int {
	if r.Page <= 0 {
		return 1
	}
	return r.Page
}

// GetPageSize 每页条数，缺省为 20
func (r *PostListRequest) GetPageSize() int {
	if r.PageSize <= 0 {
		return 20
	}
	return r.PageSize
}

// PostResponse 动态信息响应
type PostResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}
