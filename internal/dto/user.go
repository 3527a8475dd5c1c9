package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role     string `form:"role"      binding:"omitempty,oneof=teacher student"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，缺省为 1
func (r *UserListRequest) GetPage() int {
	if r.Page <= 0 {
		return 1
	}
	return r.Page
}

// GetPageSize 每页条数，缺省为 20
func (r *UserListRequest) GetPageSize() int {
	if r.PageSize <= 0 {
		return 20
	}
	return r.PageSize
}
