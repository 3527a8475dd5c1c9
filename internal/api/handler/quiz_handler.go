package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"classhub/backend/internal/dto"
	"classhub/backend/internal/service"
	"classhub/backend/pkg/apperrors"
	"classhub/backend/pkg/response"
)

// QuizHandler 测验与答题会话模块 HTTP 处理器
type QuizHandler struct {
	quizSvc service.QuizService
}

// NewQuizHandler 创建 QuizHandler
func NewQuizHandler(quizSvc service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// CreateQuiz 创建测验（教师，初始 inactive）
// POST /api/v1/courses/:id/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	quiz, err := h.quizSvc.Create(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.Created(c, quiz)
}

// GetQuiz 查询测验详情（教师视角，含答案）
// GET /api/v1/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizSvc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, quiz)
}

// UpdateQuiz 更新测验（乐观锁，version 必填）
// PUT /api/v1/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	quiz, err := h.quizSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, quiz)
}

// ToggleQuiz 开关测验（available⇄inactive）
// POST /api/v1/quizzes/:id/toggle
func (h *QuizHandler) ToggleQuiz(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizSvc.Toggle(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, quiz)
}

// CloseQuiz 终态关闭测验
// POST /api/v1/quizzes/:id/close
func (h *QuizHandler) CloseQuiz(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizSvc.Close(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, quiz)
}

// ListQuizzes 课程测验列表：教师看全量原始状态，学生看派生状态（hidden 整体过滤）
// GET /api/v1/courses/:id/quizzes
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if role == "teacher" {
		quizzes, err := h.quizSvc.ListForTeacher(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			h.handleQuizError(c, err)
			return
		}
		response.OK(c, quizzes)
		return
	}

	quizzes, err := h.quizSvc.ListForStudent(c.Request.Context(), c.Param("id"), userID, time.Now())
	if err != nil {
		h.handleQuizError(c, err)
		return
	}
	response.OK(c, quizzes)
}

// QuizResults 测验成绩汇总（教师本人）
// GET /api/v1/quizzes/:id/results
func (h *QuizHandler) QuizResults(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	results, err := h.quizSvc.Results(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, results)
}

// ── 答题会话 ──

// StartAttempt 开始答题（仅 open 状态；时长为零立即自动交卷）
// POST /api/v1/quizzes/:id/attempt
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.quizSvc.StartAttempt(c.Request.Context(), c.Param("id"), userID, time.Now())
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.Created(c, result)
}

// GetAttempt 查询当前答题会话剩余时间
// GET /api/v1/quizzes/:id/attempt
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	state, err := h.quizSvc.GetAttempt(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, state)
}

// RecordAnswers 记录作答进度（倒计时到期强制交卷时使用）
// PUT /api/v1/quizzes/:id/attempt/answers
func (h *QuizHandler) RecordAnswers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecordAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.quizSvc.RecordAnswers(c.Param("id"), userID, req.Answers)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, state)
}

// SubmitAttempt 主动交卷并判分
// POST /api/v1/quizzes/:id/attempt/submit
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quizSvc.SubmitAttempt(c.Request.Context(), c.Param("id"), userID, req.Answers, time.Now())
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, result)
}

// CancelAttempt 取消答题会话（不产生提交记录）
// DELETE /api/v1/quizzes/:id/attempt
func (h *QuizHandler) CancelAttempt(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.quizSvc.CancelAttempt(c.Param("id"), userID); err != nil {
		h.handleQuizError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.NotFound(c, 13001, "测验不存在")
	case errors.Is(err, service.ErrQuizHidden):
		response.NotFound(c, 13002, "测验已关闭")
	case errors.Is(err, service.ErrQuizLocked):
		response.Forbidden(c, 13003, "测验尚未解锁")
	case errors.Is(err, service.ErrQuizDisabled):
		response.Forbidden(c, 13004, "测验未开放")
	case errors.Is(err, service.ErrQuizAlreadySubmitted):
		response.Conflict(c, 13005, "测验已提交，不支持重交")
	case errors.Is(err, service.ErrQuizClosed):
		response.Conflict(c, 13006, "测验已关闭，无法切换开关")
	case errors.Is(err, service.ErrInvalidAnswerIndex):
		response.BadRequest(c, 13007, "正确答案下标超出选项范围")
	case errors.Is(err, service.ErrAttemptActive):
		response.Conflict(c, 13008, "已有进行中的答题会话")
	case errors.Is(err, service.ErrNoActiveAttempt):
		response.NotFound(c, 13009, "没有进行中的答题会话")
	case errors.Is(err, service.ErrAttemptMismatch):
		response.Conflict(c, 13010, "答题会话与测验不匹配")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 13011, "测验已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrCourseNotOwner):
		response.Forbidden(c, 12002, "无权操作此课程")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/quiz_handler.go
