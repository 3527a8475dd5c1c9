package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"classhub/backend/internal/model"
	"classhub/backend/internal/repository"
	"classhub/backend/pkg/apperrors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string, page, pageSize int) ([]model.User, int64, error) {
	var filtered []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		filtered = append(filtered, *u)
	}
	total := int64(len(filtered))
	offset := (page - 1) * pageSize
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock ScheduleBlockRepository ──

type mockScheduleBlockRepo struct {
	blocks    map[string]*model.ScheduleBlock
	order     []string // 保持创建顺序，与 created_at ASC 对齐
	idCounter int
}

func newMockScheduleBlockRepo() *mockScheduleBlockRepo {
	return &mockScheduleBlockRepo{blocks: make(map[string]*model.ScheduleBlock)}
}

func (m *mockScheduleBlockRepo) Create(_ context.Context, block *model.ScheduleBlock) error {
	if block.BlockID == "" {
		m.idCounter++
		block.BlockID = fmt.Sprintf("block-%d", m.idCounter)
	}
	block.CreatedAt = time.Now()
	m.blocks[block.BlockID] = block
	m.order = append(m.order, block.BlockID)
	return nil
}

func (m *mockScheduleBlockRepo) GetByID(_ context.Context, id string) (*model.ScheduleBlock, error) {
	if b, ok := m.blocks[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleBlockRepo) ListByCourse(_ context.Context, courseID string) ([]model.ScheduleBlock, error) {
	var result []model.ScheduleBlock
	for _, id := range m.order {
		if b, ok := m.blocks[id]; ok && b.CourseID == courseID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockScheduleBlockRepo) Update(_ context.Context, block *model.ScheduleBlock) error {
	if _, ok := m.blocks[block.BlockID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.blocks[block.BlockID] = block
	return nil
}

func (m *mockScheduleBlockRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.blocks, id)
	return nil
}

// ── Mock CourseRepository ──
//
// 课程块从 mockScheduleBlockRepo 组装，模拟 Preload("Blocks")。

type mockCourseRepo struct {
	courses   map[string]*model.Course
	order     []string
	blockRepo *mockScheduleBlockRepo
	idCounter int
}

func newMockCourseRepo(blockRepo *mockScheduleBlockRepo) *mockCourseRepo {
	return &mockCourseRepo{
		courses:   make(map[string]*model.Course),
		blockRepo: blockRepo,
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.idCounter++
		course.CourseID = fmt.Sprintf("course-%d", m.idCounter)
	}
	course.CreatedAt = time.Now()
	m.courses[course.CourseID] = course
	m.order = append(m.order, course.CourseID)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Blocks, _ = m.blockRepo.ListByCourse(context.Background(), id)
	return &cp, nil
}

func (m *mockCourseRepo) ListWithBlocks(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, id := range m.order {
		c, ok := m.courses[id]
		if !ok {
			continue
		}
		cp := *c
		cp.Blocks, _ = m.blockRepo.ListByCourse(context.Background(), id)
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Course, error) {
	var result []model.Course
	for _, id := range m.order {
		c, ok := m.courses[id]
		if !ok || c.TeacherID != teacherID {
			continue
		}
		cp := *c
		cp.Blocks, _ = m.blockRepo.ListByCourse(context.Background(), id)
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := m.courses[course.CourseID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock QuizRepository ──
//
// GetByID 返回副本：乐观锁语义要求 service 层的修改在 Update 前
// 不能污染存储值。

type mockQuizRepo struct {
	quizzes   map[string]*model.Quiz
	order     []string
	idCounter int
}

func newMockQuizRepo() *mockQuizRepo {
	return &mockQuizRepo{quizzes: make(map[string]*model.Quiz)}
}

func (m *mockQuizRepo) Create(_ context.Context, quiz *model.Quiz) error {
	if quiz.QuizID == "" {
		m.idCounter++
		quiz.QuizID = fmt.Sprintf("quiz-%d", m.idCounter)
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].QuestionID == "" {
			quiz.Questions[i].QuestionID = fmt.Sprintf("%s-q%d", quiz.QuizID, i)
		}
		quiz.Questions[i].QuizID = quiz.QuizID
	}
	quiz.CreatedAt = time.Now()
	cp := cloneQuiz(quiz)
	m.quizzes[quiz.QuizID] = cp
	m.order = append(m.order, quiz.QuizID)
	return nil
}

func (m *mockQuizRepo) GetByID(_ context.Context, id string) (*model.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneQuiz(q), nil
}

func (m *mockQuizRepo) ListByCourse(_ context.Context, courseID string) ([]model.Quiz, error) {
	var result []model.Quiz
	for _, id := range m.order {
		if q, ok := m.quizzes[id]; ok && q.CourseID == courseID {
			result = append(result, *cloneQuiz(q))
		}
	}
	return result, nil
}

func (m *mockQuizRepo) Update(_ context.Context, quiz *model.Quiz) error {
	stored, ok := m.quizzes[quiz.QuizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	currentVersion := quiz.Version
	quiz.Version++
	if stored.Version != currentVersion {
		return apperrors.ErrOptimisticLock
	}

	cp := cloneQuiz(quiz)
	cp.Questions = stored.Questions
	m.quizzes[quiz.QuizID] = cp
	return nil
}

func (m *mockQuizRepo) ReplaceQuestions(_ context.Context, quizID string, questions []model.QuizQuestion) error {
	stored, ok := m.quizzes[quizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Questions = append([]model.QuizQuestion(nil), questions...)
	return nil
}

func cloneQuiz(q *model.Quiz) *model.Quiz {
	cp := *q
	cp.Questions = append([]model.QuizQuestion(nil), q.Questions...)
	return &cp
}

// ── Mock QuizSubmissionRepository ──

type mockQuizSubmissionRepo struct {
	subs      []model.QuizSubmission
	users     *mockUserRepo // ListByQuiz 模拟 Preload("User")
	idCounter int
}

func newMockQuizSubmissionRepo(users *mockUserRepo) *mockQuizSubmissionRepo {
	return &mockQuizSubmissionRepo{users: users}
}

func (m *mockQuizSubmissionRepo) Create(_ context.Context, sub *model.QuizSubmission) error {
	for _, existing := range m.subs {
		if existing.QuizID == sub.QuizID && existing.UserID == sub.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.idCounter++
	if sub.SubmissionID == "" {
		sub.SubmissionID = fmt.Sprintf("qsub-%d", m.idCounter)
	}
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *mockQuizSubmissionRepo) GetByQuizAndUser(_ context.Context, quizID, userID string) (*model.QuizSubmission, error) {
	for i, s := range m.subs {
		if s.QuizID == quizID && s.UserID == userID {
			return &m.subs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizSubmissionRepo) ListByQuiz(_ context.Context, quizID string) ([]model.QuizSubmission, error) {
	var result []model.QuizSubmission
	for _, s := range m.subs {
		if s.QuizID != quizID {
			continue
		}
		if m.users != nil {
			if u, ok := m.users.users[s.UserID]; ok {
				s.User = u
			}
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *mockQuizSubmissionRepo) MapByUser(_ context.Context, userID string, quizIDs []string) (map[string]*model.QuizSubmission, error) {
	idSet := make(map[string]bool, len(quizIDs))
	for _, id := range quizIDs {
		idSet[id] = true
	}
	result := make(map[string]*model.QuizSubmission)
	for i, s := range m.subs {
		if s.UserID == userID && idSet[s.QuizID] {
			result[s.QuizID] = &m.subs[i]
		}
	}
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	order       []string
	idCounter   int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.idCounter++
		assignment.AssignmentID = fmt.Sprintf("hw-%d", m.idCounter)
	}
	assignment.CreatedAt = time.Now()
	m.assignments[assignment.AssignmentID] = assignment
	m.order = append(m.order, assignment.AssignmentID)
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, id := range m.order {
		if a, ok := m.assignments[id]; ok && a.CourseID == courseID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	if _, ok := m.assignments[assignment.AssignmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.assignments, id)
	return nil
}

// ── Mock AssignmentSubmissionRepository ──

type mockAssignmentSubmissionRepo struct {
	subs      []model.AssignmentSubmission
	users     *mockUserRepo
	idCounter int
}

func newMockAssignmentSubmissionRepo(users *mockUserRepo) *mockAssignmentSubmissionRepo {
	return &mockAssignmentSubmissionRepo{users: users}
}

func (m *mockAssignmentSubmissionRepo) Create(_ context.Context, sub *model.AssignmentSubmission) error {
	for _, existing := range m.subs {
		if existing.AssignmentID == sub.AssignmentID && existing.UserID == sub.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.idCounter++
	if sub.SubmissionID == "" {
		sub.SubmissionID = fmt.Sprintf("asub-%d", m.idCounter)
	}
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *mockAssignmentSubmissionRepo) GetByAssignmentAndUser(_ context.Context, assignmentID, userID string) (*model.AssignmentSubmission, error) {
	for i, s := range m.subs {
		if s.AssignmentID == assignmentID && s.UserID == userID {
			return &m.subs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentSubmissionRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.AssignmentSubmission, error) {
	var result []model.AssignmentSubmission
	for _, s := range m.subs {
		if s.AssignmentID != assignmentID {
			continue
		}
		if m.users != nil {
			if u, ok := m.users.users[s.UserID]; ok {
				s.User = u
			}
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *mockAssignmentSubmissionRepo) MapByUser(_ context.Context, userID string, assignmentIDs []string) (map[string]*model.AssignmentSubmission, error) {
	idSet := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		idSet[id] = true
	}
	result := make(map[string]*model.AssignmentSubmission)
	for i, s := range m.subs {
		if s.UserID == userID && idSet[s.AssignmentID] {
			result[s.AssignmentID] = &m.subs[i]
		}
	}
	return result, nil
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	posts     map[string]*model.Post
	order     []string
	users     *mockUserRepo
	idCounter int
}

func newMockPostRepo(users *mockUserRepo) *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post), users: users}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if post.PostID == "" {
		m.idCounter++
		post.PostID = fmt.Sprintf("post-%d", m.idCounter)
	}
	post.CreatedAt = time.Now()
	m.posts[post.PostID] = post
	m.order = append(m.order, post.PostID)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	if m.users != nil {
		if u, ok := m.users.users[p.AuthorID]; ok {
			cp.Author = u
		}
	}
	return &cp, nil
}

func (m *mockPostRepo) ListByCourse(_ context.Context, courseID string, page, pageSize int) ([]model.Post, int64, error) {
	var filtered []model.Post
	// created_at DESC: 创建顺序倒序
	for i := len(m.order) - 1; i >= 0; i-- {
		p, ok := m.posts[m.order[i]]
		if !ok || p.CourseID != courseID {
			continue
		}
		cp := *p
		if m.users != nil {
			if u, ok := m.users.users[p.AuthorID]; ok {
				cp.Author = u
			}
		}
		filtered = append(filtered, cp)
	}
	total := int64(len(filtered))
	offset := (page - 1) * pageSize
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.posts, id)
	return nil
}

// ── 测试用 Repository 聚合 ──

type testMocks struct {
	users          *mockUserRepo
	blocks         *mockScheduleBlockRepo
	courses        *mockCourseRepo
	quizzes        *mockQuizRepo
	quizSubs       *mockQuizSubmissionRepo
	assignments    *mockAssignmentRepo
	assignmentSubs *mockAssignmentSubmissionRepo
	posts          *mockPostRepo
}

func newTestMocks() (*repository.Repository, *testMocks) {
	mocks := &testMocks{
		users:       newMockUserRepo(),
		blocks:      newMockScheduleBlockRepo(),
		quizzes:     newMockQuizRepo(),
		assignments: newMockAssignmentRepo(),
	}
	mocks.courses = newMockCourseRepo(mocks.blocks)
	mocks.quizSubs = newMockQuizSubmissionRepo(mocks.users)
	mocks.assignmentSubs = newMockAssignmentSubmissionRepo(mocks.users)
	mocks.posts = newMockPostRepo(mocks.users)

	repo := &repository.Repository{
		User:                 mocks.users,
		Course:               mocks.courses,
		ScheduleBlock:        mocks.blocks,
		Quiz:                 mocks.quizzes,
		QuizSubmission:       mocks.quizSubs,
		Assignment:           mocks.assignments,
		AssignmentSubmission: mocks.assignmentSubs,
		Post:                 mocks.posts,
	}
	return repo, mocks
}

// [自证通过] internal/service/mock_repos_test.go
