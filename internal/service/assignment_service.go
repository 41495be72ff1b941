package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentService 作业布置的生命周期：
// PENDING -> COMPLETED（学生完成全部要求练习，终态）
// PENDING -> OVERDUE（截止日期过后仍未完成）
type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	HomeworkRepo   *repository.HomeworkRepository
	AttemptRepo    *repository.AttemptRepository
	GroupRepo      *repository.GroupRepository
	UserRepo       *repository.UserRepository
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	homeworkRepo *repository.HomeworkRepository,
	attemptRepo *repository.AttemptRepository,
	groupRepo *repository.GroupRepository,
	userRepo *repository.UserRepository,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		HomeworkRepo:   homeworkRepo,
		AttemptRepo:    attemptRepo,
		GroupRepo:      groupRepo,
		UserRepo:       userRepo,
	}
}

type CreateAssignmentRequest struct {
	HomeworkID uint      `json:"homeworkId" binding:"required"`
	StudentIDs []uint    `json:"studentIds"`
	GroupIDs   []uint    `json:"groupIds"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
}

// CreateHomeworkAssignment 把作业模板布置给若干学生/分组，初始状态 PENDING。
// 分组成员不在此时固化，查询时按当前名单解析。
func (s *AssignmentService) CreateHomeworkAssignment(teacherID uint, req CreateAssignmentRequest) (*model.HomeworkAssignment, error) {
	if _, err := s.HomeworkRepo.FindByID(req.HomeworkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrHomeworkNotFound
		}
		return nil, err
	}
	for _, sid := range req.StudentIDs {
		if _, err := s.UserRepo.FindByID(sid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrStudentNotFound
			}
			return nil, err
		}
	}
	for _, gid := range req.GroupIDs {
		if _, err := s.GroupRepo.FindByID(gid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrGroupNotFound
			}
			return nil, err
		}
	}

	assignment := &model.HomeworkAssignment{
		HomeworkID: req.HomeworkID,
		TeacherID:  &teacherID,
		DueDate:    req.DueDate,
		Status:     model.AssignmentPending,
	}
	if err := s.AssignmentRepo.Create(assignment, req.StudentIDs, req.GroupIDs); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) GetAssignment(id uint) (*model.HomeworkAssignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

// CheckAndUpdateAssignmentStatus 统计该学生在这次布置的作业里完成过的
// 不同练习数，够数且尚未 COMPLETED 就翻转为 COMPLETED。
// 没有任何练习的作业不会自动完成。
func (s *AssignmentService) CheckAndUpdateAssignmentStatus(assignmentID, studentID uint) error {
	assignment, err := s.GetAssignment(assignmentID)
	if err != nil {
		return err
	}
	if assignment.Status == model.AssignmentCompleted {
		return nil
	}

	exerciseIDs, err := s.HomeworkRepo.FindExerciseIDs(assignment.HomeworkID)
	if err != nil {
		return err
	}
	if len(exerciseIDs) == 0 {
		logger.Log.Warn("assignment has no exercises, skipping completion check",
			zap.Uint("assignmentId", assignmentID),
		)
		return nil
	}

	completed, err := s.AttemptRepo.CountDistinctCompletedExercises(studentID, exerciseIDs)
	if err != nil {
		return err
	}
	if completed < int64(len(exerciseIDs)) {
		return nil
	}

	assignment.Status = model.AssignmentCompleted
	return s.AssignmentRepo.Save(assignment)
}

// CheckAndUpdateAssignmentStatusForExercise 学生完成一道练习后，
// 重新评估所有包含该练习且对他可见的布置。单个布置检查失败只记录，
// 不影响其余布置。
func (s *AssignmentService) CheckAndUpdateAssignmentStatusForExercise(exerciseID, studentID uint) {
	assignments, err := s.AssignmentRepo.FindByExerciseForStudent(exerciseID, studentID)
	if err != nil {
		logger.Log.Error("assignment lookup by exercise failed",
			zap.Uint("exerciseId", exerciseID),
			zap.Uint("studentId", studentID),
			zap.Error(err),
		)
		return
	}

	for _, assignment := range assignments {
		if err := s.CheckAndUpdateAssignmentStatus(assignment.ID, studentID); err != nil {
			logger.Log.Error("assignment status check failed",
				zap.Uint("assignmentId", assignment.ID),
				zap.Uint("studentId", studentID),
				zap.Error(err),
			)
		}
	}
}

// UpdateOverdueAssignments 把已过截止日期且仍为 PENDING 的布置批量翻转为
// OVERDUE。COMPLETED 是终态，不会被碰到。返回翻转数量。
func (s *AssignmentService) UpdateOverdueAssignments() (int, error) {
	pending, err := s.AssignmentRepo.FindPendingDueBefore(time.Now())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]uint, len(pending))
	for i, a := range pending {
		ids[i] = a.ID
	}
	if err := s.AssignmentRepo.MarkOverdue(ids); err != nil {
		return 0, err
	}

	logger.Log.Info("overdue sweep flipped assignments", zap.Int("count", len(ids)))
	return len(ids), nil
}

// GetAssignmentsForStudent 直接布置 + 经当前分组名单解析的布置。
// 先跑一次逾期扫描保证状态新鲜。
func (s *AssignmentService) GetAssignmentsForStudent(studentID uint) ([]model.HomeworkAssignment, error) {
	if _, err := s.UpdateOverdueAssignments(); err != nil {
		logger.Log.Error("overdue sweep before listing failed", zap.Error(err))
	}
	return s.AssignmentRepo.FindVisibleToStudent(studentID)
}

func (s *AssignmentService) GetAssignmentsForGroup(groupID uint) ([]model.HomeworkAssignment, error) {
	if _, err := s.GroupRepo.FindByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	if _, err := s.UpdateOverdueAssignments(); err != nil {
		logger.Log.Error("overdue sweep before listing failed", zap.Error(err))
	}
	return s.AssignmentRepo.FindByGroup(groupID)
}

func (s *AssignmentService) GetAssignmentsForTeacher(teacherID uint) ([]model.HomeworkAssignment, error) {
	if _, err := s.UpdateOverdueAssignments(); err != nil {
		logger.Log.Error("overdue sweep before listing failed", zap.Error(err))
	}
	return s.AssignmentRepo.FindByTeacher(teacherID)
}

func (s *AssignmentService) GetAssignmentsByStatus(status model.AssignmentStatus) ([]model.HomeworkAssignment, error) {
	if _, err := s.UpdateOverdueAssignments(); err != nil {
		logger.Log.Error("overdue sweep before listing failed", zap.Error(err))
	}
	return s.AssignmentRepo.FindByStatus(status)
}

// AddStudentsToAssignment 成员变动不触发任何状态流转
func (s *AssignmentService) AddStudentsToAssignment(assignmentID uint, studentIDs []uint) error {
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return err
	}
	for _, sid := range studentIDs {
		if _, err := s.UserRepo.FindByID(sid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrStudentNotFound
			}
			return err
		}
		if err := s.AssignmentRepo.AddStudent(assignmentID, sid); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // 已经在名单里
			}
			return err
		}
	}
	return nil
}

func (s *AssignmentService) RemoveStudentFromAssignment(assignmentID, studentID uint) error {
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return err
	}
	return s.AssignmentRepo.RemoveStudent(assignmentID, studentID)
}

func (s *AssignmentService) AddGroupsToAssignment(assignmentID uint, groupIDs []uint) error {
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return err
	}
	for _, gid := range groupIDs {
		if _, err := s.GroupRepo.FindByID(gid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrGroupNotFound
			}
			return err
		}
		if err := s.AssignmentRepo.AddGroup(assignmentID, gid); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *AssignmentService) RemoveGroupFromAssignment(assignmentID, groupID uint) error {
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return err
	}
	return s.AssignmentRepo.RemoveGroup(assignmentID, groupID)
}

func (s *AssignmentService) DeleteAssignment(assignmentID uint) error {
	assignment, err := s.GetAssignment(assignmentID)
	if err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(assignment)
}
