package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"
	"school_edu_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 记录练习完成，并串起后续流水线：
// 快照刷新 -> 成就检查 -> 作业完成检查
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	ExerciseRepo *repository.ExerciseRepository
	Snapshots    *SnapshotService
	Achievements *AchievementService
	Assignments  *AssignmentService
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	exerciseRepo *repository.ExerciseRepository,
	snapshots *SnapshotService,
	achievements *AchievementService,
	assignments *AssignmentService,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		ExerciseRepo: exerciseRepo,
		Snapshots:    snapshots,
		Achievements: achievements,
		Assignments:  assignments,
	}
}

type AttemptRequest struct {
	ExerciseID   uint       `json:"exerciseId" binding:"required"`
	StartedAt    *time.Time `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
	Score        int        `json:"score"`
	Correct      bool       `json:"correct"`
	MistakeCount int        `json:"mistakeCount"`
	Accuracy     float64    `json:"accuracy"`
}

// RecordAttempt 落库一条完成记录并触发整条流水线。
// 流水线各步失败只记录，记录本身已成功就不回滚。
func (s *AttemptService) RecordAttempt(studentID uint, req AttemptRequest) (*model.ExerciseAttempt, error) {
	if _, err := s.ExerciseRepo.FindByID(req.ExerciseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	completedAt := req.CompletedAt
	if completedAt == nil {
		now := time.Now()
		completedAt = &now
	}

	attempt := &model.ExerciseAttempt{
		StudentID:    studentID,
		ExerciseID:   req.ExerciseID,
		StartedAt:    req.StartedAt,
		CompletedAt:  completedAt,
		Score:        req.Score,
		Correct:      req.Correct,
		MistakeCount: req.MistakeCount,
		Accuracy:     req.Accuracy,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	monitoring.AttemptsRecorded.Inc()

	s.runPipeline(studentID, req.ExerciseID)
	return attempt, nil
}

func (s *AttemptService) runPipeline(studentID, exerciseID uint) {
	if _, err := s.Snapshots.CreateOrUpdateSnapshotForDate(studentID, time.Now()); err != nil {
		logger.Log.Error("snapshot refresh after attempt failed",
			zap.Uint("studentId", studentID),
			zap.Error(err),
		)
	}

	if awarded, err := s.Achievements.CheckAndAwardAchievements(studentID); err != nil {
		logger.Log.Error("achievement check after attempt failed",
			zap.Uint("studentId", studentID),
			zap.Error(err),
		)
	} else if len(awarded) > 0 {
		logger.Log.Info("achievements awarded",
			zap.Uint("studentId", studentID),
			zap.Int("count", len(awarded)),
		)
	}

	s.Assignments.CheckAndUpdateAssignmentStatusForExercise(exerciseID, studentID)
}

func (s *AttemptService) GetAttempt(id uint) (*model.ExerciseAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

// UpdateAttempt 显式修正一条记录，之后重跑流水线保持衍生数据一致
func (s *AttemptService) UpdateAttempt(id uint, req AttemptRequest) (*model.ExerciseAttempt, error) {
	attempt, err := s.GetAttempt(id)
	if err != nil {
		return nil, err
	}

	attempt.StartedAt = req.StartedAt
	attempt.CompletedAt = req.CompletedAt
	attempt.Score = req.Score
	attempt.Correct = req.Correct
	attempt.MistakeCount = req.MistakeCount
	attempt.Accuracy = req.Accuracy
	if err := s.AttemptRepo.Update(attempt); err != nil {
		return nil, err
	}

	s.runPipeline(attempt.StudentID, attempt.ExerciseID)
	return attempt, nil
}

func (s *AttemptService) GetAttemptsForStudent(studentID uint) ([]model.ExerciseAttempt, error) {
	return s.AttemptRepo.FindCompletedByStudent(studentID)
}
