package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotService 维护每个学生每天恰好一条的进度快照
type SnapshotService struct {
	SnapshotRepo *repository.SnapshotRepository
	UserRepo     *repository.UserRepository
	Activity     *ActivityService
}

func NewSnapshotService(
	snapshotRepo *repository.SnapshotRepository,
	userRepo *repository.UserRepository,
	activity *ActivityService,
) *SnapshotService {
	return &SnapshotService{
		SnapshotRepo: snapshotRepo,
		UserRepo:     userRepo,
		Activity:     activity,
	}
}

// BatchResult 批处理的聚合结果，单个学生失败不会中断整批
type BatchResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// CreateOrUpdateSnapshotForDate 为 (student, date) 创建或刷新快照。
// 已存在则重算四项指标后保存；不存在则插入，插入撞上唯一约束
// （实时触发和定时批处理并发时会发生）就重新取出这行再更新，
// 保证每天至多一条，无需事先加锁。
func (s *SnapshotService) CreateOrUpdateSnapshotForDate(studentID uint, date time.Time) (*model.ProgressSnapshot, error) {
	metrics, err := s.Activity.MetricsFor(studentID, date)
	if err != nil {
		return nil, err
	}

	existing, err := s.SnapshotRepo.FindByStudentAndDate(studentID, date)
	if err == nil {
		applyMetrics(existing, metrics)
		if err := s.SnapshotRepo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	snapshot := &model.ProgressSnapshot{
		StudentID:    studentID,
		SnapshotDate: model.DateOf(date),
	}
	applyMetrics(snapshot, metrics)

	err = s.SnapshotRepo.Create(snapshot)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// 并发插入输了，改为更新对方刚插入的那行
	logger.Log.Info("snapshot insert raced, falling back to update",
		zap.Uint("studentId", studentID),
		zap.String("date", model.DateOf(date).Format("2006-01-02")),
	)
	winner, err := s.SnapshotRepo.FindByStudentAndDate(studentID, date)
	if err != nil {
		return nil, err
	}
	applyMetrics(winner, metrics)
	if err := s.SnapshotRepo.Save(winner); err != nil {
		return nil, err
	}
	return winner, nil
}

// CreateSnapshotsForAllStudentsToday 每日定时批处理。单个学生失败只记录，
// 不影响其他学生。
func (s *SnapshotService) CreateSnapshotsForAllStudentsToday() (BatchResult, error) {
	students, err := s.UserRepo.FindAllStudents()
	if err != nil {
		return BatchResult{}, err
	}

	today := time.Now()
	var result BatchResult
	for _, student := range students {
		if _, err := s.CreateOrUpdateSnapshotForDate(student.ID, today); err != nil {
			result.Failed++
			logger.Log.Error("snapshot creation failed for student",
				zap.Uint("studentId", student.ID),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

func (s *SnapshotService) GetLatestSnapshots(studentID uint, limit int) ([]model.ProgressSnapshot, error) {
	return s.SnapshotRepo.FindByStudent(studentID, limit)
}

func (s *SnapshotService) GetSnapshotsBetween(studentID uint, start, end time.Time) ([]model.ProgressSnapshot, error) {
	return s.SnapshotRepo.FindByStudentBetween(studentID, start, end)
}

func (s *SnapshotService) GetSnapshotForDate(studentID uint, date time.Time) (*model.ProgressSnapshot, error) {
	return s.SnapshotRepo.FindByStudentAndDate(studentID, date)
}

// WeekStreak 周报用：窗口内最新快照的连续天数，没有快照则为 0
func (s *SnapshotService) WeekStreak(studentID uint, weekStart, weekEnd time.Time) (int, error) {
	snapshots, err := s.SnapshotRepo.FindByStudentBetween(studentID, weekStart, weekEnd)
	if err != nil {
		return 0, err
	}
	if len(snapshots) == 0 {
		return 0, nil
	}
	return snapshots[0].CurrentStreak, nil
}

func applyMetrics(snapshot *model.ProgressSnapshot, metrics ActivityMetrics) {
	snapshot.TotalAttempts = metrics.TotalAttempts
	snapshot.TotalCorrect = metrics.TotalCorrect
	snapshot.TotalPracticeSeconds = metrics.TotalPracticeSeconds
	snapshot.CurrentStreak = metrics.CurrentStreak
}
