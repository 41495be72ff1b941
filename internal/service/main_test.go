package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB 文件型 sqlite 测试库，TranslateError 和生产配置保持一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.StudentGroup{},
		&model.GroupStudent{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.Homework{},
		&model.HomeworkExercise{},
		&model.HomeworkAssignment{},
		&model.HomeworkAssignmentStudent{},
		&model.HomeworkAssignmentGroup{},
		&model.ProgressSnapshot{},
		&model.Achievement{},
		&model.StudentAchievement{},
	))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	student := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func seedCompletedAttempt(t *testing.T, db *gorm.DB, studentID, exerciseID uint, completedAt time.Time, correct bool, durationSec int64) {
	t.Helper()
	started := completedAt.Add(-time.Duration(durationSec) * time.Second)
	require.NoError(t, db.Create(&model.ExerciseAttempt{
		StudentID:   studentID,
		ExerciseID:  exerciseID,
		StartedAt:   &started,
		CompletedAt: &completedAt,
		Correct:     correct,
	}).Error)
}

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewHomeworkRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
	)
}
