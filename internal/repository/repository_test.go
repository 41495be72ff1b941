package repository

import (
	"path/filepath"
	"testing"

	"school_edu_backend/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 文件型 sqlite 测试库。和生产连接一样开启 TranslateError，
// 唯一约束冲突统一转成 gorm.ErrDuplicatedKey。
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
