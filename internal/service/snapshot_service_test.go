package service

import (
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSnapshotService(db *gorm.DB) *SnapshotService {
	attemptRepo := repository.NewAttemptRepository(db)
	return NewSnapshotService(
		repository.NewSnapshotRepository(db),
		repository.NewUserRepository(db),
		NewActivityService(attemptRepo),
	)
}

func snapshotRows(t *testing.T, db *gorm.DB, studentID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.ProgressSnapshot{}).
		Where("student_id = ?", studentID).Count(&count).Error)
	return count
}

func TestSnapshotCreateOrUpdateIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newSnapshotService(db)
	student := seedStudent(t, db, "zhangsan")

	day := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	seedCompletedAttempt(t, db, student.ID, 1, day.Add(-2*time.Hour), true, 120)
	seedCompletedAttempt(t, db, student.ID, 2, day.Add(-time.Hour), false, 60)

	first, err := svc.CreateOrUpdateSnapshotForDate(student.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalAttempts)
	assert.Equal(t, 1, first.TotalCorrect)
	assert.EqualValues(t, 180, first.TotalPracticeSeconds)

	// 同一天再刷新：仍然只有一行，指标跟着新增记录更新
	seedCompletedAttempt(t, db, student.ID, 3, day.Add(-30*time.Minute), true, 60)

	second, err := svc.CreateOrUpdateSnapshotForDate(student.ID, day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.TotalAttempts)
	assert.Equal(t, 2, second.TotalCorrect)
	assert.EqualValues(t, 240, second.TotalPracticeSeconds)

	assert.EqualValues(t, 1, snapshotRows(t, db, student.ID))
}

func TestSnapshotBatchCoversAllStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newSnapshotService(db)

	a := seedStudent(t, db, "zhangsan")
	b := seedStudent(t, db, "lisi")
	seedCompletedAttempt(t, db, a.ID, 1, time.Now().Add(-time.Hour), true, 60)

	result, err := svc.CreateSnapshotsForAllStudentsToday()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)

	assert.EqualValues(t, 1, snapshotRows(t, db, a.ID))
	assert.EqualValues(t, 1, snapshotRows(t, db, b.ID))
}
