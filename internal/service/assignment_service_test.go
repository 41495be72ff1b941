package service

import (
	"testing"
	"time"

	"school_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedHomeworkWithExercises(t *testing.T, db *gorm.DB, exerciseCount int) (*model.Homework, []uint) {
	t.Helper()

	homework := &model.Homework{Title: "课后练习", TeacherID: 1}
	require.NoError(t, db.Create(homework).Error)

	var exerciseIDs []uint
	for i := 0; i < exerciseCount; i++ {
		exercise := &model.Exercise{Title: "练习题", Subject: "math", TeacherID: 1}
		require.NoError(t, db.Create(exercise).Error)
		require.NoError(t, db.Create(&model.HomeworkExercise{
			HomeworkID: homework.ID,
			ExerciseID: exercise.ID,
		}).Error)
		exerciseIDs = append(exerciseIDs, exercise.ID)
	}
	return homework, exerciseIDs
}

func seedAssignmentForStudent(t *testing.T, db *gorm.DB, svc *AssignmentService, homeworkID, studentID uint, due time.Time) *model.HomeworkAssignment {
	t.Helper()

	assignment := &model.HomeworkAssignment{HomeworkID: homeworkID, DueDate: due}
	require.NoError(t, svc.AssignmentRepo.Create(assignment, []uint{studentID}, nil))
	return assignment
}

func TestZeroExerciseAssignmentNeverAutoCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	student := seedStudent(t, db, "zhangsan")

	homework, _ := seedHomeworkWithExercises(t, db, 0)
	assignment := seedAssignmentForStudent(t, db, svc, homework.ID, student.ID, time.Now().Add(72*time.Hour))

	require.NoError(t, svc.CheckAndUpdateAssignmentStatus(assignment.ID, student.ID))

	got, err := svc.GetAssignment(assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentPending, got.Status)
}

func TestAssignmentCompletesWhenAllExercisesDone(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	student := seedStudent(t, db, "zhangsan")

	homework, exerciseIDs := seedHomeworkWithExercises(t, db, 2)
	assignment := seedAssignmentForStudent(t, db, svc, homework.ID, student.ID, time.Now().Add(72*time.Hour))

	seedCompletedAttempt(t, db, student.ID, exerciseIDs[0], time.Now(), true, 60)
	require.NoError(t, svc.CheckAndUpdateAssignmentStatus(assignment.ID, student.ID))

	got, err := svc.GetAssignment(assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentPending, got.Status, "只完成一半不应翻转")

	seedCompletedAttempt(t, db, student.ID, exerciseIDs[1], time.Now(), false, 60)
	require.NoError(t, svc.CheckAndUpdateAssignmentStatus(assignment.ID, student.ID))

	got, err = svc.GetAssignment(assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentCompleted, got.Status)
}

func TestOverdueSweepFlipsOnlyPending(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	student := seedStudent(t, db, "zhangsan")

	homework, exerciseIDs := seedHomeworkWithExercises(t, db, 1)
	yesterday := time.Now().Add(-24 * time.Hour)

	completed := seedAssignmentForStudent(t, db, svc, homework.ID, student.ID, yesterday)
	seedCompletedAttempt(t, db, student.ID, exerciseIDs[0], yesterday.Add(-time.Hour), true, 60)
	require.NoError(t, svc.CheckAndUpdateAssignmentStatus(completed.ID, student.ID))

	other := seedStudent(t, db, "lisi")
	pending := seedAssignmentForStudent(t, db, svc, homework.ID, other.ID, yesterday)
	future := seedAssignmentForStudent(t, db, svc, homework.ID, other.ID, time.Now().Add(72*time.Hour))

	count, err := svc.UpdateOverdueAssignments()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// COMPLETED 是终态，过了截止日期也不回退
	got, err := svc.GetAssignment(completed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentCompleted, got.Status)

	got, err = svc.GetAssignment(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentOverdue, got.Status)

	got, err = svc.GetAssignment(future.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentPending, got.Status)
}

func TestOverdueSweepIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	student := seedStudent(t, db, "zhangsan")

	homework, _ := seedHomeworkWithExercises(t, db, 1)
	seedAssignmentForStudent(t, db, svc, homework.ID, student.ID, time.Now().Add(-24*time.Hour))

	count, err := svc.UpdateOverdueAssignments()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.UpdateOverdueAssignments()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReassignStudentAfterRemoval(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	student := seedStudent(t, db, "zhangsan")

	homework, _ := seedHomeworkWithExercises(t, db, 1)
	assignment := seedAssignmentForStudent(t, db, svc, homework.ID, student.ID, time.Now().Add(72*time.Hour))

	require.NoError(t, svc.RemoveStudentFromAssignment(assignment.ID, student.ID))

	visible, err := svc.GetAssignmentsForStudent(student.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// 移除后重新布置，学生要能再次看到
	require.NoError(t, svc.AddStudentsToAssignment(assignment.ID, []uint{student.ID}))

	visible, err = svc.GetAssignmentsForStudent(student.ID)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
