package repository

import (
	"testing"
	"time"

	"school_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAssignment(t *testing.T, db *gorm.DB, studentIDs, groupIDs []uint) (*AssignmentRepository, *model.HomeworkAssignment) {
	t.Helper()

	repo := NewAssignmentRepository(db)
	homework := &model.Homework{Title: "分数运算", TeacherID: 1}
	require.NoError(t, db.Create(homework).Error)

	assignment := &model.HomeworkAssignment{
		HomeworkID: homework.ID,
		DueDate:    time.Now().Add(72 * time.Hour),
	}
	require.NoError(t, repo.Create(assignment, studentIDs, groupIDs))
	return repo, assignment
}

func TestAddStudentAfterRemove(t *testing.T) {
	db := newTestDB(t)
	repo, assignment := seedAssignment(t, db, []uint{7}, nil)

	require.NoError(t, repo.RemoveStudent(assignment.ID, 7))

	visible, err := repo.FindVisibleToStudent(7)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// 移除后重新布置给同一学生必须成功
	require.NoError(t, repo.AddStudent(assignment.ID, 7))

	visible, err = repo.FindVisibleToStudent(7)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestAddStudentTwiceIsDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo, assignment := seedAssignment(t, db, []uint{7}, nil)

	err := repo.AddStudent(assignment.ID, 7)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAddGroupAfterRemove(t *testing.T) {
	db := newTestDB(t)
	repo, assignment := seedAssignment(t, db, nil, []uint{3})

	require.NoError(t, repo.RemoveGroup(assignment.ID, 3))
	require.NoError(t, repo.AddGroup(assignment.ID, 3))

	assignments, err := repo.FindByGroup(3)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}
