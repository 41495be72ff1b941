package repository

import (
	"testing"

	"school_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGroupRejoinAfterLeave(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	group := &model.StudentGroup{Name: "三年二班", TeacherID: 1}
	require.NoError(t, repo.Create(group))
	require.NoError(t, repo.AddStudent(group.ID, 5))
	require.NoError(t, repo.RemoveStudent(group.ID, 5))

	// 退组再进组必须成功，名单也要恢复
	require.NoError(t, repo.AddStudent(group.ID, 5))

	ids, err := repo.FindMemberIDs(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{5}, ids)
}

func TestGroupAddStudentTwiceIsDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	group := &model.StudentGroup{Name: "三年二班", TeacherID: 1}
	require.NoError(t, repo.Create(group))
	require.NoError(t, repo.AddStudent(group.ID, 5))

	err := repo.AddStudent(group.ID, 5)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
