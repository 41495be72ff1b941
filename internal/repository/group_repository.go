package repository

import (
	"school_edu_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.StudentGroup) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.StudentGroup, error) {
	var group model.StudentGroup
	err := r.DB.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindByTeacher(teacherID uint) ([]model.StudentGroup, error) {
	var groups []model.StudentGroup
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GroupRepository) Update(group *model.StudentGroup) error {
	return r.DB.Save(group).Error
}

func (r *GroupRepository) Delete(group *model.StudentGroup) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_id = ?", group.ID).Delete(&model.GroupStudent{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}

func (r *GroupRepository) AddStudent(groupID, studentID uint) error {
	return r.DB.Create(&model.GroupStudent{GroupID: groupID, StudentID: studentID}).Error
}

// RemoveStudent 关联行物理删除，软删会占住唯一索引，退组后无法重新加入
func (r *GroupRepository) RemoveStudent(groupID, studentID uint) error {
	return r.DB.Unscoped().Where("group_id = ? AND student_id = ?", groupID, studentID).
		Delete(&model.GroupStudent{}).Error
}

// FindMemberIDs 当前名单，布置到分组的作业按这个动态解析
func (r *GroupRepository) FindMemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.GroupStudent{}).Where("group_id = ?", groupID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GroupRepository) FindMembers(groupID uint) ([]model.User, error) {
	var members []model.User
	err := r.DB.
		Joins("JOIN group_students ON group_students.student_id = users.id").
		Where("group_students.group_id = ? AND group_students.deleted_at IS NULL", groupID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// FindGroupIDsByStudent 学生当前所在的分组
func (r *GroupRepository) FindGroupIDsByStudent(studentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.GroupStudent{}).Where("student_id = ?", studentID).
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
