package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// Create 一次事务里创建布置记录和全部学生/分组关联
func (r *AssignmentRepository) Create(assignment *model.HomeworkAssignment, studentIDs, groupIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}
		for _, sid := range studentIDs {
			link := &model.HomeworkAssignmentStudent{AssignmentID: assignment.ID, StudentID: sid}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		for _, gid := range groupIDs {
			link := &model.HomeworkAssignmentGroup{AssignmentID: assignment.ID, GroupID: gid}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) FindByID(id uint) (*model.HomeworkAssignment, error) {
	var assignment model.HomeworkAssignment
	err := r.DB.Preload("Homework").Preload("Homework.Exercises").
		Preload("Students").Preload("Groups").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Save(assignment *model.HomeworkAssignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(assignment *model.HomeworkAssignment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("assignment_id = ?", assignment.ID).Delete(&model.HomeworkAssignmentStudent{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("assignment_id = ?", assignment.ID).Delete(&model.HomeworkAssignmentGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(assignment).Error
	})
}

// FindVisibleToStudent 对学生可见的布置：直接布置给他的，加上
// 按当前分组名单解析出来的
func (r *AssignmentRepository) FindVisibleToStudent(studentID uint) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.Preload("Homework").
		Where(`id IN (SELECT assignment_id FROM homework_assignment_students
			WHERE student_id = ? AND deleted_at IS NULL)
			OR id IN (SELECT hag.assignment_id FROM homework_assignment_groups hag
			JOIN group_students gs ON gs.group_id = hag.group_id
			WHERE gs.student_id = ? AND hag.deleted_at IS NULL AND gs.deleted_at IS NULL)`,
			studentID, studentID).
		Order("due_date ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) FindByGroup(groupID uint) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.Preload("Homework").
		Joins("JOIN homework_assignment_groups hag ON hag.assignment_id = homework_assignments.id").
		Where("hag.group_id = ? AND hag.deleted_at IS NULL", groupID).
		Order("due_date ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) FindByTeacher(teacherID uint) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.Preload("Homework").Where("teacher_id = ?", teacherID).
		Order("due_date ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) FindByStatus(status model.AssignmentStatus) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.Preload("Homework").Where("status = ?", status).
		Order("due_date ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindPendingDueBefore 逾期扫描的输入：已过期且仍为 PENDING 的布置。
// COMPLETED 是终态，永远不会出现在这里。
func (r *AssignmentRepository) FindPendingDueBefore(deadline time.Time) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.Where("status = ? AND due_date < ?", model.AssignmentPending, deadline).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// MarkOverdue 批量翻转为 OVERDUE，条件里再校验一次 PENDING 防并发完成
func (r *AssignmentRepository) MarkOverdue(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Model(&model.HomeworkAssignment{}).
		Where("id IN ? AND status = ?", ids, model.AssignmentPending).
		Update("status", model.AssignmentOverdue).Error
}

// FindByExerciseForStudent 包含该练习、且对该学生可见（直接布置或经当前分组）的全部布置
func (r *AssignmentRepository) FindByExerciseForStudent(exerciseID, studentID uint) ([]model.HomeworkAssignment, error) {
	var assignments []model.HomeworkAssignment
	err := r.DB.
		Joins("JOIN homework_exercises he ON he.homework_id = homework_assignments.homework_id").
		Where("he.exercise_id = ? AND he.deleted_at IS NULL", exerciseID).
		Where(`homework_assignments.id IN (SELECT assignment_id FROM homework_assignment_students
			WHERE student_id = ? AND deleted_at IS NULL)
			OR homework_assignments.id IN (SELECT hag.assignment_id FROM homework_assignment_groups hag
			JOIN group_students gs ON gs.group_id = hag.group_id
			WHERE gs.student_id = ? AND hag.deleted_at IS NULL AND gs.deleted_at IS NULL)`,
			studentID, studentID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) AddStudent(assignmentID, studentID uint) error {
	return r.DB.Create(&model.HomeworkAssignmentStudent{AssignmentID: assignmentID, StudentID: studentID}).Error
}

// RemoveStudent 关联行物理删除，软删会占住唯一索引，移除后无法重新布置
func (r *AssignmentRepository) RemoveStudent(assignmentID, studentID uint) error {
	return r.DB.Unscoped().Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Delete(&model.HomeworkAssignmentStudent{}).Error
}

func (r *AssignmentRepository) AddGroup(assignmentID, groupID uint) error {
	return r.DB.Create(&model.HomeworkAssignmentGroup{AssignmentID: assignmentID, GroupID: groupID}).Error
}

func (r *AssignmentRepository) RemoveGroup(assignmentID, groupID uint) error {
	return r.DB.Unscoped().Where("assignment_id = ? AND group_id = ?", assignmentID, groupID).
		Delete(&model.HomeworkAssignmentGroup{}).Error
}

// CountVisibleToStudentCreatedBefore 周报用：窗口结束前布置给该学生的数量
func (r *AssignmentRepository) CountVisibleToStudentCreatedBefore(studentID uint, end time.Time) (int64, int64, error) {
	assignments, err := r.FindVisibleToStudent(studentID)
	if err != nil {
		return 0, 0, err
	}
	var total, completed int64
	for _, a := range assignments {
		if a.CreatedAt.After(end) {
			continue
		}
		total++
		if a.Status == model.AssignmentCompleted {
			completed++
		}
	}
	return total, completed, nil
}
