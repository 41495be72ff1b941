package repository

import (
	"school_edu_backend/internal/model"

	"gorm.io/gorm"
)

type HomeworkRepository struct {
	DB *gorm.DB
}

func NewHomeworkRepository(db *gorm.DB) *HomeworkRepository {
	return &HomeworkRepository{DB: db}
}

func (r *HomeworkRepository) Create(homework *model.Homework) error {
	return r.DB.Create(homework).Error
}

func (r *HomeworkRepository) FindByID(id uint) (*model.Homework, error) {
	var homework model.Homework
	err := r.DB.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("homework_exercises.order_index ASC")
	}).Preload("Exercises.Exercise").First(&homework, id).Error
	if err != nil {
		return nil, err
	}
	return &homework, nil
}

func (r *HomeworkRepository) FindByTeacher(teacherID uint) ([]model.Homework, error) {
	var homeworks []model.Homework
	err := r.DB.Preload("Exercises").Where("teacher_id = ?", teacherID).
		Order("created_at DESC").Find(&homeworks).Error
	if err != nil {
		return nil, err
	}
	return homeworks, nil
}

func (r *HomeworkRepository) FindByTitleAndTeacher(title string, teacherID uint) (*model.Homework, error) {
	var homework model.Homework
	err := r.DB.Where("title = ? AND teacher_id = ?", title, teacherID).First(&homework).Error
	if err != nil {
		return nil, err
	}
	return &homework, nil
}

func (r *HomeworkRepository) Update(homework *model.Homework) error {
	return r.DB.Save(homework).Error
}

// Delete 删除作业及其练习关联
func (r *HomeworkRepository) Delete(homework *model.Homework) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("homework_id = ?", homework.ID).Delete(&model.HomeworkExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(homework).Error
	})
}

func (r *HomeworkRepository) AddExercise(link *model.HomeworkExercise) error {
	return r.DB.Create(link).Error
}

// RemoveExercise 关联行物理删除，软删会占住唯一索引，之后无法重新添加同一练习
func (r *HomeworkRepository) RemoveExercise(homeworkID, exerciseID uint) error {
	return r.DB.Unscoped().Where("homework_id = ? AND exercise_id = ?", homeworkID, exerciseID).
		Delete(&model.HomeworkExercise{}).Error
}

// CountExercises 作业包含的练习数，完成判定的分母
func (r *HomeworkRepository) CountExercises(homeworkID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.HomeworkExercise{}).Where("homework_id = ?", homeworkID).Count(&count).Error
	return count, err
}

// FindExerciseIDs 作业包含的练习 ID 集合
func (r *HomeworkRepository) FindExerciseIDs(homeworkID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.HomeworkExercise{}).Where("homework_id = ?", homeworkID).
		Pluck("exercise_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
