package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ExerciseAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.ExerciseAttempt, error) {
	var attempt model.ExerciseAttempt
	err := r.DB.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) Update(attempt *model.ExerciseAttempt) error {
	return r.DB.Save(attempt).Error
}

// FindCompletedByStudent 学生完成的全部练习记录，按完成时间倒序。
// 所有聚合统计都从这条流算出来。
func (r *AttemptRepository) FindCompletedByStudent(studentID uint) ([]model.ExerciseAttempt, error) {
	var attempts []model.ExerciseAttempt
	err := r.DB.Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Order("completed_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// FindCompletedByStudentBetween 周报窗口内完成的记录，带练习信息用于学科分组
func (r *AttemptRepository) FindCompletedByStudentBetween(studentID uint, start, end time.Time) ([]model.ExerciseAttempt, error) {
	var attempts []model.ExerciseAttempt
	err := r.DB.Preload("Exercise").
		Where("student_id = ? AND completed_at BETWEEN ? AND ?", studentID, start, end).
		Order("completed_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// CountDistinctCompletedExercises 学生在给定练习集合里完成过的不同练习数，
// 作业完成判定用
func (r *AttemptRepository) CountDistinctCompletedExercises(studentID uint, exerciseIDs []uint) (int64, error) {
	if len(exerciseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.ExerciseAttempt{}).
		Where("student_id = ? AND exercise_id IN ? AND completed_at IS NOT NULL", studentID, exerciseIDs).
		Distinct("exercise_id").Count(&count).Error
	return count, err
}

func (r *AttemptRepository) FindByStudentAndExercise(studentID, exerciseID uint) ([]model.ExerciseAttempt, error) {
	var attempts []model.ExerciseAttempt
	err := r.DB.Where("student_id = ? AND exercise_id = ? AND completed_at IS NOT NULL", studentID, exerciseID).
		Order("completed_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
