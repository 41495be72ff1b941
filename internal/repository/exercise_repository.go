package repository

import (
	"school_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) FindAll(page, limit int, subject string) ([]model.Exercise, int64, error) {
	var exercises []model.Exercise
	var total int64

	query := r.DB.Model(&model.Exercise{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	query.Count(&total)

	err := query.Offset((page - 1) * limit).Limit(limit).Order("created_at DESC").Find(&exercises).Error
	if err != nil {
		return nil, 0, err
	}
	return exercises, total, nil
}

func (r *ExerciseRepository) Update(exercise *model.Exercise) error {
	return r.DB.Save(exercise).Error
}

func (r *ExerciseRepository) Delete(exercise *model.Exercise) error {
	return r.DB.Delete(exercise).Error
}
