package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"

	"gorm.io/gorm"
)

type ExerciseService struct {
	ExerciseRepo *repository.ExerciseRepository
}

func NewExerciseService(exerciseRepo *repository.ExerciseRepository) *ExerciseService {
	return &ExerciseService{ExerciseRepo: exerciseRepo}
}

type ExerciseRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	Subject    string `json:"subject" binding:"required"`
	Difficulty int    `json:"difficulty"`
}

func (s *ExerciseService) CreateExercise(teacherID uint, req ExerciseRequest) (*model.Exercise, error) {
	exercise := &model.Exercise{
		Title:      req.Title,
		Content:    req.Content,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		TeacherID:  teacherID,
	}
	if err := s.ExerciseRepo.Create(exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) GetExercise(id uint) (*model.Exercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) ListExercises(page, limit int, subject string) ([]model.Exercise, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ExerciseRepo.FindAll(page, limit, subject)
}

func (s *ExerciseService) UpdateExercise(id uint, req ExerciseRequest) (*model.Exercise, error) {
	exercise, err := s.GetExercise(id)
	if err != nil {
		return nil, err
	}
	exercise.Title = req.Title
	exercise.Content = req.Content
	exercise.Subject = req.Subject
	exercise.Difficulty = req.Difficulty
	if err := s.ExerciseRepo.Update(exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(id uint) error {
	exercise, err := s.GetExercise(id)
	if err != nil {
		return err
	}
	return s.ExerciseRepo.Delete(exercise)
}
