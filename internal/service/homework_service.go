package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// HomeworkService 作业模板的增删改查
type HomeworkService struct {
	HomeworkRepo *repository.HomeworkRepository
	ExerciseRepo *repository.ExerciseRepository
}

func NewHomeworkService(
	homeworkRepo *repository.HomeworkRepository,
	exerciseRepo *repository.ExerciseRepository,
) *HomeworkService {
	return &HomeworkService{
		HomeworkRepo: homeworkRepo,
		ExerciseRepo: exerciseRepo,
	}
}

type HomeworkExerciseRequest struct {
	ExerciseID       uint       `json:"exerciseId" binding:"required"`
	RequiredAttempts int        `json:"requiredAttempts"`
	DueDate          *time.Time `json:"dueDate"`
}

type HomeworkRequest struct {
	Title       string                    `json:"title" binding:"required"`
	Description string                    `json:"description"`
	Exercises   []HomeworkExerciseRequest `json:"exercises"`
}

// CreateHomework 同一教师下标题不能重复
func (s *HomeworkService) CreateHomework(teacherID uint, req HomeworkRequest) (*model.Homework, error) {
	if _, err := s.HomeworkRepo.FindByTitleAndTeacher(req.Title, teacherID); err == nil {
		return nil, util.ErrDuplicateTitle
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	homework := &model.Homework{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	for i, ex := range req.Exercises {
		if _, err := s.ExerciseRepo.FindByID(ex.ExerciseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrExerciseNotFound
			}
			return nil, err
		}
		required := ex.RequiredAttempts
		if required <= 0 {
			required = 1
		}
		homework.Exercises = append(homework.Exercises, model.HomeworkExercise{
			ExerciseID:       ex.ExerciseID,
			RequiredAttempts: required,
			DueDate:          ex.DueDate,
			OrderIndex:       i,
		})
	}

	if err := s.HomeworkRepo.Create(homework); err != nil {
		return nil, err
	}
	return homework, nil
}

func (s *HomeworkService) GetHomework(id uint) (*model.Homework, error) {
	homework, err := s.HomeworkRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrHomeworkNotFound
		}
		return nil, err
	}
	return homework, nil
}

func (s *HomeworkService) GetHomeworksByTeacher(teacherID uint) ([]model.Homework, error) {
	return s.HomeworkRepo.FindByTeacher(teacherID)
}

func (s *HomeworkService) UpdateHomework(id uint, req HomeworkRequest) (*model.Homework, error) {
	homework, err := s.GetHomework(id)
	if err != nil {
		return nil, err
	}

	if req.Title != homework.Title {
		if _, err := s.HomeworkRepo.FindByTitleAndTeacher(req.Title, homework.TeacherID); err == nil {
			return nil, util.ErrDuplicateTitle
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	homework.Title = req.Title
	homework.Description = req.Description
	if err := s.HomeworkRepo.Update(homework); err != nil {
		return nil, err
	}
	return homework, nil
}

// DeleteHomework 级联删除练习关联
func (s *HomeworkService) DeleteHomework(id uint) error {
	homework, err := s.GetHomework(id)
	if err != nil {
		return err
	}
	return s.HomeworkRepo.Delete(homework)
}

func (s *HomeworkService) AddExercise(homeworkID uint, req HomeworkExerciseRequest) error {
	homework, err := s.GetHomework(homeworkID)
	if err != nil {
		return err
	}
	if _, err := s.ExerciseRepo.FindByID(req.ExerciseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrExerciseNotFound
		}
		return err
	}

	required := req.RequiredAttempts
	if required <= 0 {
		required = 1
	}
	return s.HomeworkRepo.AddExercise(&model.HomeworkExercise{
		HomeworkID:       homework.ID,
		ExerciseID:       req.ExerciseID,
		RequiredAttempts: required,
		DueDate:          req.DueDate,
		OrderIndex:       len(homework.Exercises),
	})
}

func (s *HomeworkService) RemoveExercise(homeworkID, exerciseID uint) error {
	if _, err := s.GetHomework(homeworkID); err != nil {
		return err
	}
	return s.HomeworkRepo.RemoveExercise(homeworkID, exerciseID)
}
