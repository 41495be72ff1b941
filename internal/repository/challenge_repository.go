package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// Create 一次事务里创建挑战和练习关联
func (r *ChallengeRepository) Create(challenge *model.DailyChallenge, exerciseIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		for i, eid := range exerciseIDs {
			link := &model.DailyChallengeExercise{ChallengeID: challenge.ID, ExerciseID: eid, OrderIndex: i}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ChallengeRepository) FindByID(id uint) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	err := r.DB.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("daily_challenge_exercises.order_index ASC")
	}).Preload("Exercises.Exercise").First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindByDate(date time.Time) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	err := r.DB.Preload("Exercises.Exercise").
		Where("challenge_date = ?", model.DateOf(date)).
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindRecent(limit int) ([]model.DailyChallenge, error) {
	var challenges []model.DailyChallenge
	err := r.DB.Order("challenge_date DESC").Limit(limit).Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *ChallengeRepository) Delete(challenge *model.DailyChallenge) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", challenge.ID).Delete(&model.DailyChallengeExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(challenge).Error
	})
}
