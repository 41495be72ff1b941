package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) Create(achievement *model.Achievement) error {
	return r.DB.Create(achievement).Error
}

func (r *AchievementRepository) FindByID(id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.First(&achievement, id).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id ASC").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) Update(achievement *model.Achievement) error {
	return r.DB.Save(achievement).Error
}

func (r *AchievementRepository) Delete(achievement *model.Achievement) error {
	return r.DB.Delete(achievement).Error
}

// FindUnearnedByStudent 学生尚未获得的成就，授予检查只看这些，
// 天然保证同一成就不会授予第二次
func (r *AchievementRepository) FindUnearnedByStudent(studentID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where(`id NOT IN (SELECT achievement_id FROM student_achievements
		WHERE student_id = ? AND deleted_at IS NULL)`, studentID).
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) FindEarnedByStudent(studentID uint) ([]model.StudentAchievement, error) {
	var earned []model.StudentAchievement
	err := r.DB.Preload("Achievement").Where("student_id = ?", studentID).
		Order("earned_at DESC").Find(&earned).Error
	if err != nil {
		return nil, err
	}
	return earned, nil
}

func (r *AchievementRepository) Award(studentID, achievementID uint) error {
	return r.DB.Create(&model.StudentAchievement{
		StudentID:     studentID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}).Error
}

// LeaderboardEntry 按已获成就数排名的一行
type LeaderboardEntry struct {
	StudentID    uint   `json:"studentId"`
	Name         string `json:"name"`
	Achievements int64  `json:"achievements"`
}

func (r *AchievementRepository) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.DB.Table("student_achievements").
		Select("student_achievements.student_id AS student_id, users.name AS name, COUNT(*) AS achievements").
		Joins("JOIN users ON users.id = student_achievements.student_id").
		Group("student_achievements.student_id, users.name").
		Order("achievements DESC, name ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
