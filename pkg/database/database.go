package database

import (
	"fmt"
	"log"
	"school_edu_backend/internal/config"
	"school_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	// TranslateError: 快照并发插入依赖 gorm.ErrDuplicatedKey 做冲突回退
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.StudentGroup{},
		&model.GroupStudent{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.Homework{},
		&model.HomeworkExercise{},
		&model.HomeworkAssignment{},
		&model.HomeworkAssignmentStudent{},
		&model.HomeworkAssignmentGroup{},
		&model.ProgressSnapshot{},
		&model.Achievement{},
		&model.StudentAchievement{},
		&model.DailyChallenge{},
		&model.DailyChallengeExercise{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认成就（条件为 JSON 阈值，详见 AchievementService）
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count == 0 {
		defaultAchievements := []model.Achievement{
			{Name: "初来乍到", Description: "完成第一道练习", Icon: "first-steps.png", Criteria: `{"totalAttempts": 1}`},
			{Name: "百题斩", Description: "累计完成 100 次练习", Icon: "hundred.png", Criteria: `{"totalAttempts": 100}`},
			{Name: "连续一周", Description: "连续 7 天每天都有练习", Icon: "streak7.png", Criteria: `{"currentStreak": 7}`},
			{Name: "月度坚持", Description: "连续 30 天每天都有练习", Icon: "streak30.png", Criteria: `{"currentStreak": 30}`},
			{Name: "神射手", Description: "至少 50 次练习且正确率不低于 90%", Icon: "sharpshooter.png", Criteria: `{"totalAttempts": 50, "minAccuracy": 90}`},
			{Name: "勤学十时", Description: "累计练习时长达到 10 小时", Icon: "tenhours.png", Criteria: `{"totalPracticeSeconds": 36000}`},
		}
		for _, a := range defaultAchievements {
			db.Create(&a)
		}
	}

	return db, nil
}
