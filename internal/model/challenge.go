package model

import (
	"time"
)

// DailyChallenge 每日挑战，每个日期最多一条
// swagger:model DailyChallenge
type DailyChallenge struct {
	BaseModel
	Title         string    `gorm:"size:200;not null" json:"Title"`
	ChallengeDate time.Time `gorm:"type:date;uniqueIndex;not null" json:"ChallengeDate"`
	TeacherID     uint      `gorm:"index;type:bigint unsigned" json:"TeacherId"`

	Exercises []DailyChallengeExercise `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"Exercises,omitempty"`
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}

// DailyChallengeExercise 每日挑战与练习的关联
type DailyChallengeExercise struct {
	BaseModel
	ChallengeID uint `gorm:"index:idx_challenge_exercise,unique;type:bigint unsigned;not null" json:"ChallengeId"`
	ExerciseID  uint `gorm:"index:idx_challenge_exercise,unique;type:bigint unsigned;not null" json:"ExerciseId"`
	OrderIndex  int  `gorm:"default:0" json:"OrderIndex"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID" json:"Exercise,omitempty"`
}

func (DailyChallengeExercise) TableName() string {
	return "daily_challenge_exercises"
}
