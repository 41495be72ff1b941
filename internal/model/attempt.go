package model

import (
	"time"
)

// ExerciseAttempt 学生对某道练习的一次完成记录，所有统计都由这条只追加的流派生
// swagger:model ExerciseAttempt
type ExerciseAttempt struct {
	BaseModel
	StudentID  uint `gorm:"index;type:bigint unsigned;not null" json:"StudentId"`
	ExerciseID uint `gorm:"index;type:bigint unsigned;not null" json:"ExerciseId"`

	StartedAt   *time.Time `gorm:"index" json:"StartedAt,omitempty"`
	CompletedAt *time.Time `gorm:"index" json:"CompletedAt,omitempty"`

	Score        int     `gorm:"default:0" json:"Score"`
	Correct      bool    `gorm:"default:false" json:"Correct"`
	MistakeCount int     `gorm:"default:0" json:"MistakeCount"`
	Accuracy     float64 `gorm:"default:0" json:"Accuracy"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID" json:"Exercise,omitempty"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}

// PracticeSeconds 练习时长，缺少任一时间戳时计 0
func (a *ExerciseAttempt) PracticeSeconds() int64 {
	if a.StartedAt == nil || a.CompletedAt == nil {
		return 0
	}
	secs := int64(a.CompletedAt.Sub(*a.StartedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
