package model

import (
	"encoding/json"
	"time"
)

// Achievement 成就定义，Criteria 为 JSON 阈值条件
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"Name"`
	Description string `gorm:"size:500" json:"Description"`
	Icon        string `gorm:"size:255" json:"Icon"`
	Criteria    string `gorm:"type:text" json:"Criteria"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementCriteria 成就条件。只有出现的键才构成约束，未知键忽略。
type AchievementCriteria struct {
	TotalAttempts        *int     `json:"totalAttempts,omitempty"`
	TotalCorrect         *int     `json:"totalCorrect,omitempty"`
	TotalPracticeSeconds *int64   `json:"totalPracticeSeconds,omitempty"`
	CurrentStreak        *int     `json:"currentStreak,omitempty"`
	MinAccuracy          *float64 `json:"minAccuracy,omitempty"`
}

// Empty 没有任何可识别的键，这类成就永远不会被授予
func (c AchievementCriteria) Empty() bool {
	return c.TotalAttempts == nil && c.TotalCorrect == nil &&
		c.TotalPracticeSeconds == nil && c.CurrentStreak == nil && c.MinAccuracy == nil
}

// ParseCriteria 解析成就条件 JSON
func (a *Achievement) ParseCriteria() (AchievementCriteria, error) {
	var c AchievementCriteria
	err := json.Unmarshal([]byte(a.Criteria), &c)
	return c, err
}

// StudentAchievement 学生已获得的成就，(student_id, achievement_id) 唯一，永不重复授予
type StudentAchievement struct {
	BaseModel
	StudentID     uint      `gorm:"index:idx_student_achievement,unique;type:bigint unsigned;not null" json:"StudentId"`
	AchievementID uint      `gorm:"index:idx_student_achievement,unique;type:bigint unsigned;not null" json:"AchievementId"`
	EarnedAt      time.Time `gorm:"not null" json:"EarnedAt"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"Achievement,omitempty"`
}

func (StudentAchievement) TableName() string {
	return "student_achievements"
}
