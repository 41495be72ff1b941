package model

import (
	"time"

	"gorm.io/gorm"
)

// Homework 作业模板，可多次布置给不同学生/分组
// swagger:model Homework
type Homework struct {
	BaseModel
	Title       string `gorm:"size:200;not null;index:idx_teacher_title,unique" json:"Title"`
	Description string `gorm:"type:text" json:"Description"`
	TeacherID   uint   `gorm:"index:idx_teacher_title,unique;type:bigint unsigned;not null" json:"TeacherId"`
	RefCode     string `gorm:"size:36;uniqueIndex" json:"RefCode"`

	Exercises []HomeworkExercise `gorm:"foreignKey:HomeworkID;constraint:OnDelete:CASCADE" json:"Exercises,omitempty"`
}

func (Homework) TableName() string {
	return "homeworks"
}

func (h *Homework) BeforeCreate(tx *gorm.DB) (err error) {
	if h.RefCode == "" {
		h.RefCode = GenerateUUID()
	}
	return
}

// HomeworkExercise 作业与练习的关联，带每题要求完成次数和截止日期
type HomeworkExercise struct {
	BaseModel
	HomeworkID       uint       `gorm:"index:idx_homework_exercise,unique;type:bigint unsigned;not null" json:"HomeworkId"`
	ExerciseID       uint       `gorm:"index:idx_homework_exercise,unique;type:bigint unsigned;not null" json:"ExerciseId"`
	RequiredAttempts int        `gorm:"default:1" json:"RequiredAttempts"`
	DueDate          *time.Time `json:"DueDate,omitempty"`
	OrderIndex       int        `gorm:"default:0" json:"OrderIndex"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID" json:"Exercise,omitempty"`
}

func (HomeworkExercise) TableName() string {
	return "homework_exercises"
}
