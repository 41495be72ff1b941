package model

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentCompleted AssignmentStatus = "COMPLETED" // 终态，逾期扫描不得回退
	AssignmentOverdue   AssignmentStatus = "OVERDUE"
)

// HomeworkAssignment 一次作业布置：作业模板 + 目标学生/分组 + 截止日期。
// 分组成员按查询时的当前名单解析，不在布置时固化。
// swagger:model HomeworkAssignment
type HomeworkAssignment struct {
	BaseModel
	HomeworkID uint             `gorm:"index;type:bigint unsigned;not null" json:"HomeworkId"`
	TeacherID  *uint            `gorm:"index;type:bigint unsigned" json:"TeacherId,omitempty"`
	DueDate    time.Time        `gorm:"index;not null" json:"DueDate"`
	Status     AssignmentStatus `gorm:"size:16;default:'PENDING';index" json:"Status"`
	RefCode    string           `gorm:"size:36;uniqueIndex" json:"RefCode"`

	Homework Homework                     `gorm:"foreignKey:HomeworkID" json:"Homework,omitempty"`
	Students []HomeworkAssignmentStudent  `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"Students,omitempty"`
	Groups   []HomeworkAssignmentGroup    `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"Groups,omitempty"`
}

func (HomeworkAssignment) TableName() string {
	return "homework_assignments"
}

func (a *HomeworkAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.RefCode == "" {
		a.RefCode = GenerateUUID()
	}
	if a.Status == "" {
		a.Status = AssignmentPending
	}
	return
}

// HomeworkAssignmentStudent 布置对象：单个学生
type HomeworkAssignmentStudent struct {
	BaseModel
	AssignmentID uint `gorm:"index:idx_assignment_student,unique;type:bigint unsigned;not null" json:"AssignmentId"`
	StudentID    uint `gorm:"index:idx_assignment_student,unique;type:bigint unsigned;not null" json:"StudentId"`
}

func (HomeworkAssignmentStudent) TableName() string {
	return "homework_assignment_students"
}

// HomeworkAssignmentGroup 布置对象：学生分组
type HomeworkAssignmentGroup struct {
	BaseModel
	AssignmentID uint `gorm:"index:idx_assignment_group,unique;type:bigint unsigned;not null" json:"AssignmentId"`
	GroupID      uint `gorm:"index:idx_assignment_group,unique;type:bigint unsigned;not null" json:"GroupId"`
}

func (HomeworkAssignmentGroup) TableName() string {
	return "homework_assignment_groups"
}
