package model

// StudentGroup 学生分组（班级/小组），由教师维护
// swagger:model StudentGroup
type StudentGroup struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"Name"`
	Description string `gorm:"size:500" json:"Description"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned;not null" json:"TeacherId"`
}

func (StudentGroup) TableName() string {
	return "student_groups"
}

// GroupStudent 分组成员关联表。作业布置到分组时按当前名单动态解析，
// 后加入分组的学生同样能看到之前布置的作业。
type GroupStudent struct {
	BaseModel
	GroupID   uint `gorm:"index:idx_group_student,unique;type:bigint unsigned;not null" json:"GroupId"`
	StudentID uint `gorm:"index:idx_group_student,unique;type:bigint unsigned;not null" json:"StudentId"`
}

func (GroupStudent) TableName() string {
	return "group_students"
}
