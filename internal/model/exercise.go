package model

// swagger:model Exercise
type Exercise struct {
	BaseModel
	Title      string `gorm:"size:200;not null" json:"Title"`
	Content    string `gorm:"type:text" json:"Content"`
	Subject    string `gorm:"size:50;index;not null" json:"Subject"` // 周报中按学科分组统计
	Difficulty int    `gorm:"default:1" json:"Difficulty"`
	TeacherID  uint   `gorm:"index;type:bigint unsigned" json:"TeacherId"`
}

func (Exercise) TableName() string {
	return "exercises"
}
