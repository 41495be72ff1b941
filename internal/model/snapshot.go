package model

import (
	"time"
)

// ProgressSnapshot 每个学生每天一条的累计统计快照。
// (student_id, snapshot_date) 唯一约束是并发创建时的最终仲裁，
// 插入冲突回退为更新，见 SnapshotService。
// swagger:model ProgressSnapshot
type ProgressSnapshot struct {
	BaseModel
	StudentID    uint      `gorm:"index:idx_student_snapshot_date,unique;type:bigint unsigned;not null" json:"StudentId"`
	SnapshotDate time.Time `gorm:"index:idx_student_snapshot_date,unique;type:date;not null" json:"SnapshotDate"`

	TotalAttempts        int   `gorm:"default:0" json:"TotalAttempts"`
	TotalCorrect         int   `gorm:"default:0" json:"TotalCorrect"`
	TotalPracticeSeconds int64 `gorm:"default:0" json:"TotalPracticeSeconds"`
	CurrentStreak        int   `gorm:"default:0" json:"CurrentStreak"`
}

func (ProgressSnapshot) TableName() string {
	return "progress_snapshots"
}
