package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SnapshotRepository struct {
	DB *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

// Create 纯插入，撞到 (student_id, snapshot_date) 唯一约束时返回
// gorm.ErrDuplicatedKey，由服务层回退为更新
func (r *SnapshotRepository) Create(snapshot *model.ProgressSnapshot) error {
	return r.DB.Create(snapshot).Error
}

func (r *SnapshotRepository) Save(snapshot *model.ProgressSnapshot) error {
	return r.DB.Save(snapshot).Error
}

func (r *SnapshotRepository) FindByStudentAndDate(studentID uint, date time.Time) (*model.ProgressSnapshot, error) {
	var snapshot model.ProgressSnapshot
	err := r.DB.Where("student_id = ? AND snapshot_date = ?", studentID, model.DateOf(date)).
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindByStudent 最新在前
func (r *SnapshotRepository) FindByStudent(studentID uint, limit int) ([]model.ProgressSnapshot, error) {
	var snapshots []model.ProgressSnapshot
	query := r.DB.Where("student_id = ?", studentID).Order("snapshot_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *SnapshotRepository) FindByStudentBetween(studentID uint, start, end time.Time) ([]model.ProgressSnapshot, error) {
	var snapshots []model.ProgressSnapshot
	err := r.DB.Where("student_id = ? AND snapshot_date BETWEEN ? AND ?",
		studentID, model.DateOf(start), model.DateOf(end)).
		Order("snapshot_date DESC").Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
