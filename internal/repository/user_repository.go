package repository

import (
	"school_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) TouchLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// FindAllStudents 每日快照批处理遍历所有学生
func (r *UserRepository) FindAllStudents() ([]model.User, error) {
	var students []model.User
	err := r.DB.Where("role = ? AND disabled = ?", model.Student, false).Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// FindStudentsWithGuardianEmail 周报批处理只发给有监护人邮箱的学生
func (r *UserRepository) FindStudentsWithGuardianEmail() ([]model.User, error) {
	var students []model.User
	err := r.DB.
		Joins("JOIN users guardians ON guardians.id = users.guardian_id").
		Where("users.role = ? AND users.disabled = ? AND guardians.email <> ''", model.Student, false).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *UserRepository) FindGuardian(student *model.User) (*model.User, error) {
	if student.GuardianID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(*student.GuardianID)
}
