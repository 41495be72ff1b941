package service

import (
	"errors"
	"fmt"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFilter 定义用户筛选条件
// swagger:model UserFilter
type UserFilter struct {
	Role      string
	Status    string
	Search    string
	StartDate time.Time
	EndDate   time.Time
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

// GetUsers 获取用户列表，支持分页和筛选
func (s *UserService) GetUsers(page, pageSize int, filter UserFilter) ([]model.User, int, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Status == "online" {
		query = query.Where("last_login > ?", time.Now().Add(-24*time.Hour))
	} else if filter.Status == "offline" {
		query = query.Where("last_login <= ?", time.Now().Add(-24*time.Hour))
	} else if filter.Status == "disabled" {
		query = query.Where("disabled = ?", true)
	}

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	if !filter.StartDate.IsZero() {
		query = query.Where("created_at >= ?", filter.StartDate)
	}

	if !filter.EndDate.IsZero() {
		query = query.Where("created_at <= ?", filter.EndDate)
	}

	query.Count(&total)

	offset := (page - 1) * pageSize
	query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users)

	return users, int(total), nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

// UpdateUser 更新用户信息
func (s *UserService) UpdateUser(user *model.User) error {
	existingUser, err := s.UserRepo.FindByID(user.ID)
	if err != nil {
		return util.ErrUserNotFound
	}

	existingUser.Name = user.Name
	existingUser.Email = user.Email
	existingUser.Role = user.Role
	existingUser.Language = user.Language
	existingUser.Disabled = user.Disabled
	existingUser.UpdatedAt = time.Now()

	return s.UserRepo.Update(existingUser)
}

// LinkGuardian 为学生账号关联监护人，周报发送依赖这个关联
func (s *UserService) LinkGuardian(studentID, guardianID uint) error {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return util.ErrStudentNotFound
	}
	if student.Role != model.Student {
		return errors.New("guardian can only be linked to a student account")
	}

	guardian, err := s.UserRepo.FindByID(guardianID)
	if err != nil {
		return util.ErrUserNotFound
	}
	if guardian.Role != model.Guardian {
		return errors.New("linked account is not a guardian")
	}

	student.GuardianID = &guardian.ID
	return s.UserRepo.Update(student)
}

func (s *UserService) UnlinkGuardian(studentID uint) error {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return util.ErrStudentNotFound
	}
	student.GuardianID = nil
	return s.UserRepo.Update(student)
}

// ResetPassword 重置用户密码
func (s *UserService) ResetPassword(userID uint) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	tempPassword := generateTempPassword()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user.Password = string(hashedPassword)
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return tempPassword, nil
}

func (s *UserService) DeleteUser(id uint) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	return s.UserRepo.DB.Delete(user).Error
}

// DisableUser 禁用/启用用户
func (s *UserService) DisableUser(id uint, disable bool) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	user.Disabled = disable
	user.UpdatedAt = time.Now()

	return s.UserRepo.Update(user)
}

// generateTempPassword 生成临时密码
func generateTempPassword() string {
	return fmt.Sprintf("temp%d", time.Now().UnixNano()%100000000)
}

// UpdateProfile 用户更新自己的资料
func (s *UserService) UpdateProfile(userID uint, name, language string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if language != "" {
		user.Language = language
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(userID uint, avatarURL string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	user.Avatar = avatarURL
	return s.UserRepo.Update(user)
}
