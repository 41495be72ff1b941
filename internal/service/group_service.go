package service

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"

	"gorm.io/gorm"
)

// GroupService 学生分组管理
type GroupService struct {
	GroupRepo *repository.GroupRepository
	UserRepo  *repository.UserRepository
}

func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{
		GroupRepo: groupRepo,
		UserRepo:  userRepo,
	}
}

type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *GroupService) CreateGroup(teacherID uint, req GroupRequest) (*model.StudentGroup, error) {
	group := &model.StudentGroup{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.GroupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroup(id uint) (*model.StudentGroup, error) {
	group, err := s.GroupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroupsByTeacher(teacherID uint) ([]model.StudentGroup, error) {
	return s.GroupRepo.FindByTeacher(teacherID)
}

func (s *GroupService) UpdateGroup(id uint, req GroupRequest) (*model.StudentGroup, error) {
	group, err := s.GetGroup(id)
	if err != nil {
		return nil, err
	}
	group.Name = req.Name
	group.Description = req.Description
	if err := s.GroupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) DeleteGroup(id uint) error {
	group, err := s.GetGroup(id)
	if err != nil {
		return err
	}
	return s.GroupRepo.Delete(group)
}

// AddStudent 名单变动立刻影响按分组布置的作业可见性
func (s *GroupService) AddStudent(groupID, studentID uint) error {
	if _, err := s.GetGroup(groupID); err != nil {
		return err
	}
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStudentNotFound
		}
		return err
	}
	if student.Role != model.Student {
		return errors.New("only student accounts can join a group")
	}
	if err := s.GroupRepo.AddStudent(groupID, studentID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // 已在组里
		}
		return err
	}
	return nil
}

func (s *GroupService) RemoveStudent(groupID, studentID uint) error {
	if _, err := s.GetGroup(groupID); err != nil {
		return err
	}
	return s.GroupRepo.RemoveStudent(groupID, studentID)
}

func (s *GroupService) GetMembers(groupID uint) ([]model.User, error) {
	if _, err := s.GetGroup(groupID); err != nil {
		return nil, err
	}
	return s.GroupRepo.FindMembers(groupID)
}
