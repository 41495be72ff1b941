package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// GetUsers godoc
// @Summary 获取用户列表
// @Description 管理员分页查询用户，支持角色/状态/关键词筛选
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Param role query string false "角色筛选"
// @Param status query string false "状态筛选 online/offline/disabled"
// @Param search query string false "姓名或邮箱关键词"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := service.UserFilter{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}

	users, total, err := c.UserService.GetUsers(page, pageSize, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"users":    users,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetUser godoc
// @Summary 获取用户详情
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.UserService.GetUserByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user)
}

type LinkGuardianRequest struct {
	GuardianID uint `json:"guardianId" binding:"required"`
}

// LinkGuardian godoc
// @Summary 关联监护人
// @Description 为学生账号关联监护人账号，周报将发送至监护人邮箱
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param body body LinkGuardianRequest true "监护人ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/users/{id}/guardian [put]
func (c *UserController) LinkGuardian(ctx *gin.Context) {
	var req LinkGuardianRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.UserService.LinkGuardian(util.MustParseUint(ctx.Param("id")), req.GuardianID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) || errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, nil)
}

// UnlinkGuardian godoc
// @Summary 取消监护人关联
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/guardian [delete]
func (c *UserController) UnlinkGuardian(ctx *gin.Context) {
	if err := c.UserService.UnlinkGuardian(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ResetPassword godoc
// @Summary 重置用户密码
// @Description 管理员重置指定用户的密码，返回临时密码
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	tempPassword, err := c.UserService.ResetPassword(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"tempPassword": tempPassword})
}

type DisableUserRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// DisableUser godoc
// @Summary 禁用/启用用户
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body DisableUserRequest true "禁用标记"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disable [put]
func (c *UserController) DisableUser(ctx *gin.Context) {
	var req DisableUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.DisableUser(util.MustParseUint(ctx.Param("id")), *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// DeleteUser godoc
// @Summary 删除用户
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	if err := c.UserService.DeleteUser(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Language string `json:"language"`
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Language)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传头像图片并更新当前用户的头像地址
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "头像文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的文件")
		return
	}

	if fileHeader.Size > util.MaxAvatarSize {
		util.BadRequest(ctx, "文件大小超过限制")
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if !util.IsAllowedAvatarExt(ext) {
		util.BadRequest(ctx, "不支持的文件类型")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d/%s%s", claims.UserID, uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url, "uploadedAt": time.Now()})
}

// GetGuardianStudents godoc
// @Summary 监护人查看关联学生
// @Description 返回关联到当前监护人账号的学生列表
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/guardian/students [get]
func (c *UserController) GetGuardianStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var students []model.User
	err := c.UserService.UserRepo.DB.
		Where("guardian_id = ? AND role = ?", claims.UserID, model.Student).
		Find(&students).Error
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
