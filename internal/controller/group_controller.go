package controller

import (
	"errors"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// CreateGroup godoc
// @Summary 创建学生分组
// @Tags 分组管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.GroupRequest true "分组信息"
// @Success 201 {object} util.Response{data=model.StudentGroup}
// @Failure 400 {object} util.Response
// @Router /api/teacher/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.CreateGroup(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// GetGroups godoc
// @Summary 获取教师的分组列表
// @Tags 分组管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentGroup}
// @Router /api/teacher/groups [get]
func (c *GroupController) GetGroups(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	groups, err := c.GroupService.GetGroupsByTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// GetGroup godoc
// @Summary 获取分组详情
// @Tags 分组管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Success 200 {object} util.Response{data=model.StudentGroup}
// @Failure 404 {object} util.Response
// @Router /api/teacher/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	group, err := c.GroupService.GetGroup(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, group)
}

// UpdateGroup godoc
// @Summary 更新分组信息
// @Tags 分组管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Param body body service.GroupRequest true "分组信息"
// @Success 200 {object} util.Response{data=model.StudentGroup}
// @Router /api/teacher/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.UpdateGroup(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, group)
}

// DeleteGroup godoc
// @Summary 删除分组
// @Description 删除分组及其成员关系，不影响已布置的作业记录
// @Tags 分组管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := c.GroupService.DeleteGroup(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type GroupMemberRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

// AddStudent godoc
// @Summary 向分组添加学生
// @Description 重复添加视为成功，不报错
// @Tags 分组管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Param body body GroupMemberRequest true "学生ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/teacher/groups/{id}/students [post]
func (c *GroupController) AddStudent(ctx *gin.Context) {
	var req GroupMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.GroupService.AddStudent(util.MustParseUint(ctx.Param("id")), req.StudentID)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) || errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// RemoveStudent godoc
// @Summary 从分组移除学生
// @Tags 分组管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/groups/{id}/students/{studentId} [delete]
func (c *GroupController) RemoveStudent(ctx *gin.Context) {
	err := c.GroupService.RemoveStudent(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("studentId")),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetMembers godoc
// @Summary 获取分组成员
// @Tags 分组管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/teacher/groups/{id}/students [get]
func (c *GroupController) GetMembers(ctx *gin.Context) {
	members, err := c.GroupService.GetMembers(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, members)
}
