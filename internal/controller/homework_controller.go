package controller

import (
	"errors"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HomeworkController struct {
	HomeworkService *service.HomeworkService
}

func NewHomeworkController(homeworkService *service.HomeworkService) *HomeworkController {
	return &HomeworkController{HomeworkService: homeworkService}
}

// CreateHomework godoc
// @Summary 创建作业模板
// @Description 同一教师名下作业标题不能重复
// @Tags 作业管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.HomeworkRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Homework}
// @Failure 409 {object} util.Response "标题重复"
// @Router /api/teacher/homeworks [post]
func (c *HomeworkController) CreateHomework(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.HomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	homework, err := c.HomeworkService.CreateHomework(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrDuplicateTitle) {
			util.Conflict(ctx, "同名作业已存在")
		} else if errors.Is(err, util.ErrExerciseNotFound) {
			util.BadRequest(ctx, "包含不存在的练习题")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, homework)
}

// GetHomeworks godoc
// @Summary 获取教师的作业列表
// @Tags 作业管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Homework}
// @Router /api/teacher/homeworks [get]
func (c *HomeworkController) GetHomeworks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	homeworks, err := c.HomeworkService.GetHomeworksByTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, homeworks)
}

// GetHomework godoc
// @Summary 获取作业详情
// @Description 包含作业下按序排列的练习列表
// @Tags 作业管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.Homework}
// @Failure 404 {object} util.Response
// @Router /api/teacher/homeworks/{id} [get]
func (c *HomeworkController) GetHomework(ctx *gin.Context) {
	homework, err := c.HomeworkService.GetHomework(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, homework)
}

// UpdateHomework godoc
// @Summary 更新作业模板
// @Tags 作业管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "作业ID"
// @Param body body service.HomeworkRequest true "作业信息"
// @Success 200 {object} util.Response{data=model.Homework}
// @Failure 409 {object} util.Response "标题重复"
// @Router /api/teacher/homeworks/{id} [put]
func (c *HomeworkController) UpdateHomework(ctx *gin.Context) {
	var req service.HomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	homework, err := c.HomeworkService.UpdateHomework(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrHomeworkNotFound) {
			util.NotFound(ctx)
		} else if errors.Is(err, util.ErrDuplicateTitle) {
			util.Conflict(ctx, "同名作业已存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, homework)
}

// DeleteHomework godoc
// @Summary 删除作业模板
// @Description 级联删除作业下的练习关联
// @Tags 作业管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/homeworks/{id} [delete]
func (c *HomeworkController) DeleteHomework(ctx *gin.Context) {
	if err := c.HomeworkService.DeleteHomework(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrHomeworkNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// AddExercise godoc
// @Summary 向作业添加练习
// @Tags 作业管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "作业ID"
// @Param body body service.HomeworkExerciseRequest true "练习配置"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/teacher/homeworks/{id}/exercises [post]
func (c *HomeworkController) AddExercise(ctx *gin.Context) {
	var req service.HomeworkExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.HomeworkService.AddExercise(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrHomeworkNotFound) || errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// RemoveExercise godoc
// @Summary 从作业移除练习
// @Tags 作业管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "作业ID"
// @Param exerciseId path int true "练习题ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/homeworks/{id}/exercises/{exerciseId} [delete]
func (c *HomeworkController) RemoveExercise(ctx *gin.Context) {
	err := c.HomeworkService.RemoveExercise(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("exerciseId")),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
