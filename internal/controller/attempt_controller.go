package controller

import (
	"errors"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// RecordAttempt godoc
// @Summary 提交练习完成记录
// @Description 记录一次练习完成，并触发快照更新、成就检查和作业状态检查
// @Tags 练习记录
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.AttemptRequest true "练习记录"
// @Success 201 {object} util.Response{data=model.ExerciseAttempt}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "练习题不存在"
// @Router /api/attempts [post]
func (c *AttemptController) RecordAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.RecordAttempt(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

// GetAttempts godoc
// @Summary 获取当前学生的练习记录
// @Tags 练习记录
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ExerciseAttempt}
// @Router /api/attempts [get]
func (c *AttemptController) GetAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AttemptService.GetAttemptsForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 获取练习记录详情
// @Tags 练习记录
// @Produce  json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.ExerciseAttempt}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attempt, err := c.AttemptService.GetAttempt(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, attempt)
}

// UpdateAttempt godoc
// @Summary 修正练习记录
// @Description 教师修正已有记录，修正后重新跑一遍快照/成就/作业检查
// @Tags 练习记录
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param body body service.AttemptRequest true "练习记录"
// @Success 200 {object} util.Response{data=model.ExerciseAttempt}
// @Router /api/teacher/attempts/{id} [put]
func (c *AttemptController) UpdateAttempt(ctx *gin.Context) {
	var req service.AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.UpdateAttempt(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}
