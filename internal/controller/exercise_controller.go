package controller

import (
	"errors"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// CreateExercise godoc
// @Summary 创建练习题
// @Tags 练习题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.ExerciseRequest true "练习题信息"
// @Success 201 {object} util.Response{data=model.Exercise}
// @Failure 400 {object} util.Response
// @Router /api/teacher/exercises [post]
func (c *ExerciseController) CreateExercise(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.CreateExercise(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exercise)
}

// ListExercises godoc
// @Summary 获取练习题列表
// @Tags 练习题
// @Produce  json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param subject query string false "学科筛选"
// @Success 200 {object} util.Response{data=object}
// @Router /api/exercises [get]
func (c *ExerciseController) ListExercises(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	exercises, total, err := c.ExerciseService.ListExercises(page, limit, ctx.Query("subject"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"exercises": exercises,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetExercise godoc
// @Summary 获取练习题详情
// @Tags 练习题
// @Produce  json
// @Security BearerAuth
// @Param id path int true "练习题ID"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id} [get]
func (c *ExerciseController) GetExercise(ctx *gin.Context) {
	exercise, err := c.ExerciseService.GetExercise(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, exercise)
}

// UpdateExercise godoc
// @Summary 更新练习题
// @Tags 练习题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "练习题ID"
// @Param body body service.ExerciseRequest true "练习题信息"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Router /api/teacher/exercises/{id} [put]
func (c *ExerciseController) UpdateExercise(ctx *gin.Context) {
	var req service.ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.UpdateExercise(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exercise)
}

// DeleteExercise godoc
// @Summary 删除练习题
// @Tags 练习题
// @Produce  json
// @Security BearerAuth
// @Param id path int true "练习题ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/exercises/{id} [delete]
func (c *ExerciseController) DeleteExercise(ctx *gin.Context) {
	if err := c.ExerciseService.DeleteExercise(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
