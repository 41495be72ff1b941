package controller

import (
	"errors"
	"strconv"

	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// GetStudentAchievements godoc
// @Summary 获取当前学生已获得的成就
// @Tags 成就系统
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentAchievement}
// @Router /api/achievements/mine [get]
func (c *AchievementController) GetStudentAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetStudentAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// GetAllAchievements godoc
// @Summary 获取全部成就定义
// @Tags 成就系统
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements [get]
func (c *AchievementController) GetAllAchievements(ctx *gin.Context) {
	achievements, err := c.AchievementService.GetAllAchievements()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// GetLeaderboard godoc
// @Summary 成就排行榜
// @Description 按已获成就数降序排名，默认前 10 名
// @Tags 成就系统
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "返回条数，默认 10，最大 50"
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry}
// @Router /api/achievements/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	entries, err := c.AchievementService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// CheckAchievements godoc
// @Summary 手动触发成就检查
// @Description 对当前学生评估所有未获得的成就，返回本次新授予的成就
// @Tags 成就系统
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements/check [post]
func (c *AchievementController) CheckAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	awarded, err := c.AchievementService.CheckAndAwardAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, awarded)
}

// CreateAchievement godoc
// @Summary 创建成就定义
// @Description 条件字段必须是合法的JSON条件对象
// @Tags 成就系统
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.AchievementRequest true "成就定义"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Failure 400 {object} util.Response "条件格式错误"
// @Router /api/admin/achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.CreateAchievement(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, achievement)
}

// UpdateAchievement godoc
// @Summary 更新成就定义
// @Tags 成就系统
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "成就ID"
// @Param body body service.AchievementRequest true "成就定义"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Router /api/admin/achievements/{id} [put]
func (c *AchievementController) UpdateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.UpdateAchievement(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrAchievementNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, achievement)
}

// DeleteAchievement godoc
// @Summary 删除成就定义
// @Tags 成就系统
// @Produce  json
// @Security BearerAuth
// @Param id path int true "成就ID"
// @Success 200 {object} util.Response
// @Router /api/admin/achievements/{id} [delete]
func (c *AchievementController) DeleteAchievement(ctx *gin.Context) {
	if err := c.AchievementService.DeleteAchievement(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrAchievementNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
