package controller

import (
	"errors"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// CreateChallenge godoc
// @Summary 创建每日挑战
// @Description 每个日期只能有一个挑战
// @Tags 每日挑战
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.ChallengeRequest true "挑战信息"
// @Success 201 {object} util.Response{data=model.DailyChallenge}
// @Failure 409 {object} util.Response "该日期已有挑战"
// @Router /api/teacher/challenges [post]
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.CreateChallenge(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrChallengeExists) {
			util.Conflict(ctx, "该日期已有挑战")
		} else if errors.Is(err, util.ErrExerciseNotFound) {
			util.BadRequest(ctx, "包含不存在的练习题")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, challenge)
}

// GetTodayChallenge godoc
// @Summary 获取今日挑战
// @Description 优先读缓存，缓存失效回源数据库
// @Tags 每日挑战
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.DailyChallenge}
// @Failure 404 {object} util.Response "今天没有挑战"
// @Router /api/challenges/today [get]
func (c *ChallengeController) GetTodayChallenge(ctx *gin.Context) {
	challenge, err := c.ChallengeService.GetTodayChallenge()
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, challenge)
}

// GetRecentChallenges godoc
// @Summary 获取近期挑战
// @Tags 每日挑战
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(7)
// @Success 200 {object} util.Response{data=[]model.DailyChallenge}
// @Router /api/challenges [get]
func (c *ChallengeController) GetRecentChallenges(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "7"))
	if limit < 1 || limit > 90 {
		limit = 7
	}

	challenges, err := c.ChallengeService.GetRecentChallenges(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, challenges)
}

// GetChallenge godoc
// @Summary 获取挑战详情
// @Tags 每日挑战
// @Produce  json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response{data=model.DailyChallenge}
// @Failure 404 {object} util.Response
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	challenge, err := c.ChallengeService.GetChallenge(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, challenge)
}

// DeleteChallenge godoc
// @Summary 删除挑战
// @Tags 每日挑战
// @Produce  json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/challenges/{id} [delete]
func (c *ChallengeController) DeleteChallenge(ctx *gin.Context) {
	if err := c.ChallengeService.DeleteChallenge(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
