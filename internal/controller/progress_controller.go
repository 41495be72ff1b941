package controller

import (
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	SnapshotService *service.SnapshotService
	ActivityService *service.ActivityService
}

func NewProgressController(snapshotService *service.SnapshotService, activityService *service.ActivityService) *ProgressController {
	return &ProgressController{
		SnapshotService: snapshotService,
		ActivityService: activityService,
	}
}

// studentIDFor 学生只能看自己的数据，教师和管理员可以通过 studentId 查任意学生
func studentIDFor(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0, false
	}

	if idStr := ctx.Query("studentId"); idStr != "" && string(claims.Role) != "student" {
		return util.MustParseUint(idStr), true
	}
	return claims.UserID, true
}

// GetSnapshots godoc
// @Summary 获取进度快照
// @Description 支持按日期区间或最近N条查询
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param studentId query int false "学生ID，教师/管理员可用"
// @Param start query string false "起始日期 YYYY-MM-DD"
// @Param end query string false "结束日期 YYYY-MM-DD"
// @Param limit query int false "最近N条" default(30)
// @Success 200 {object} util.Response{data=[]model.ProgressSnapshot}
// @Router /api/progress/snapshots [get]
func (c *ProgressController) GetSnapshots(ctx *gin.Context) {
	studentID, ok := studentIDFor(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	startStr := ctx.Query("start")
	endStr := ctx.Query("end")
	if startStr != "" && endStr != "" {
		start, err := time.Parse(util.DateFormat, startStr)
		if err != nil {
			util.BadRequest(ctx, "起始日期格式错误")
			return
		}
		end, err := time.Parse(util.DateFormat, endStr)
		if err != nil {
			util.BadRequest(ctx, "结束日期格式错误")
			return
		}

		snapshots, err := c.SnapshotService.GetSnapshotsBetween(studentID, start, end)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, snapshots)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "30"))
	if limit < 1 || limit > 365 {
		limit = 30
	}

	snapshots, err := c.SnapshotService.GetLatestSnapshots(studentID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, snapshots)
}

// GetTodayProgress godoc
// @Summary 获取今日实时进度
// @Description 基于练习记录实时计算，不依赖快照
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param studentId query int false "学生ID，教师/管理员可用"
// @Success 200 {object} util.Response{data=service.ActivityMetrics}
// @Router /api/progress/today [get]
func (c *ProgressController) GetTodayProgress(ctx *gin.Context) {
	studentID, ok := studentIDFor(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	metrics, err := c.ActivityService.MetricsFor(studentID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, metrics)
}

// GetStreak godoc
// @Summary 获取当前连续学习天数
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param studentId query int false "学生ID，教师/管理员可用"
// @Success 200 {object} util.Response{data=object}
// @Router /api/progress/streak [get]
func (c *ProgressController) GetStreak(ctx *gin.Context) {
	studentID, ok := studentIDFor(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	now := time.Now()
	streak, err := c.ActivityService.CurrentStreak(studentID, &now)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"streak": streak})
}

// RefreshSnapshot godoc
// @Summary 手动刷新今日快照
// @Description 立即为指定学生重算并落库今天的快照
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response{data=model.ProgressSnapshot}
// @Router /api/teacher/progress/{studentId}/refresh [post]
func (c *ProgressController) RefreshSnapshot(ctx *gin.Context) {
	snapshot, err := c.SnapshotService.CreateOrUpdateSnapshotForDate(
		util.MustParseUint(ctx.Param("studentId")), time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// RunSnapshotBatch godoc
// @Summary 手动触发全量快照任务
// @Description 对所有学生跑一遍今日快照，单个失败不中断
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.BatchResult}
// @Router /api/admin/progress/snapshot-batch [post]
func (c *ProgressController) RunSnapshotBatch(ctx *gin.Context) {
	result, err := c.SnapshotService.CreateSnapshotsForAllStudentsToday()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
