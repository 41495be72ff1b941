package controller

import (
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// weekWindow 解析 weekStart 查询参数，缺省取最近一个完整自然周
func weekWindow(ctx *gin.Context) (time.Time, time.Time, bool) {
	if startStr := ctx.Query("weekStart"); startStr != "" {
		start, err := time.Parse(util.DateFormat, startStr)
		if err != nil {
			util.BadRequest(ctx, "weekStart 日期格式错误")
			return time.Time{}, time.Time{}, false
		}
		return start, start.AddDate(0, 0, 6), true
	}

	start, end := service.LastWeekRange(time.Now())
	return start, end, true
}

// GetWeeklyReport godoc
// @Summary 查看学生周报
// @Description 按周汇总学生的练习和作业情况，缺省取最近一个完整自然周
// @Tags 学习周报
// @Produce  json
// @Security BearerAuth
// @Param studentId path int true "学生ID"
// @Param weekStart query string false "周起始日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.WeeklyReport}
// @Failure 404 {object} util.Response
// @Router /api/teacher/reports/{studentId} [get]
func (c *ReportController) GetWeeklyReport(ctx *gin.Context) {
	weekStart, weekEnd, ok := weekWindow(ctx)
	if !ok {
		return
	}

	report, err := c.ReportService.BuildWeeklyReport(util.MustParseUint(ctx.Param("studentId")), weekStart, weekEnd)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, report)
}

// GetMyWeeklyReport godoc
// @Summary 学生查看自己的周报
// @Tags 学习周报
// @Produce  json
// @Security BearerAuth
// @Param weekStart query string false "周起始日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.WeeklyReport}
// @Router /api/reports/mine [get]
func (c *ReportController) GetMyWeeklyReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	weekStart, weekEnd, ok := weekWindow(ctx)
	if !ok {
		return
	}

	report, err := c.ReportService.BuildWeeklyReport(claims.UserID, weekStart, weekEnd)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// SendWeeklyReports godoc
// @Summary 手动触发周报发送
// @Description 给所有有监护人邮箱的学生发送周报邮件，单个失败不中断
// @Tags 学习周报
// @Produce  json
// @Security BearerAuth
// @Param weekStart query string false "周起始日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.ReportBatchResult}
// @Router /api/admin/reports/send [post]
func (c *ReportController) SendWeeklyReports(ctx *gin.Context) {
	weekStart, weekEnd, ok := weekWindow(ctx)
	if !ok {
		return
	}

	result, err := c.ReportService.SendWeeklyReports(weekStart, weekEnd)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
