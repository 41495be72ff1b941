package controller

import (
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// CreateAssignment godoc
// @Summary 布置作业
// @Description 把作业模板布置给学生或分组，初始状态为 PENDING
// @Tags 作业布置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.CreateAssignmentRequest true "布置信息"
// @Success 201 {object} util.Response{data=model.HomeworkAssignment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "作业或目标不存在"
// @Router /api/teacher/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.CreateHomeworkAssignment(claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrHomeworkNotFound),
			errors.Is(err, util.ErrStudentNotFound),
			errors.Is(err, util.ErrGroupNotFound):
			util.NotFound(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, assignment)
}

// parseAssignmentStatus 校验状态筛选参数，未知值直接拒绝而不是查出空列表
func parseAssignmentStatus(raw string) (model.AssignmentStatus, bool) {
	switch status := model.AssignmentStatus(raw); status {
	case model.AssignmentPending, model.AssignmentCompleted, model.AssignmentOverdue:
		return status, true
	default:
		return "", false
	}
}

// GetTeacherAssignments godoc
// @Summary 教师查看已布置的作业
// @Description 列表返回前会先刷新过期状态
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param status query string false "状态筛选 PENDING/COMPLETED/OVERDUE"
// @Success 200 {object} util.Response{data=[]model.HomeworkAssignment}
// @Router /api/teacher/assignments [get]
func (c *AssignmentController) GetTeacherAssignments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if status := ctx.Query("status"); status != "" {
		parsed, ok := parseAssignmentStatus(status)
		if !ok {
			util.BadRequest(ctx, "status 只能是 PENDING/COMPLETED/OVERDUE")
			return
		}
		assignments, err := c.AssignmentService.GetAssignmentsByStatus(parsed)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, assignments)
		return
	}

	assignments, err := c.AssignmentService.GetAssignmentsForTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// GetStudentAssignments godoc
// @Summary 学生查看自己的作业
// @Description 包含直接布置和通过分组布置的作业，按当前分组名单解析
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.HomeworkAssignment}
// @Router /api/assignments [get]
func (c *AssignmentController) GetStudentAssignments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assignments, err := c.AssignmentService.GetAssignmentsForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// GetGroupAssignments godoc
// @Summary 查看分组的作业
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "分组ID"
// @Success 200 {object} util.Response{data=[]model.HomeworkAssignment}
// @Router /api/teacher/groups/{id}/assignments [get]
func (c *AssignmentController) GetGroupAssignments(ctx *gin.Context) {
	assignments, err := c.AssignmentService.GetAssignmentsForGroup(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// GetAssignment godoc
// @Summary 获取作业布置详情
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Success 200 {object} util.Response{data=model.HomeworkAssignment}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	assignment, err := c.AssignmentService.GetAssignment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, assignment)
}

type AssignStudentsRequest struct {
	StudentIDs []uint `json:"studentIds" binding:"required"`
}

// AddStudents godoc
// @Summary 追加布置对象（学生）
// @Description 已在列表中的学生直接忽略
// @Tags 作业布置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Param body body AssignStudentsRequest true "学生ID列表"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id}/students [post]
func (c *AssignmentController) AddStudents(ctx *gin.Context) {
	var req AssignStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AssignmentService.AddStudentsToAssignment(util.MustParseUint(ctx.Param("id")), req.StudentIDs)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) || errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// RemoveStudent godoc
// @Summary 移除布置对象（学生）
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id}/students/{studentId} [delete]
func (c *AssignmentController) RemoveStudent(ctx *gin.Context) {
	err := c.AssignmentService.RemoveStudentFromAssignment(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("studentId")),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type AssignGroupsRequest struct {
	GroupIDs []uint `json:"groupIds" binding:"required"`
}

// AddGroups godoc
// @Summary 追加布置对象（分组）
// @Tags 作业布置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Param body body AssignGroupsRequest true "分组ID列表"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id}/groups [post]
func (c *AssignmentController) AddGroups(ctx *gin.Context) {
	var req AssignGroupsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AssignmentService.AddGroupsToAssignment(util.MustParseUint(ctx.Param("id")), req.GroupIDs)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) || errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// RemoveGroup godoc
// @Summary 移除布置对象（分组）
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Param groupId path int true "分组ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id}/groups/{groupId} [delete]
func (c *AssignmentController) RemoveGroup(ctx *gin.Context) {
	err := c.AssignmentService.RemoveGroupFromAssignment(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("groupId")),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CheckAssignment godoc
// @Summary 手动触发作业完成检查
// @Description 对指定学生重新评估该次布置的完成状态
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response{data=model.HomeworkAssignment}
// @Router /api/teacher/assignments/{id}/check/{studentId} [post]
func (c *AssignmentController) CheckAssignment(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))
	err := c.AssignmentService.CheckAndUpdateAssignmentStatus(assignmentID, util.MustParseUint(ctx.Param("studentId")))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	assignment, err := c.AssignmentService.GetAssignment(assignmentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// DeleteAssignment godoc
// @Summary 撤销作业布置
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Param id path int true "布置ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	if err := c.AssignmentService.DeleteAssignment(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// SweepOverdue godoc
// @Summary 手动触发逾期扫描
// @Description 把已过截止日期且仍为 PENDING 的布置翻转为 OVERDUE，返回翻转数量
// @Tags 作业布置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=gin.H}
// @Router /api/admin/assignments/overdue-sweep [post]
func (c *AssignmentController) SweepOverdue(ctx *gin.Context) {
	count, err := c.AssignmentService.UpdateOverdueAssignments()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"flipped": count})
}
