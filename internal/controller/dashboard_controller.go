package controller

import (
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboard}
}

// Stats godoc
// @Summary 首页概览
// @Description 科目数、临近考试数、今日任务和一周完成率
// @Tags 首页
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardStats} "概览数据"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/dashboard [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.Stats(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// TodayTasks godoc
// @Summary 今日任务
// @Description 今日的学习时段列表，带是否允许打卡的标记
// @Tags 首页
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.TodayTask} "今日任务"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/dashboard/today [get]
func (c *DashboardController) TodayTasks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.DashboardService.TodayTasks(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tasks)
}
