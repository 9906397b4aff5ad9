package controller

import (
	"strconv"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progress *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progress}
}

// Report godoc
// @Summary 进度报告
// @Description 统计最近 N 天（默认7天）的完成情况
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   days query int false "回看天数，默认7"
// @Success 200 {object} util.Response{data=service.ProgressReport} "进度报告"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/progress [get]
func (c *ProgressController) Report(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days := 7
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			util.BadRequest(ctx, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	report, err := c.ProgressService.AnalyzeUser(claims.UserID, days, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// Patterns godoc
// @Summary 学习规律
// @Description 最近14天的一致性和日均时长指标
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudyPatterns} "学习规律"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/progress/patterns [get]
func (c *ProgressController) Patterns(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	patterns, err := c.ProgressService.PatternsForUser(claims.UserID, 14, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, patterns)
}
