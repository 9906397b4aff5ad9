package controller

import (
	"errors"
	"strconv"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StudyPlanController struct {
	PlannerService        *service.PlannerService
	ProgressService       *service.ProgressService
	RecommendationService *service.RecommendationService
	SessionRepo           service.SessionStore
}

func NewStudyPlanController(planner *service.PlannerService, progress *service.ProgressService, recommendation *service.RecommendationService, sessionRepo service.SessionStore) *StudyPlanController {
	return &StudyPlanController{
		PlannerService:        planner,
		ProgressService:       progress,
		RecommendationService: recommendation,
		SessionRepo:           sessionRepo,
	}
}

// GeneratePlanRequest 计划生成请求体，未填的字段用用户偏好或全局默认值
// swagger:model GeneratePlanRequest
type GeneratePlanRequest struct {
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	DailyHours   *float64 `json:"daily_hours" binding:"omitempty,gt=0,lte=24"`
	SkipWeekends *bool    `json:"skip_weekends"`
}

// Generate godoc
// @Summary 生成学习计划
// @Description 为日期范围生成学习时段，范围内旧计划会被替换
// @Tags 学习计划
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GeneratePlanRequest true "生成参数"
// @Success 201 {object} util.Response{data=object} "生成成功"
// @Failure 400 {object} util.Response "参数错误或没有科目"
// @Router /api/plan/generate [post]
func (c *StudyPlanController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GeneratePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	startDate, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.BadRequest(ctx, "start_date must be in YYYY-MM-DD format")
		return
	}
	endDate, err := util.ParseDate(req.EndDate)
	if err != nil {
		util.BadRequest(ctx, "end_date must be in YYYY-MM-DD format")
		return
	}

	planReq := c.PlannerService.DefaultRequest(claims.UserID)
	planReq.StartDate = startDate
	planReq.EndDate = endDate
	if req.DailyHours != nil {
		planReq.DailyHours = *req.DailyHours
	}
	if req.SkipWeekends != nil {
		planReq.SkipWeekends = *req.SkipWeekends
	}

	sessions, err := c.PlannerService.GeneratePlan(planReq)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidDateRange):
			util.BadRequest(ctx, "end_date must not be before start_date")
		case errors.Is(err, util.ErrInvalidBudget):
			util.BadRequest(ctx, "daily_hours must be positive")
		case errors.Is(err, util.ErrNoSubjects):
			util.BadRequest(ctx, "add at least one subject before generating a plan")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.RecommendationService.InvalidateCache(ctx.Request.Context(), claims.UserID, time.Now())

	util.Created(ctx, gin.H{
		"total_sessions": len(sessions),
		"sessions":       sessions,
	})
}

// List godoc
// @Summary 查询计划
// @Description 返回日期范围内的学习时段，按日期和序号排序
// @Tags 学习计划
// @Produce  json
// @Security BearerAuth
// @Param   start query string true "开始日期 YYYY-MM-DD"
// @Param   end query string true "结束日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.StudySession} "学习时段"
// @Failure 400 {object} util.Response "日期格式错误"
// @Router /api/plan [get]
func (c *StudyPlanController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	start, err := util.ParseDate(ctx.Query("start"))
	if err != nil {
		util.BadRequest(ctx, "start must be in YYYY-MM-DD format")
		return
	}
	end, err := util.ParseDate(ctx.Query("end"))
	if err != nil {
		util.BadRequest(ctx, "end must be in YYYY-MM-DD format")
		return
	}

	sessions, err := c.SessionRepo.FindByUserAndRange(claims.UserID, start, end)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// Today godoc
// @Summary 今日计划
// @Tags 学习计划
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudySession} "今日时段"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/plan/today [get]
func (c *StudyPlanController) Today(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionRepo.FindByUserAndDate(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// Complete godoc
// @Summary 标记时段完成
// @Description 未来日期的时段不允许提前打卡
// @Tags 学习计划
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "时段ID"
// @Success 200 {object} util.Response{data=model.StudySession} "标记成功"
// @Failure 400 {object} util.Response "不允许提前完成"
// @Failure 404 {object} util.Response "时段不存在"
// @Router /api/plan/sessions/{id}/complete [post]
func (c *StudyPlanController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	session, err := c.ProgressService.MarkCompleted(uint(id), claims.UserID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrFutureCompletion):
			util.BadRequest(ctx, "cannot complete a session scheduled in the future")
		case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.RecommendationService.InvalidateCache(ctx.Request.Context(), claims.UserID, time.Now())

	util.Success(ctx, session)
}

// Uncomplete godoc
// @Summary 撤销完成标记
// @Tags 学习计划
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "时段ID"
// @Success 200 {object} util.Response{data=model.StudySession} "撤销成功"
// @Failure 404 {object} util.Response "时段不存在"
// @Router /api/plan/sessions/{id}/complete [delete]
func (c *StudyPlanController) Uncomplete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	session, err := c.ProgressService.MarkIncomplete(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.RecommendationService.InvalidateCache(ctx.Request.Context(), claims.UserID, time.Now())

	util.Success(ctx, session)
}
