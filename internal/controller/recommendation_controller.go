package controller

import (
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recommendation *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendation}
}

// Get godoc
// @Summary 学习建议
// @Description 根据学习规律、临近考试和逾期任务给出下一步行动建议，结果短暂缓存
// @Tags 建议
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Recommendation} "建议"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/recommendations [get]
func (c *RecommendationController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rec, err := c.RecommendationService.Recommend(ctx.Request.Context(), claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rec)
}
