package controller

import (
	"errors"
	"strconv"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubjectController struct {
	SubjectRepo *repository.SubjectRepository
}

func NewSubjectController(subjectRepo *repository.SubjectRepository) *SubjectController {
	return &SubjectController{SubjectRepo: subjectRepo}
}

// SubjectRequest 科目创建/更新请求体
// swagger:model SubjectRequest
type SubjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// Create godoc
// @Summary 创建科目
// @Tags 科目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubjectRequest true "科目信息"
// @Success 201 {object} util.Response{data=model.Subject} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject := &model.Subject{
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.SubjectRepo.Create(subject); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, subject)
}

// List godoc
// @Summary 科目列表
// @Tags 科目
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Subject} "科目列表"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subjects, err := c.SubjectRepo.FindByUserID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, subjects)
}

// Update godoc
// @Summary 更新科目
// @Tags 科目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "科目ID"
// @Param   body body SubjectRequest true "科目信息"
// @Success 200 {object} util.Response{data=model.Subject} "更新成功"
// @Failure 404 {object} util.Response "科目不存在"
// @Router /api/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	var req SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectRepo.FindByID(uint(id))
	if err != nil || subject.UserID != claims.UserID {
		util.NotFound(ctx)
		return
	}

	subject.Name = req.Name
	subject.Description = req.Description
	if err := c.SubjectRepo.Update(subject); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, subject)
}

// Delete godoc
// @Summary 删除科目
// @Description 同时删除该科目下的考试和学习时段
// @Tags 科目
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "科目ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "科目不存在"
// @Router /api/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	if err := c.SubjectRepo.Delete(uint(id), claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
