package controller

import (
	"errors"
	"strconv"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExamController struct {
	ExamRepo    *repository.ExamRepository
	SubjectRepo *repository.SubjectRepository
}

func NewExamController(examRepo *repository.ExamRepository, subjectRepo *repository.SubjectRepository) *ExamController {
	return &ExamController{ExamRepo: examRepo, SubjectRepo: subjectRepo}
}

// ExamRequest 考试创建/更新请求体
// swagger:model ExamRequest
type ExamRequest struct {
	SubjectID     uint   `json:"subject_id" binding:"required"`
	ExamName      string `json:"exam_name" binding:"required,max=255"`
	ExamDate      string `json:"exam_date" binding:"required"`
	PriorityLevel string `json:"priority_level" binding:"omitempty,oneof=low medium high"`
}

func (r *ExamRequest) parsedDate() (time.Time, error) {
	return util.ParseDate(r.ExamDate)
}

// Create godoc
// @Summary 创建考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExamRequest true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "科目不存在"
// @Router /api/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	examDate, err := req.parsedDate()
	if err != nil {
		util.BadRequest(ctx, "exam_date must be in YYYY-MM-DD format")
		return
	}

	// 科目必须属于当前用户
	subject, err := c.SubjectRepo.FindByID(req.SubjectID)
	if err != nil || subject.UserID != claims.UserID {
		util.NotFound(ctx)
		return
	}

	level := model.ImportanceMedium
	if req.PriorityLevel != "" {
		level = model.ImportanceLevel(req.PriorityLevel)
	}

	exam := &model.Exam{
		UserID:        claims.UserID,
		SubjectID:     req.SubjectID,
		ExamName:      req.ExamName,
		ExamDate:      examDate,
		PriorityLevel: level,
	}
	if err := c.ExamRepo.Create(exam); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// List godoc
// @Summary 考试列表
// @Description 按考试日期升序返回当前用户的所有考试
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Exam} "考试列表"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exams, err := c.ExamRepo.FindByUserID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// Update godoc
// @Summary 更新考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Param   body body ExamRequest true "考试信息"
// @Success 200 {object} util.Response{data=model.Exam} "更新成功"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	examDate, err := req.parsedDate()
	if err != nil {
		util.BadRequest(ctx, "exam_date must be in YYYY-MM-DD format")
		return
	}

	exam, err := c.ExamRepo.FindByID(uint(id))
	if err != nil || exam.UserID != claims.UserID {
		util.NotFound(ctx)
		return
	}

	// 换绑科目时同样校验归属
	if req.SubjectID != exam.SubjectID {
		subject, err := c.SubjectRepo.FindByID(req.SubjectID)
		if err != nil || subject.UserID != claims.UserID {
			util.NotFound(ctx)
			return
		}
	}

	exam.SubjectID = req.SubjectID
	exam.ExamName = req.ExamName
	exam.ExamDate = examDate
	if req.PriorityLevel != "" {
		exam.PriorityLevel = model.ImportanceLevel(req.PriorityLevel)
	}
	if err := c.ExamRepo.Update(exam); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// Delete godoc
// @Summary 删除考试
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	if err := c.ExamRepo.Delete(uint(id), claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
