package repository

import (
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("Subject").First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) FindByUserID(userID uint) ([]*model.Exam, error) {
	var exams []*model.Exam
	err := r.DB.Where("user_id = ?", userID).Order("exam_date").Find(&exams).Error
	return exams, err
}

// FindUpcoming 查询 [from, to] 日期范围内的考试，按日期升序
func (r *ExamRepository) FindUpcoming(userID uint, from, to time.Time) ([]*model.Exam, error) {
	var exams []*model.Exam
	err := r.DB.Preload("Subject").
		Where("user_id = ? AND exam_date >= ? AND exam_date <= ?",
			userID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("exam_date").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) Delete(id uint, userID uint) error {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Exam{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
