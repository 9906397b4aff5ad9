package repository

import (
	"study_planner_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) FindByUserID(userID uint) ([]*model.Subject, error) {
	var subjects []*model.Subject
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Subject{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *SubjectRepository) Update(subject *model.Subject) error {
	return r.DB.Save(subject).Error
}

// Delete 删除科目并级联删除其考试与学习时段
func (r *SubjectRepository) Delete(id uint, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Subject{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("subject_id = ?", id).Delete(&model.Exam{}).Error; err != nil {
			return err
		}
		return tx.Where("subject_id = ?", id).Delete(&model.StudySession{}).Error
	})
}
