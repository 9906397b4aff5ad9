package repository

import (
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type StudySessionRepository struct {
	DB *gorm.DB
}

func NewStudySessionRepository(db *gorm.DB) *StudySessionRepository {
	return &StudySessionRepository{DB: db}
}

func (r *StudySessionRepository) FindByID(id uint) (*model.StudySession, error) {
	var session model.StudySession
	err := r.DB.First(&session, id).Error
	return &session, err
}

func (r *StudySessionRepository) FindByUserID(userID uint) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	err := r.DB.Where("user_id = ?", userID).
		Order("study_date, sequence").
		Find(&sessions).Error
	return sessions, err
}

// FindByUserAndRange 查询 [start, end] 日期范围内的学习时段
func (r *StudySessionRepository) FindByUserAndRange(userID uint, start, end time.Time) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	err := r.DB.Where("user_id = ? AND study_date >= ? AND study_date <= ?",
		userID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("study_date, sequence").
		Find(&sessions).Error
	return sessions, err
}

func (r *StudySessionRepository) FindByUserAndDate(userID uint, date time.Time) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	err := r.DB.Where("user_id = ? AND study_date = ?",
		userID, date.Format("2006-01-02")).
		Order("sequence").
		Find(&sessions).Error
	return sessions, err
}

// FindOverdue 查询截至 asOf（不含）仍未完成的时段，按日期从旧到新
func (r *StudySessionRepository) FindOverdue(userID uint, asOf time.Time) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	err := r.DB.Where("user_id = ? AND is_completed = ? AND study_date < ?",
		userID, false, asOf.Format("2006-01-02")).
		Order("study_date, sequence").
		Find(&sessions).Error
	return sessions, err
}

// ReplaceRange 原子替换范围内的计划：先删后插在同一事务中完成，
// 避免并发读到半替换状态。preserveCompleted 为 true 时保留已完成的时段。
func (r *StudySessionRepository) ReplaceRange(userID uint, start, end time.Time, preserveCompleted bool, sessions []*model.StudySession) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ? AND study_date >= ? AND study_date <= ?",
			userID, start.Format("2006-01-02"), end.Format("2006-01-02"))
		if preserveCompleted {
			query = query.Where("is_completed = ?", false)
		}
		if err := query.Delete(&model.StudySession{}).Error; err != nil {
			return err
		}

		for _, session := range sessions {
			if err := tx.Create(session).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *StudySessionRepository) Update(session *model.StudySession) error {
	return r.DB.Save(session).Error
}

func (r *StudySessionRepository) DeleteRange(userID uint, start, end time.Time) error {
	return r.DB.Where("user_id = ? AND study_date >= ? AND study_date <= ?",
		userID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Delete(&model.StudySession{}).Error
}

// FindUsersWithPendingSessions 返回存在未完成时段的用户ID，供定时巡检使用
func (r *StudySessionRepository) FindUsersWithPendingSessions() ([]uint, error) {
	var userIDs []uint
	err := r.DB.Model(&model.StudySession{}).
		Where("is_completed = ?", false).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
