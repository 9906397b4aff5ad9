package repository

import (
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Preference").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindAll() ([]*model.User, error) {
	var users []*model.User
	err := r.DB.Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

func (r *UserRepository) GetPreference(userID uint) (*model.PlannerPreference, error) {
	var pref model.PlannerPreference
	err := r.DB.Where("user_id = ?", userID).First(&pref).Error
	return &pref, err
}

// UpsertPreference 每个用户只保留一条偏好记录
func (r *UserRepository) UpsertPreference(pref *model.PlannerPreference) error {
	var existing model.PlannerPreference
	err := r.DB.Where("user_id = ?", pref.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(pref).Error
	}
	if err != nil {
		return err
	}
	pref.ID = existing.ID
	return r.DB.Save(pref).Error
}
