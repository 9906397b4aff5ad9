package service

import (
	"errors"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpsertPreference(pref *model.PlannerPreference) error
}

type AuthService struct {
	UserRepo UserStore
	JWTCfg   config.JWTConfig
}

func NewAuthService(userRepo UserStore, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{UserRepo: userRepo, JWTCfg: jwtCfg}
}

// Register 注册新用户，邮箱唯一
func (s *AuthService) Register(email, password, fullName string) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login 校验密码并签发 JWT
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidPassword
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidPassword
	}

	token, err := util.GenerateJWT(user, s.JWTCfg.Secret, s.JWTCfg.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdatePreference 更新计划生成偏好
func (s *AuthService) UpdatePreference(userID uint, dailyHours float64, skipWeekends bool, breakMinutes int) (*model.PlannerPreference, error) {
	pref := &model.PlannerPreference{
		UserID:          userID,
		DailyStudyHours: dailyHours,
		SkipWeekends:    skipWeekends,
		BreakMinutes:    breakMinutes,
	}
	if err := s.UserRepo.UpsertPreference(pref); err != nil {
		return nil, err
	}
	return pref, nil
}
