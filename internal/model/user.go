package model

import "time"

type User struct {
	BaseModel
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	LastSeen     time.Time `json:"last_seen"`

	Preference *PlannerPreference `gorm:"foreignKey:UserID" json:"preference,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PlannerPreference 用户的排程偏好，生成请求未填时作为默认值
type PlannerPreference struct {
	BaseModel
	UserID          uint    `gorm:"uniqueIndex;type:bigint unsigned" json:"user_id"`
	DailyStudyHours float64 `gorm:"default:4" json:"daily_study_hours"`
	SkipWeekends    bool    `gorm:"default:true" json:"skip_weekends"`
	BreakMinutes    int     `gorm:"default:15" json:"break_minutes"`
}

func (PlannerPreference) TableName() string {
	return "planner_preferences"
}
