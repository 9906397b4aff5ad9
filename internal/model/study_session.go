package model

import "time"

// StudySession 排程器输出的单个学习时段，创建后只允许完成/撤销完成，
// 其余字段在生成时固定
type StudySession struct {
	BaseModel
	UserID       uint       `gorm:"index;not null;type:bigint unsigned" json:"user_id"`
	SubjectID    uint       `gorm:"index;not null;type:bigint unsigned" json:"subject_id"`
	SubjectName  string     `gorm:"size:255" json:"subject_name"`
	StudyDate    time.Time  `gorm:"type:date;index;not null" json:"study_date"`
	PlannedHours float64    `gorm:"type:decimal(4,2);not null" json:"planned_hours"`
	Topic        string     `gorm:"size:255" json:"topic"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Priority     int        `gorm:"default:1" json:"priority"`
	Sequence     int        `gorm:"default:0" json:"sequence"`
	BatchID      string     `gorm:"size:36;index" json:"batch_id"`
	IsCompleted  bool       `gorm:"default:false;index" json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// IsOverdue 截至 asOf 仍未完成且日期已过
func (s *StudySession) IsOverdue(asOf time.Time) bool {
	return !s.IsCompleted && DateOnly(s.StudyDate).Before(DateOnly(asOf))
}
