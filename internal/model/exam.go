package model

import "time"

// ImportanceLevel 考试重要程度
type ImportanceLevel string

const (
	ImportanceLow    ImportanceLevel = "low"
	ImportanceMedium ImportanceLevel = "medium"
	ImportanceHigh   ImportanceLevel = "high"
)

// Weight 重要程度对应的紧迫度乘数，未识别的取 1.0
func (l ImportanceLevel) Weight() float64 {
	switch l {
	case ImportanceHigh:
		return 1.5
	case ImportanceLow:
		return 0.7
	default:
		return 1.0
	}
}

type Exam struct {
	BaseModel
	UserID        uint            `gorm:"index;not null;type:bigint unsigned" json:"user_id"`
	SubjectID     uint            `gorm:"index;not null;type:bigint unsigned" json:"subject_id"`
	ExamName      string          `gorm:"size:255;not null" json:"exam_name"`
	ExamDate      time.Time       `gorm:"type:date;index;not null" json:"exam_date"`
	PriorityLevel ImportanceLevel `gorm:"type:enum('low','medium','high');default:'medium'" json:"priority_level"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}
